package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/docvault/docvault/internal/authz"
	"github.com/docvault/docvault/internal/middleware"
	"github.com/docvault/docvault/internal/services"
	"github.com/docvault/docvault/internal/types"
	"github.com/docvault/docvault/internal/utils"
)

// requireIdentity extracts the authenticated identity or fails the request.
// The auth middleware always sets it; a miss means a route wiring bug.
func requireIdentity(c *fiber.Ctx) (middleware.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return middleware.Identity{}, &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Access denied. No token provided.",
			Type:    "auth.token",
		}
	}
	return identity, nil
}

// principalFrom resolves the request's authorization principal.
func principalFrom(c *fiber.Ctx) (authz.Principal, error) {
	identity, err := requireIdentity(c)
	if err != nil {
		return authz.Principal{}, err
	}
	return identity.Principal(), nil
}

// formFile pulls the uploaded file from the multipart form, returning its
// descriptor for validation and an open reader for the blob store.
func formFile(c *fiber.Ctx, field string) (services.Upload, multipart.File, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return services.Upload{}, nil, types.Validation("No file uploaded")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return services.Upload{}, nil, err
	}

	up := services.Upload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Size:        fileHeader.Size,
	}
	return up, f, nil
}

// invalidInput is the shared 400 for unparseable request bodies.
func invalidInput(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation.input")
}
