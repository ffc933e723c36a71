package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/docvault/docvault/internal/types"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends a standard error response
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// DomainErrorResponse maps a service-layer error to its transport status.
// Unclassified errors surface as an opaque 500 so store detail never leaks.
func DomainErrorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"
	errorType := "internal"

	switch types.KindOf(err) {
	case types.KindNotFound:
		status, message, errorType = fiber.StatusNotFound, err.Error(), "not_found"
	case types.KindForbidden:
		status, message, errorType = fiber.StatusForbidden, err.Error(), "forbidden"
	case types.KindConflict:
		status, message, errorType = fiber.StatusConflict, err.Error(), "conflict"
	case types.KindValidation:
		status, message, errorType = fiber.StatusBadRequest, err.Error(), "validation"
	case types.KindInvariant:
		status, message, errorType = fiber.StatusBadRequest, err.Error(), "invariant"
	case types.KindUnauthorized:
		status, message, errorType = fiber.StatusUnauthorized, err.Error(), "unauthorized"
	}

	return ErrorResponse(c, message, status, errorType)
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}
