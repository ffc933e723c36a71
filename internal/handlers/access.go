package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/docvault/docvault/internal/services"
	"github.com/docvault/docvault/internal/utils"
)

// AccessHandler handles access-control administration routes
type AccessHandler struct {
	DB *gorm.DB
}

// Grant handles POST /api/access/grant
// @Summary Grant or change category access
// @Description Grants a member access to a category; an existing grant has its level updated in place
// @Tags Access
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.GrantInput true "Grant details"
// @Success 201 {object} models.AccessGrant
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /access/grant [post]
func (h *AccessHandler) Grant(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	var body services.GrantInput
	if err := c.BodyParser(&body); err != nil {
		return invalidInput(c)
	}

	grant, err := services.GrantAccess(h.DB, p, body)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Access granted successfully",
		"accessControl": grant,
	})
}

// Revoke handles POST /api/access/revoke
// @Summary Revoke category access
// @Description Removes a member's grant entirely; there is no disabled state
// @Tags Access
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RevokeInput true "Revoke details"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /access/revoke [post]
func (h *AccessHandler) Revoke(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	var body services.RevokeInput
	if err := c.BodyParser(&body); err != nil {
		return invalidInput(c)
	}

	if err := services.RevokeAccess(h.DB, p, body); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Access revoked successfully"})
}

// ListUsers handles GET /api/access/users
// @Summary List all members with their grants
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /access/users [get]
func (h *AccessHandler) ListUsers(c *fiber.Ctx) error {
	if _, err := principalFrom(c); err != nil {
		return err
	}

	members, err := services.ListMembers(h.DB)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"users": members})
}

// UserAccess handles GET /api/access/users/:userId
// @Summary List one member's grants
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Member ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /access/users/{userId} [get]
func (h *AccessHandler) UserAccess(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	grants, err := services.ListMemberGrants(h.DB, p, c.Params("userId"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"userAccess": grants})
}

// CategoryAccess handles GET /api/access/categories/:categoryId
// @Summary List one category's grants
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Param categoryId path string true "Category ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /access/categories/{categoryId} [get]
func (h *AccessHandler) CategoryAccess(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	grants, err := services.ListCategoryGrants(h.DB, p, c.Params("categoryId"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"categoryAccess": grants})
}
