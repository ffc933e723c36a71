package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/docvault/docvault/internal/services"
	"github.com/docvault/docvault/internal/utils"
)

// AuthHandler handles registration, login and identity routes
type AuthHandler struct {
	DB       *gorm.DB
	Secret   []byte
	TokenTTL time.Duration
}

// RegisterAdmin handles POST /api/auth/admin/register
// @Summary Register a system administrator
// @Description Create an administrator account and return a signed token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Administrator details"
// @Success 201 {object} services.AuthResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/admin/register [post]
func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	var body services.RegisterInput
	if err := c.BodyParser(&body); err != nil {
		return invalidInput(c)
	}

	result, err := services.RegisterAdmin(h.DB, h.Secret, h.TokenTTL, body)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "System Admin created successfully",
		"token":   result.Token,
		"admin":   result,
	})
}

// LoginAdmin handles POST /api/auth/admin/login
// @Summary Log in a system administrator
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} services.AuthResult
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/admin/login [post]
func (h *AuthHandler) LoginAdmin(c *fiber.Ctx) error {
	var body services.LoginInput
	if err := c.BodyParser(&body); err != nil {
		return invalidInput(c)
	}

	result, err := services.LoginAdmin(h.DB, h.Secret, h.TokenTTL, body)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"token":   result.Token,
		"admin":   result,
	})
}

// RegisterMember handles POST /api/auth/user/register
// @Summary Register a member
// @Description Create a member account and return a signed token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Member details"
// @Success 201 {object} services.AuthResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/user/register [post]
func (h *AuthHandler) RegisterMember(c *fiber.Ctx) error {
	var body services.RegisterInput
	if err := c.BodyParser(&body); err != nil {
		return invalidInput(c)
	}

	result, err := services.RegisterMember(h.DB, h.Secret, h.TokenTTL, body)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"token":   result.Token,
		"user":    result,
	})
}

// LoginMember handles POST /api/auth/user/login
// @Summary Log in a member
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} services.AuthResult
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/user/login [post]
func (h *AuthHandler) LoginMember(c *fiber.Ctx) error {
	var body services.LoginInput
	if err := c.BodyParser(&body); err != nil {
		return invalidInput(c)
	}

	result, err := services.LoginMember(h.DB, h.Secret, h.TokenTTL, body)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result,
	})
}

// Me handles GET /api/auth/me
// @Summary Get the authenticated account
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} middleware.Identity
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": identity})
}
