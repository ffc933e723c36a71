package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/docvault/docvault/internal/services"
	"github.com/docvault/docvault/internal/utils"
)

// CategoryHandler handles category routes
type CategoryHandler struct {
	DB *gorm.DB
}

// Create handles POST /api/categories
// @Summary Create a category
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CategoryInput true "Category details"
// @Success 201 {object} models.Category
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	var body services.CategoryInput
	if err := c.BodyParser(&body); err != nil {
		return invalidInput(c)
	}

	category, err := services.CreateCategory(h.DB, p, body)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Category created successfully",
		"category": category,
	})
}

// List handles GET /api/categories
// @Summary List visible categories
// @Description Administrators see every category; members see only granted ones
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	categories, err := services.ListCategories(h.DB, p)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"categories": categories})
}

// Get handles GET /api/categories/:id
// @Summary Get one category
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} models.Category
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /categories/{id} [get]
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	category, err := services.GetCategory(h.DB, p, c.Params("id"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"category": category})
}

// Update handles PUT /api/categories/:id
// @Summary Update a category
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param body body services.CategoryInput true "New details"
// @Success 200 {object} models.Category
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	var body services.CategoryInput
	if err := c.BodyParser(&body); err != nil {
		return invalidInput(c)
	}

	category, err := services.UpdateCategory(h.DB, p, c.Params("id"), body)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Category updated successfully",
		"category": category,
	})
}

// Delete handles DELETE /api/categories/:id
// @Summary Delete an empty category
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	if err := services.DeleteCategory(h.DB, p, c.Params("id")); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Category deleted successfully"})
}
