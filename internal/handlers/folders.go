package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/docvault/docvault/internal/services"
	"github.com/docvault/docvault/internal/utils"
)

// FolderHandler handles folder routes
type FolderHandler struct {
	DB *gorm.DB
}

// Create handles POST /api/folders
// @Summary Create a folder
// @Tags Folders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.FolderInput true "Folder details"
// @Success 201 {object} models.Folder
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /folders [post]
func (h *FolderHandler) Create(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	var body services.FolderInput
	if err := c.BodyParser(&body); err != nil {
		return invalidInput(c)
	}

	folder, err := services.CreateFolder(h.DB, p, body)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Folder created successfully",
		"folder":  folder,
	})
}

// ListByCategory handles GET /api/folders/category/:categoryId
// @Summary List a category's folders
// @Tags Folders
// @Produce json
// @Security BearerAuth
// @Param categoryId path string true "Category ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /folders/category/{categoryId} [get]
func (h *FolderHandler) ListByCategory(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	folders, err := services.ListFoldersByCategory(h.DB, p, c.Params("categoryId"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"folders": folders})
}

// Get handles GET /api/folders/:id
// @Summary Get one folder with its documents
// @Tags Folders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Folder ID"
// @Success 200 {object} models.Folder
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /folders/{id} [get]
func (h *FolderHandler) Get(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	folder, err := services.GetFolder(h.DB, p, c.Params("id"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"folder": folder})
}

// Update handles PUT /api/folders/:id
// @Summary Update a folder
// @Tags Folders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Folder ID"
// @Param body body services.FolderUpdateInput true "New details"
// @Success 200 {object} models.Folder
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /folders/{id} [put]
func (h *FolderHandler) Update(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	var body services.FolderUpdateInput
	if err := c.BodyParser(&body); err != nil {
		return invalidInput(c)
	}

	folder, err := services.UpdateFolder(h.DB, p, c.Params("id"), body)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Folder updated successfully",
		"folder":  folder,
	})
}

// Delete handles DELETE /api/folders/:id
// @Summary Delete an empty folder
// @Description A folder that still holds documents is refused
// @Tags Folders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Folder ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /folders/{id} [delete]
func (h *FolderHandler) Delete(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	if err := services.DeleteFolder(h.DB, p, c.Params("id")); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Folder deleted successfully"})
}
