package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/docvault/docvault/internal/services"
	"github.com/docvault/docvault/internal/storage"
	"github.com/docvault/docvault/internal/utils"
)

// DocumentHandler handles document and version routes
type DocumentHandler struct {
	DB             *gorm.DB
	Store          storage.BlobStore
	Log            *zap.Logger
	MaxUploadBytes int64
}

// Create handles POST /api/documents (multipart)
// @Summary Upload a document
// @Description Stores the payload and records the document with version 1
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Payload (.pdf, .doc, .docx, .xls, .xlsx; max 10MB)"
// @Param title formData string true "Document title"
// @Param description formData string false "Document description"
// @Param folderId formData string true "Target folder ID"
// @Success 201 {object} models.Document
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	up, payload, err := formFile(c, "file")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	defer payload.Close()

	in := services.DocumentInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		FolderID:    c.FormValue("folderId"),
	}

	doc, err := services.CreateDocument(c.UserContext(), h.DB, h.Store, p, in, up, payload, h.MaxUploadBytes)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	h.Log.Info("document created",
		zap.String("document_id", doc.ID),
		zap.String("folder_id", doc.FolderID),
		zap.Int64("size", doc.CurrentFileSize),
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Document created successfully",
		"document": doc,
	})
}

// ListByFolder handles GET /api/documents/folder/:folderId
// @Summary List a folder's documents
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param folderId path string true "Folder ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/folder/{folderId} [get]
func (h *DocumentHandler) ListByFolder(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	documents, err := services.ListDocumentsByFolder(h.DB, p, c.Params("folderId"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"documents": documents})
}

// Get handles GET /api/documents/:id
// @Summary Get one document with its version history
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} models.Document
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	doc, err := services.GetDocument(h.DB, p, c.Params("id"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"document": doc})
}

// Update handles PUT /api/documents/:id
// @Summary Update a document's metadata
// @Description Title and description only; the payload changes through versions
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Param body body services.DocumentUpdateInput true "New metadata"
// @Success 200 {object} models.Document
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id} [put]
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	var body services.DocumentUpdateInput
	if err := c.BodyParser(&body); err != nil {
		return invalidInput(c)
	}

	doc, err := services.UpdateDocument(h.DB, p, c.Params("id"), body)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Document updated successfully",
		"document": doc,
	})
}

// Delete handles DELETE /api/documents/:id
// @Summary Delete a document and its history
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	if err := services.DeleteDocument(h.DB, p, c.Params("id")); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Document deleted successfully"})
}

// CreateVersion handles POST /api/documents/:id/versions (multipart)
// @Summary Append a new version
// @Description Stores the payload as the document's next version and advances the current pointer
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Param file formData file true "Payload"
// @Param changeLog formData string false "Change description"
// @Success 201 {object} models.DocumentVersion
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id}/versions [post]
func (h *DocumentHandler) CreateVersion(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	up, payload, err := formFile(c, "file")
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	defer payload.Close()

	in := services.VersionInput{ChangeLog: c.FormValue("changeLog")}

	version, err := services.AppendVersion(c.UserContext(), h.DB, h.Store, p, c.Params("id"), in, up, payload, h.MaxUploadBytes)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	h.Log.Info("version appended",
		zap.String("document_id", version.DocumentID),
		zap.Int("version", version.VersionNumber),
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Document version created successfully",
		"version": version,
	})
}

// ListVersions handles GET /api/documents/:id/versions
// @Summary List a document's versions, newest first
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id}/versions [get]
func (h *DocumentHandler) ListVersions(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	versions, err := services.ListVersions(h.DB, p, c.Params("id"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"versions": versions})
}

// RestoreVersion handles POST /api/documents/:id/versions/:versionId/restore
// @Summary Restore an old version
// @Description Appends a copy of the target version as the new head; history is never rewritten
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Param versionId path string true "Version ID to restore"
// @Success 200 {object} models.DocumentVersion
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id}/versions/{versionId}/restore [post]
func (h *DocumentHandler) RestoreVersion(c *fiber.Ctx) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	version, err := services.RestoreVersion(h.DB, p, c.Params("id"), c.Params("versionId"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	h.Log.Info("version restored",
		zap.String("document_id", version.DocumentID),
		zap.Int("version", version.VersionNumber),
	)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Document version restored successfully",
		"version": version,
	})
}
