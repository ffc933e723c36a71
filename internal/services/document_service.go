package services

import (
	"context"
	"encoding/json"
	"io"
	"path"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/docvault/docvault/internal/authz"
	"github.com/docvault/docvault/internal/models"
	"github.com/docvault/docvault/internal/storage"
	"github.com/docvault/docvault/internal/types"
)

// DocumentInput is the metadata payload accompanying a document upload.
type DocumentInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	FolderID    string `json:"folderId"`
}

// DocumentUpdateInput is the payload for metadata-only document updates.
// The payload itself never changes in place; that is what versions are for.
type DocumentUpdateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateDocument validates and stores the payload, then records the
// document with its version 1 in one transaction. The blob goes out first:
// a failed insert leaves an unreferenced blob, never a version row with a
// dangling URL.
func CreateDocument(ctx context.Context, db *gorm.DB, store storage.BlobStore, p authz.Principal, in DocumentInput, up Upload, payload io.Reader, maxBytes int64) (*models.Document, error) {
	if in.Title == "" || in.FolderID == "" {
		return nil, types.Validation("title and folderId are required")
	}
	if err := ValidateUpload(up, maxBytes); err != nil {
		return nil, err
	}

	var folder models.Folder
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("Category").
		Where("id = ?", in.FolderID).
		First(&folder).Error
	if err == gorm.ErrRecordNotFound {
		return nil, types.NotFound("Folder not found or access denied")
	}
	if err != nil {
		return nil, err
	}

	grant, err := grantFor(db, p, folder.CategoryID)
	if err != nil {
		return nil, err
	}
	if authz.CanCreateContent(p, grant) != authz.Permitted {
		return nil, types.NotFound("Folder not found or access denied")
	}

	obj, err := store.Store(ctx, payload, up.Size, storage.PutMetadata{
		FolderPath:   blobPrefix(&folder),
		FilenameHint: up.Filename,
		ContentType:  up.ContentType,
	})
	if err != nil {
		return nil, err
	}

	doc := models.Document{
		Title:           in.Title,
		Description:     in.Description,
		FolderID:        in.FolderID,
		Owner:           p.Owner(),
		CurrentURL:      obj.URL,
		CurrentFileType: up.ContentType,
		CurrentFileSize: obj.Size,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}
		version := models.DocumentVersion{
			DocumentID:    doc.ID,
			VersionNumber: 1,
			URL:           obj.URL,
			FileType:      up.ContentType,
			FileSize:      obj.Size,
			ChangeLog:     "Initial version",
			Uploader:      p.Owner(),
			StorageMeta:   storageMeta(obj),
		}
		return tx.Create(&version).Error
	})
	if err != nil {
		return nil, err
	}

	doc.Folder = &folder
	return &doc, nil
}

// ListDocumentsByFolder returns a folder's documents with their latest
// version attached.
func ListDocumentsByFolder(db *gorm.DB, p authz.Principal, folderID string) ([]models.Document, error) {
	var folder models.Folder
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", folderID).
		First(&folder).Error
	if err == gorm.ErrRecordNotFound {
		return nil, types.NotFound("Folder not found or access denied")
	}
	if err != nil {
		return nil, err
	}

	grant, err := grantFor(db, p, folder.CategoryID)
	if err != nil {
		return nil, err
	}
	if authz.CanReadCategory(p, grant) != authz.Permitted {
		return nil, types.NotFound("Folder not found or access denied")
	}

	var documents []models.Document
	err = db.Preload("Folder").
		Preload("Versions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("version_number DESC")
		}).
		Where("folder_id = ?", folderID).
		Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}

// GetDocument returns one document with its full version history, newest
// first.
func GetDocument(db *gorm.DB, p authz.Principal, id string) (*models.Document, error) {
	var doc models.Document
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("Folder").
		Preload("Folder.Category").
		Preload("Versions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("version_number DESC")
		}).
		Where("id = ?", id).
		First(&doc).Error
	if err == gorm.ErrRecordNotFound {
		return nil, types.NotFound("Document not found or access denied")
	}
	if err != nil {
		return nil, err
	}

	grant, err := grantFor(db, p, doc.Folder.CategoryID)
	if err != nil {
		return nil, err
	}
	if authz.CanReadCategory(p, grant) != authz.Permitted {
		return nil, types.NotFound("Document not found or access denied")
	}
	return &doc, nil
}

// UpdateDocument changes a document's title and description.
func UpdateDocument(db *gorm.DB, p authz.Principal, id string, in DocumentUpdateInput) (*models.Document, error) {
	var doc models.Document
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("Folder").
		Where("id = ?", id).
		First(&doc).Error
	if err == gorm.ErrRecordNotFound {
		return nil, types.NotFound("Document not found")
	}
	if err != nil {
		return nil, err
	}

	if err := checkContentMutation(db, p, doc.Owner, doc.Folder.CategoryID, "Access denied to this document"); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"description": in.Description}
	if in.Title != "" {
		updates["title"] = in.Title
	}
	if err := db.Model(&doc).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes a document and its whole version history. Blobs
// are retained; history references them until storage-side retention
// cleans them up.
func DeleteDocument(db *gorm.DB, p authz.Principal, id string) error {
	var doc models.Document
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("Folder").
		Where("id = ?", id).
		First(&doc).Error
	if err == gorm.ErrRecordNotFound {
		return types.NotFound("Document not found")
	}
	if err != nil {
		return err
	}

	if err := checkContentMutation(db, p, doc.Owner, doc.Folder.CategoryID, "Access denied to this document"); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&models.DocumentVersion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&doc).Error
	})
}

// blobPrefix builds the "category/folder" object prefix for a payload.
func blobPrefix(folder *models.Folder) string {
	if folder.Category != nil {
		return path.Join("documents", folder.Category.Name, folder.Name)
	}
	return path.Join("documents", folder.Name)
}

// storageMeta records the store-internal location alongside the version row.
func storageMeta(obj storage.Object) models.JSON {
	b, err := json.Marshal(map[string]interface{}{
		"key":  obj.Key,
		"size": obj.Size,
	})
	if err != nil {
		return models.JSON{}
	}
	return models.JSON{JSON: datatypes.JSON(b)}
}
