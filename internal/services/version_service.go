package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/docvault/docvault/internal/authz"
	"github.com/docvault/docvault/internal/models"
	"github.com/docvault/docvault/internal/storage"
	"github.com/docvault/docvault/internal/types"
)

// versionInsertRetries bounds the retry loop when two appends race to the
// same version number. The unique index on (document_id, version_number)
// rejects the loser; one or two retries settle it.
const versionInsertRetries = 3

// VersionInput is the metadata accompanying a version upload.
type VersionInput struct {
	ChangeLog string `json:"changeLog"`
}

// AppendVersion stores a new payload and appends it as the document's next
// version, advancing the current pointer in the same transaction.
func AppendVersion(ctx context.Context, db *gorm.DB, store storage.BlobStore, p authz.Principal, docID string, in VersionInput, up Upload, payload io.Reader, maxBytes int64) (*models.DocumentVersion, error) {
	if err := ValidateUpload(up, maxBytes); err != nil {
		return nil, err
	}

	doc, err := loadVersionTarget(db, p, docID)
	if err != nil {
		return nil, err
	}

	obj, err := store.Store(ctx, payload, up.Size, storage.PutMetadata{
		FolderPath:   blobPrefix(doc.Folder),
		FilenameHint: up.Filename,
		ContentType:  up.ContentType,
	})
	if err != nil {
		return nil, err
	}

	version := models.DocumentVersion{
		URL:         obj.URL,
		FileType:    up.ContentType,
		FileSize:    obj.Size,
		ChangeLog:   in.ChangeLog,
		Uploader:    p.Owner(),
		StorageMeta: storageMeta(obj),
	}
	if err := insertNextVersion(db, doc.ID, &version, in.ChangeLog == ""); err != nil {
		return nil, err
	}
	return &version, nil
}

// ListVersions returns a document's full history, newest first. History is
// readable by anyone who can see the document.
func ListVersions(db *gorm.DB, p authz.Principal, docID string) ([]models.DocumentVersion, error) {
	var doc models.Document
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("Folder").
		Where("id = ?", docID).
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

	var versions []models.DocumentVersion
	err = db.Where("document_id = ?", docID).
		Order("version_number DESC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// RestoreVersion appends a copy of an old version as the new head. History
// is never rewritten: restoring version 2 of a five-version document yields
// version 6 with version 2's payload.
func RestoreVersion(db *gorm.DB, p authz.Principal, docID, versionID string) (*models.DocumentVersion, error) {
	doc, err := loadVersionTarget(db, p, docID)
	if err != nil {
		return nil, err
	}

	var target models.DocumentVersion
	err = db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", versionID).
		First(&target).Error
	if err == gorm.ErrRecordNotFound || (err == nil && target.DocumentID != doc.ID) {
		return nil, types.NotFound("Version not found")
	}
	if err != nil {
		return nil, err
	}

	version := models.DocumentVersion{
		URL:         target.URL,
		FileType:    target.FileType,
		FileSize:    target.FileSize,
		ChangeLog:   fmt.Sprintf("Restored from version %d", target.VersionNumber),
		Uploader:    p.Owner(),
		StorageMeta: target.StorageMeta,
	}
	if err := insertNextVersion(db, doc.ID, &version, false); err != nil {
		return nil, err
	}
	return &version, nil
}

// PointerDrift reports a document whose denormalized current pointer does
// not match its highest-numbered version.
type PointerDrift struct {
	DocumentID  string `json:"documentId"`
	HeadVersion int    `json:"headVersion"`
	CurrentURL  string `json:"currentUrl"`
	HeadURL     string `json:"headUrl"`
}

// AuditCurrentPointers recomputes every document's current pointer from its
// version history and returns the documents that drifted. The pointer is
// only ever written in the same transaction as a version insert, so a
// non-empty result means a bug or manual data surgery.
func AuditCurrentPointers(db *gorm.DB) ([]PointerDrift, error) {
	var docs []models.Document
	if err := db.Find(&docs).Error; err != nil {
		return nil, err
	}

	var drifted []PointerDrift
	for _, doc := range docs {
		var head models.DocumentVersion
		err := db.Where("document_id = ?", doc.ID).
			Order("version_number DESC").
			First(&head).Error
		if err != nil {
			return nil, err
		}
		if head.URL != doc.CurrentURL || head.FileType != doc.CurrentFileType || head.FileSize != doc.CurrentFileSize {
			drifted = append(drifted, PointerDrift{
				DocumentID:  doc.ID,
				HeadVersion: head.VersionNumber,
				CurrentURL:  doc.CurrentURL,
				HeadURL:     head.URL,
			})
		}
	}
	return drifted, nil
}

// loadVersionTarget fetches the document and applies the version-mutation
// rule: original uploader only, with a live grant.
func loadVersionTarget(db *gorm.DB, p authz.Principal, docID string) (*models.Document, error) {
	var doc models.Document
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("Folder").
		Preload("Folder.Category").
		Where("id = ?", docID).
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
	return &doc, nil
}

// insertNextVersion assigns the next contiguous version number and inserts
// the row, updating the document's current pointer in the same transaction.
// A concurrent append that takes the same number trips the unique index;
// the insert is retried with a fresh number.
func insertNextVersion(db *gorm.DB, docID string, version *models.DocumentVersion, defaultChangeLog bool) error {
	var lastErr error
	for attempt := 0; attempt < versionInsertRetries; attempt++ {
		lastErr = db.Transaction(func(tx *gorm.DB) error {
			var doc models.Document
			if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", docID).
				First(&doc).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return types.NotFound("Document not found")
				}
				return err
			}

			var maxVersion int
			row := tx.Model(&models.DocumentVersion{}).
				Where("document_id = ?", docID).
				Select("COALESCE(MAX(version_number), 0)").
				Row()
			if err := row.Scan(&maxVersion); err != nil {
				return err
			}

			version.ID = ""
			version.DocumentID = docID
			version.VersionNumber = maxVersion + 1
			if defaultChangeLog {
				version.ChangeLog = fmt.Sprintf("Version %d", version.VersionNumber)
			}
			if err := tx.Create(version).Error; err != nil {
				return err
			}

			return tx.Model(&doc).Updates(map[string]interface{}{
				"current_url":       version.URL,
				"current_file_type": version.FileType,
				"current_file_size": version.FileSize,
			}).Error
		})
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, gorm.ErrDuplicatedKey) {
			return lastErr
		}
	}
	return lastErr
}
