package services_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/docvault/docvault/internal/authz"
	"github.com/docvault/docvault/internal/models"
	"github.com/docvault/docvault/internal/services"
	"github.com/docvault/docvault/internal/storage"
)

const testMaxUpload = 10 * 1024 * 1024

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Administrator{},
		&models.Member{},
		&models.Category{},
		&models.AccessGrant{},
		&models.Folder{},
		&models.Document{},
		&models.DocumentVersion{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createAdmin(t *testing.T, db *gorm.DB, email string) (models.Administrator, authz.Principal) {
	t.Helper()

	admin := models.Administrator{Name: "Admin", Email: email, PasswordHash: "x"}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("Failed to create admin: %v", err)
	}
	return admin, authz.Principal{ID: admin.ID, Role: models.RoleAdmin}
}

func createMember(t *testing.T, db *gorm.DB, email string) (models.Member, authz.Principal) {
	t.Helper()

	member := models.Member{Name: "Member", Email: email, PasswordHash: "x"}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("Failed to create member: %v", err)
	}
	return member, authz.Principal{ID: member.ID, Role: models.RoleMember}
}

func createCategory(t *testing.T, db *gorm.DB, adminID, name string) models.Category {
	t.Helper()

	category := models.Category{Name: name, CreatedByID: adminID}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	return category
}

func createGrant(t *testing.T, db *gorm.DB, categoryID, memberID string, level models.AccessLevel) models.AccessGrant {
	t.Helper()

	grant := models.AccessGrant{CategoryID: categoryID, MemberID: memberID, Level: level}
	if err := db.Create(&grant).Error; err != nil {
		t.Fatalf("Failed to create grant: %v", err)
	}
	return grant
}

func createFolder(t *testing.T, db *gorm.DB, categoryID string, owner models.OwnerRef, name string) models.Folder {
	t.Helper()

	folder := models.Folder{Name: name, CategoryID: categoryID, Owner: owner}
	if err := db.Create(&folder).Error; err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	return folder
}

// pdfUpload builds a small valid upload payload for document tests.
func pdfUpload(content string) (services.Upload, io.Reader) {
	data := []byte(content)
	up := services.Upload{
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(data)),
	}
	return up, bytes.NewReader(data)
}

// createDocument uploads a document through the service with an in-memory
// blob store.
func createDocument(t *testing.T, db *gorm.DB, store storage.BlobStore, p authz.Principal, folderID, title string) *models.Document {
	t.Helper()

	up, payload := pdfUpload("payload for " + title)
	doc, err := services.CreateDocument(context.Background(), db, store, p, services.DocumentInput{
		Title:    title,
		FolderID: folderID,
	}, up, payload, testMaxUpload)
	if err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}
	return doc
}
