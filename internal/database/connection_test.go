package database_test

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/docvault/docvault/internal/config"
	"github.com/docvault/docvault/internal/database"
	"github.com/docvault/docvault/internal/models"
)

// TestConnectTranslatesConstraintErrors opens a connection through Connect
// and checks that a unique-index violation comes back as
// gorm.ErrDuplicatedKey rather than a raw driver error. The version-append
// retry and the duplicate-email conflict mapping match on the typed error,
// so an untranslated connection would turn both into opaque failures.
func TestConnectTranslatesConstraintErrors(t *testing.T) {
	cfg := &config.Config{
		DBType:            "sqlite",
		DBDatabase:        ":memory:",
		DBConnectionLimit: 1,
	}

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	doc := models.Document{
		Title:           "Report",
		FolderID:        "folder-1",
		CurrentURL:      "memory://report/1",
		CurrentFileType: "application/pdf",
		CurrentFileSize: 1,
	}
	if err := db.Create(&doc).Error; err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	first := models.DocumentVersion{
		DocumentID:    doc.ID,
		VersionNumber: 1,
		URL:           "memory://report/1",
		FileType:      "application/pdf",
		FileSize:      1,
	}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("Failed to create version 1: %v", err)
	}

	duplicate := models.DocumentVersion{
		DocumentID:    doc.ID,
		VersionNumber: 1,
		URL:           "memory://report/1-dup",
		FileType:      "application/pdf",
		FileSize:      1,
	}
	err = db.Create(&duplicate).Error
	if err == nil {
		t.Fatal("Expected the duplicate version number to be rejected")
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("Expected gorm.ErrDuplicatedKey, got %v", err)
	}
}
