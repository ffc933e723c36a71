package services_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/docvault/docvault/internal/models"
	"github.com/docvault/docvault/internal/services"
	"github.com/docvault/docvault/internal/storage"
	"github.com/docvault/docvault/internal/types"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name string
		up   services.Upload
		want types.ErrorKind
		ok   bool
	}{
		{"valid pdf", services.Upload{Filename: "a.pdf", ContentType: "application/pdf", Size: 100}, 0, true},
		{"valid docx", services.Upload{Filename: "a.docx", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Size: 100}, 0, true},
		{"valid xls", services.Upload{Filename: "a.xls", ContentType: "application/vnd.ms-excel", Size: 100}, 0, true},
		{"uppercase extension", services.Upload{Filename: "A.PDF", ContentType: "application/pdf", Size: 100}, 0, true},
		{"empty file", services.Upload{Filename: "a.pdf", ContentType: "application/pdf", Size: 0}, types.KindValidation, false},
		{"too large", services.Upload{Filename: "a.pdf", ContentType: "application/pdf", Size: testMaxUpload + 1}, types.KindValidation, false},
		{"bad extension", services.Upload{Filename: "a.exe", ContentType: "application/pdf", Size: 100}, types.KindValidation, false},
		{"bad mime", services.Upload{Filename: "a.pdf", ContentType: "text/html", Size: 100}, types.KindValidation, false},
		{"mime extension mismatch", services.Upload{Filename: "a.png", ContentType: "application/pdf", Size: 100}, types.KindValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := services.ValidateUpload(tt.up, testMaxUpload)
			if tt.ok && err != nil {
				t.Errorf("Expected valid, got %v", err)
			}
			if !tt.ok && !types.IsKind(err, tt.want) {
				t.Errorf("Expected kind %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateDocumentRecordsInitialVersion(t *testing.T) {
	db := setupTestDB(t)
	store := storage.NewMemoryStore()
	admin, adminP := createAdmin(t, db, "admin@test.local")
	category := createCategory(t, db, admin.ID, "Finance")
	folder := createFolder(t, db, category.ID, models.OwnerRef{Kind: models.RoleAdmin, ID: admin.ID}, "Reports")

	doc := createDocument(t, db, store, adminP, folder.ID, "Q1 Report")

	var versions []models.DocumentVersion
	if err := db.Where("document_id = ?", doc.ID).Find(&versions).Error; err != nil {
		t.Fatalf("Failed to load versions: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("Expected exactly 1 version, got %d", len(versions))
	}
	if versions[0].VersionNumber != 1 {
		t.Errorf("Expected version number 1, got %d", versions[0].VersionNumber)
	}
	if versions[0].ChangeLog != "Initial version" {
		t.Errorf("Expected changeLog 'Initial version', got %q", versions[0].ChangeLog)
	}
	if doc.CurrentURL != versions[0].URL {
		t.Errorf("Current pointer %q must match version 1 URL %q", doc.CurrentURL, versions[0].URL)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 stored blob, got %d", store.Len())
	}
}

func TestCreateDocumentRejectsInvalidPayload(t *testing.T) {
	db := setupTestDB(t)
	store := storage.NewMemoryStore()
	admin, adminP := createAdmin(t, db, "admin@test.local")
	category := createCategory(t, db, admin.ID, "Finance")
	folder := createFolder(t, db, category.ID, models.OwnerRef{Kind: models.RoleAdmin, ID: admin.ID}, "Reports")

	up := services.Upload{Filename: "malware.exe", ContentType: "application/octet-stream", Size: 10}
	_, err := services.CreateDocument(context.Background(), db, store, adminP, services.DocumentInput{
		Title: "Bad", FolderID: folder.ID,
	}, up, strings.NewReader("0123456789"), testMaxUpload)
	if !types.IsKind(err, types.KindValidation) {
		t.Fatalf("Expected Validation, got %v", err)
	}

	// Rejected before any byte reaches the store.
	if store.Len() != 0 {
		t.Errorf("Expected no stored blobs, got %d", store.Len())
	}
	var count int64
	db.Model(&models.Document{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no document rows, got %d", count)
	}
}

func TestCreateDocumentMemberNeedsGrant(t *testing.T) {
	db := setupTestDB(t)
	store := storage.NewMemoryStore()
	admin, _ := createAdmin(t, db, "admin@test.local")
	member, memberP := createMember(t, db, "m@test.local")
	category := createCategory(t, db, admin.ID, "Finance")
	folder := createFolder(t, db, category.ID, models.OwnerRef{Kind: models.RoleAdmin, ID: admin.ID}, "Reports")

	up, payload := pdfUpload("content")
	_, err := services.CreateDocument(context.Background(), db, store, memberP, services.DocumentInput{
		Title: "Mine", FolderID: folder.ID,
	}, up, payload, testMaxUpload)
	if !types.IsKind(err, types.KindNotFound) {
		t.Fatalf("Expected NotFound without grant, got %v", err)
	}

	createGrant(t, db, category.ID, member.ID, models.AccessReadOnly)
	up, payload = pdfUpload("content")
	doc, err := services.CreateDocument(context.Background(), db, store, memberP, services.DocumentInput{
		Title: "Mine", FolderID: folder.ID,
	}, up, payload, testMaxUpload)
	if err != nil {
		t.Fatalf("Create with grant failed: %v", err)
	}
	if doc.Owner.ID != member.ID || doc.Owner.Kind != models.RoleMember {
		t.Errorf("Expected document owned by the member, got %+v", doc.Owner)
	}
}

func TestGetDocumentConcealment(t *testing.T) {
	db := setupTestDB(t)
	store := storage.NewMemoryStore()
	admin, adminP := createAdmin(t, db, "admin@test.local")
	_, memberP := createMember(t, db, "m@test.local")
	category := createCategory(t, db, admin.ID, "Finance")
	folder := createFolder(t, db, category.ID, models.OwnerRef{Kind: models.RoleAdmin, ID: admin.ID}, "Reports")
	doc := createDocument(t, db, store, adminP, folder.ID, "Secret")

	_, errDenied := services.GetDocument(db, memberP, doc.ID)
	_, errMissing := services.GetDocument(db, memberP, "no-such-id")

	if !types.IsKind(errDenied, types.KindNotFound) || !types.IsKind(errMissing, types.KindNotFound) {
		t.Fatalf("Expected NotFound both ways, got %v / %v", errDenied, errMissing)
	}
	if errDenied.Error() != errMissing.Error() {
		t.Errorf("Denied and missing must read the same: %q vs %q", errDenied, errMissing)
	}
}

func TestUpdateDocumentMetadata(t *testing.T) {
	db := setupTestDB(t)
	store := storage.NewMemoryStore()
	admin, adminP := createAdmin(t, db, "admin@test.local")
	category := createCategory(t, db, admin.ID, "Finance")
	folder := createFolder(t, db, category.ID, models.OwnerRef{Kind: models.RoleAdmin, ID: admin.ID}, "Reports")
	doc := createDocument(t, db, store, adminP, folder.ID, "Before")

	updated, err := services.UpdateDocument(db, adminP, doc.ID, services.DocumentUpdateInput{
		Title: "After", Description: "updated",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "After" {
		t.Errorf("Expected After, got %s", updated.Title)
	}

	// Metadata update must not touch the version history.
	var count int64
	db.Model(&models.DocumentVersion{}).Where("document_id = ?", doc.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected history untouched, got %d versions", count)
	}
}

func TestDeleteDocumentRemovesHistory(t *testing.T) {
	db := setupTestDB(t)
	store := storage.NewMemoryStore()
	admin, adminP := createAdmin(t, db, "admin@test.local")
	category := createCategory(t, db, admin.ID, "Finance")
	folder := createFolder(t, db, category.ID, models.OwnerRef{Kind: models.RoleAdmin, ID: admin.ID}, "Reports")
	doc := createDocument(t, db, store, adminP, folder.ID, "Doomed")

	up, payload := pdfUpload("second revision")
	if _, err := services.AppendVersion(context.Background(), db, store, adminP, doc.ID, services.VersionInput{ChangeLog: "rev 2"}, up, payload, testMaxUpload); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if err := services.DeleteDocument(db, adminP, doc.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var docs, versions int64
	db.Model(&models.Document{}).Where("id = ?", doc.ID).Count(&docs)
	db.Model(&models.DocumentVersion{}).Where("document_id = ?", doc.ID).Count(&versions)
	if docs != 0 || versions != 0 {
		t.Errorf("Expected document and history gone, got %d docs, %d versions", docs, versions)
	}
}

func TestListDocumentsByFolder(t *testing.T) {
	db := setupTestDB(t)
	store := storage.NewMemoryStore()
	admin, adminP := createAdmin(t, db, "admin@test.local")
	category := createCategory(t, db, admin.ID, "Finance")
	folder := createFolder(t, db, category.ID, models.OwnerRef{Kind: models.RoleAdmin, ID: admin.ID}, "Reports")
	createDocument(t, db, store, adminP, folder.ID, "One")
	createDocument(t, db, store, adminP, folder.ID, "Two")

	docs, err := services.ListDocumentsByFolder(db, adminP, folder.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("Expected 2 documents, got %d", len(docs))
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	obj, err := store.Store(context.Background(), bytes.NewReader([]byte("hello")), 5, storage.PutMetadata{
		FolderPath:   "documents/Finance/Reports",
		FilenameHint: "report.pdf",
		ContentType:  "application/pdf",
	})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	rc, err := store.Fetch(context.Background(), obj.Key)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	defer rc.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(rc); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if buf.String() != "hello" {
		t.Errorf("Expected payload round-trip, got %q", buf.String())
	}
}
