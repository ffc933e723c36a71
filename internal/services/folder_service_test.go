package services_test

import (
	"testing"

	"github.com/docvault/docvault/internal/models"
	"github.com/docvault/docvault/internal/services"
	"github.com/docvault/docvault/internal/storage"
	"github.com/docvault/docvault/internal/types"
)

func TestCreateFolderRequiresGrant(t *testing.T) {
	db := setupTestDB(t)
	admin, _ := createAdmin(t, db, "admin@test.local")
	member, memberP := createMember(t, db, "member@test.local")
	category := createCategory(t, db, admin.ID, "Finance")

	// No grant: the category must read as absent.
	_, err := services.CreateFolder(db, memberP, services.FolderInput{
		Name: "Reports", CategoryID: category.ID,
	})
	if !types.IsKind(err, types.KindNotFound) {
		t.Fatalf("Expected NotFound without grant, got %v", err)
	}

	// A read_only grant is enough to create.
	createGrant(t, db, category.ID, member.ID, models.AccessReadOnly)
	folder, err := services.CreateFolder(db, memberP, services.FolderInput{
		Name: "Reports", CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("Create with grant failed: %v", err)
	}
	if folder.Owner.Kind != models.RoleMember || folder.Owner.ID != member.ID {
		t.Errorf("Expected folder owned by the member, got %+v", folder.Owner)
	}
}

func TestGetFolderConcealment(t *testing.T) {
	db := setupTestDB(t)
	admin, _ := createAdmin(t, db, "admin@test.local")
	_, memberP := createMember(t, db, "member@test.local")
	category := createCategory(t, db, admin.ID, "Finance")
	folder := createFolder(t, db, category.ID, models.OwnerRef{Kind: models.RoleAdmin, ID: admin.ID}, "Reports")

	_, errDenied := services.GetFolder(db, memberP, folder.ID)
	_, errMissing := services.GetFolder(db, memberP, "no-such-id")

	if !types.IsKind(errDenied, types.KindNotFound) || !types.IsKind(errMissing, types.KindNotFound) {
		t.Fatalf("Expected NotFound both ways, got %v / %v", errDenied, errMissing)
	}
	if errDenied.Error() != errMissing.Error() {
		t.Errorf("Denied and missing must read the same: %q vs %q", errDenied, errMissing)
	}
}

func TestUpdateFolderOwnership(t *testing.T) {
	db := setupTestDB(t)
	admin, adminP := createAdmin(t, db, "admin@test.local")
	memberA, memberAP := createMember(t, db, "a@test.local")
	memberB, memberBP := createMember(t, db, "b@test.local")
	category := createCategory(t, db, admin.ID, "Finance")
	createGrant(t, db, category.ID, memberA.ID, models.AccessFull)
	createGrant(t, db, category.ID, memberB.ID, models.AccessFull)

	folder := createFolder(t, db, category.ID, models.OwnerRef{Kind: models.RoleMember, ID: memberA.ID}, "Mine")

	// Owner with grant may update.
	updated, err := services.UpdateFolder(db, memberAP, folder.ID, services.FolderUpdateInput{Name: "Renamed"})
	if err != nil {
		t.Fatalf("Owner update failed: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("Expected Renamed, got %s", updated.Name)
	}

	// Another member is forbidden even with their own grant.
	_, err = services.UpdateFolder(db, memberBP, folder.ID, services.FolderUpdateInput{Name: "Stolen"})
	if !types.IsKind(err, types.KindForbidden) {
		t.Errorf("Expected Forbidden for non-owner, got %v", err)
	}

	// Admin bypasses ownership.
	if _, err := services.UpdateFolder(db, adminP, folder.ID, services.FolderUpdateInput{Name: "AdminRenamed"}); err != nil {
		t.Errorf("Admin update failed: %v", err)
	}
}

func TestUpdateFolderRevokedGrant(t *testing.T) {
	db := setupTestDB(t)
	admin, adminP := createAdmin(t, db, "admin@test.local")
	member, memberP := createMember(t, db, "m@test.local")
	category := createCategory(t, db, admin.ID, "Finance")
	createGrant(t, db, category.ID, member.ID, models.AccessFull)

	folder := createFolder(t, db, category.ID, models.OwnerRef{Kind: models.RoleMember, ID: member.ID}, "Mine")

	// Revoke: ownership alone no longer suffices.
	if err := services.RevokeAccess(db, adminP, services.RevokeInput{CategoryID: category.ID, MemberID: member.ID}); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	_, err := services.UpdateFolder(db, memberP, folder.ID, services.FolderUpdateInput{Name: "Orphaned"})
	if !types.IsKind(err, types.KindForbidden) {
		t.Errorf("Expected Forbidden after revoke, got %v", err)
	}
}

func TestDeleteFolderRefusesNonEmpty(t *testing.T) {
	db := setupTestDB(t)
	admin, adminP := createAdmin(t, db, "admin@test.local")
	category := createCategory(t, db, admin.ID, "Finance")
	owner := models.OwnerRef{Kind: models.RoleAdmin, ID: admin.ID}
	folder := createFolder(t, db, category.ID, owner, "Reports")

	store := storage.NewMemoryStore()
	createDocument(t, db, store, adminP, folder.ID, "Q1 Report")

	err := services.DeleteFolder(db, adminP, folder.ID)
	if !types.IsKind(err, types.KindInvariant) {
		t.Fatalf("Expected Invariant for non-empty folder, got %v", err)
	}

	var count int64
	db.Model(&models.Folder{}).Where("id = ?", folder.ID).Count(&count)
	if count != 1 {
		t.Error("Refused delete must not remove the folder")
	}
}

func TestDeleteEmptyFolder(t *testing.T) {
	db := setupTestDB(t)
	admin, adminP := createAdmin(t, db, "admin@test.local")
	category := createCategory(t, db, admin.ID, "Finance")
	folder := createFolder(t, db, category.ID, models.OwnerRef{Kind: models.RoleAdmin, ID: admin.ID}, "Empty")

	if err := services.DeleteFolder(db, adminP, folder.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var count int64
	db.Model(&models.Folder{}).Where("id = ?", folder.ID).Count(&count)
	if count != 0 {
		t.Error("Expected folder removed")
	}
}

func TestListFoldersByCategory(t *testing.T) {
	db := setupTestDB(t)
	admin, adminP := createAdmin(t, db, "admin@test.local")
	_, memberP := createMember(t, db, "m@test.local")
	category := createCategory(t, db, admin.ID, "Finance")
	owner := models.OwnerRef{Kind: models.RoleAdmin, ID: admin.ID}
	createFolder(t, db, category.ID, owner, "One")
	createFolder(t, db, category.ID, owner, "Two")

	folders, err := services.ListFoldersByCategory(db, adminP, category.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(folders) != 2 {
		t.Errorf("Expected 2 folders, got %d", len(folders))
	}

	_, err = services.ListFoldersByCategory(db, memberP, category.ID)
	if !types.IsKind(err, types.KindNotFound) {
		t.Errorf("Expected NotFound for ungranted member, got %v", err)
	}
}
