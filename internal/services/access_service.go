package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/docvault/docvault/internal/authz"
	"github.com/docvault/docvault/internal/models"
	"github.com/docvault/docvault/internal/types"
)

// GrantInput is the payload for granting or upgrading category access.
type GrantInput struct {
	CategoryID string             `json:"categoryId"`
	MemberID   string             `json:"userId"`
	Level      models.AccessLevel `json:"accessType"`
}

// RevokeInput is the payload for revoking category access.
type RevokeInput struct {
	CategoryID string `json:"categoryId"`
	MemberID   string `json:"userId"`
}

// GrantAccess grants a member access to a category, or changes the level of
// an existing grant. One row per (category, member) pair; granting twice
// updates in place.
func GrantAccess(db *gorm.DB, p authz.Principal, in GrantInput) (*models.AccessGrant, error) {
	if authz.CanManageCategories(p) != authz.Permitted {
		return nil, types.Forbidden("Access denied. System Admin only.")
	}
	if !in.Level.Valid() {
		return nil, types.Validation("accessType must be full or read_only")
	}

	var category models.Category
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", in.CategoryID).
		First(&category).Error
	if err == gorm.ErrRecordNotFound {
		return nil, types.NotFound("Category not found")
	}
	if err != nil {
		return nil, err
	}

	var member models.Member
	err = db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", in.MemberID).
		First(&member).Error
	if err == gorm.ErrRecordNotFound {
		return nil, types.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	var grant models.AccessGrant
	err = db.Transaction(func(tx *gorm.DB) error {
		// Atomic upsert on the (category, member) unique index so two
		// concurrent grants collapse to the last writer's level instead of
		// racing a read-then-create.
		insert := models.AccessGrant{
			CategoryID: in.CategoryID,
			MemberID:   in.MemberID,
			Level:      in.Level,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category_id"}, {Name: "member_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"level": in.Level}),
		}).Create(&insert).Error
		if err != nil {
			return err
		}

		// Re-read so the caller sees the surviving row, not the discarded
		// insert candidate.
		existing, err := memberGrant(tx, in.CategoryID, in.MemberID)
		if err != nil {
			return err
		}
		if existing == nil {
			return gorm.ErrRecordNotFound
		}
		grant = *existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	grant.Category = &category
	grant.Member = &member
	return &grant, nil
}

// RevokeAccess removes a member's grant on a category. The row is deleted,
// not tombstoned; revoking an absent grant is a not-found.
func RevokeAccess(db *gorm.DB, p authz.Principal, in RevokeInput) error {
	if authz.CanManageCategories(p) != authz.Permitted {
		return types.Forbidden("Access denied. System Admin only.")
	}

	grant, err := memberGrant(db, in.CategoryID, in.MemberID)
	if err != nil {
		return err
	}
	if grant == nil {
		return types.NotFound("Access control not found")
	}
	return db.Delete(grant).Error
}

// ListMemberGrants returns all grants held by one member, with the granted
// categories attached.
func ListMemberGrants(db *gorm.DB, p authz.Principal, memberID string) ([]models.AccessGrant, error) {
	if authz.CanManageCategories(p) != authz.Permitted {
		return nil, types.Forbidden("Access denied. System Admin only.")
	}

	var grants []models.AccessGrant
	err := db.Preload("Category").
		Where("member_id = ?", memberID).
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

// ListCategoryGrants returns all grants on one category, with the member
// identities attached.
func ListCategoryGrants(db *gorm.DB, p authz.Principal, categoryID string) ([]models.AccessGrant, error) {
	if authz.CanManageCategories(p) != authz.Permitted {
		return nil, types.Forbidden("Access denied. System Admin only.")
	}

	var grants []models.AccessGrant
	err := db.Preload("Member").
		Where("category_id = ?", categoryID).
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}
