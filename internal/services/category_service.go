package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/docvault/docvault/internal/authz"
	"github.com/docvault/docvault/internal/models"
	"github.com/docvault/docvault/internal/types"
)

// CategoryInput is the payload for category create and update.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCategory creates a category owned by the calling administrator.
func CreateCategory(db *gorm.DB, p authz.Principal, in CategoryInput) (*models.Category, error) {
	if authz.CanManageCategories(p) != authz.Permitted {
		return nil, types.Forbidden("Access denied. System Admin only.")
	}
	if in.Name == "" {
		return nil, types.Validation("name is required")
	}

	category := models.Category{
		Name:        in.Name,
		Description: in.Description,
		CreatedByID: p.ID,
	}
	if err := db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns every category for administrators, and only the
// granted categories for members. A member's result carries just their own
// grant rows; an administrator's carries all grants with member identities.
func ListCategories(db *gorm.DB, p authz.Principal) ([]models.Category, error) {
	var categories []models.Category

	if p.IsAdmin() {
		err := db.Preload("CreatedBy").
			Preload("Folders").
			Preload("Grants").
			Preload("Grants.Member").
			Find(&categories).Error
		if err != nil {
			return nil, err
		}
		return categories, nil
	}

	err := db.Preload("CreatedBy").
		Preload("Folders").
		Preload("Grants", "member_id = ?", p.ID).
		Joins("JOIN access_grants ON access_grants.category_id = categories.id AND access_grants.member_id = ?", p.ID).
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategory returns one category. For members an absent grant and an
// absent category produce the same not-found result, and only the member's
// own grant row is attached, never other members' grants.
func GetCategory(db *gorm.DB, p authz.Principal, id string) (*models.Category, error) {
	query := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("CreatedBy").
		Preload("Folders").
		Preload("Folders.Documents")
	if p.IsAdmin() {
		query = query.Preload("Grants").Preload("Grants.Member")
	} else {
		query = query.Preload("Grants", "member_id = ?", p.ID)
	}

	var category models.Category
	err := query.Where("id = ?", id).First(&category).Error
	if err == gorm.ErrRecordNotFound {
		return nil, types.NotFound("Category not found or access denied")
	}
	if err != nil {
		return nil, err
	}

	grant, err := grantFor(db, p, category.ID)
	if err != nil {
		return nil, err
	}
	if authz.CanReadCategory(p, grant) != authz.Permitted {
		return nil, types.NotFound("Category not found or access denied")
	}
	return &category, nil
}

// UpdateCategory updates a category's name and description.
func UpdateCategory(db *gorm.DB, p authz.Principal, id string, in CategoryInput) (*models.Category, error) {
	if authz.CanManageCategories(p) != authz.Permitted {
		return nil, types.Forbidden("Access denied. System Admin only.")
	}

	var category models.Category
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", id).
		First(&category).Error
	if err == gorm.ErrRecordNotFound {
		return nil, types.NotFound("Category not found")
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != "" {
		updates["name"] = in.Name
	}
	updates["description"] = in.Description
	if err := db.Model(&category).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes an empty category. A category that still holds
// folders is refused; the folders must go first.
func DeleteCategory(db *gorm.DB, p authz.Principal, id string) error {
	if authz.CanManageCategories(p) != authz.Permitted {
		return types.Forbidden("Access denied. System Admin only.")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("id = ?", id).
			First(&category).Error
		if err == gorm.ErrRecordNotFound {
			return types.NotFound("Category not found")
		}
		if err != nil {
			return err
		}

		// Recheck emptiness inside the transaction so a folder created
		// between lookup and delete still blocks the removal.
		var folderCount int64
		if err := tx.Model(&models.Folder{}).Where("category_id = ?", id).Count(&folderCount).Error; err != nil {
			return err
		}
		if folderCount > 0 {
			return types.Invariant("Cannot delete category that contains folders")
		}

		if err := tx.Where("category_id = ?", id).Delete(&models.AccessGrant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
}
