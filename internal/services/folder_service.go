package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/docvault/docvault/internal/authz"
	"github.com/docvault/docvault/internal/models"
	"github.com/docvault/docvault/internal/types"
)

// FolderInput is the payload for folder creation.
type FolderInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  string `json:"categoryId"`
}

// FolderUpdateInput is the payload for folder rename.
type FolderUpdateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateFolder creates a folder inside a category the caller can see. The
// folder is stamped with the caller as owner.
func CreateFolder(db *gorm.DB, p authz.Principal, in FolderInput) (*models.Folder, error) {
	if in.Name == "" || in.CategoryID == "" {
		return nil, types.Validation("name and categoryId are required")
	}

	var category models.Category
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", in.CategoryID).
		First(&category).Error
	if err == gorm.ErrRecordNotFound {
		return nil, types.NotFound("Category not found or access denied")
	}
	if err != nil {
		return nil, err
	}

	grant, err := grantFor(db, p, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if authz.CanCreateContent(p, grant) != authz.Permitted {
		return nil, types.NotFound("Category not found or access denied")
	}

	folder := models.Folder{
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Owner:       p.Owner(),
	}
	if err := db.Create(&folder).Error; err != nil {
		return nil, err
	}
	folder.Category = &category
	return &folder, nil
}

// ListFoldersByCategory returns a category's folders. For members an absent
// grant and an absent category are indistinguishable.
func ListFoldersByCategory(db *gorm.DB, p authz.Principal, categoryID string) ([]models.Folder, error) {
	var category models.Category
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", categoryID).
		First(&category).Error
	if err == gorm.ErrRecordNotFound {
		return nil, types.NotFound("Category not found or access denied")
	}
	if err != nil {
		return nil, err
	}

	grant, err := grantFor(db, p, categoryID)
	if err != nil {
		return nil, err
	}
	if authz.CanReadCategory(p, grant) != authz.Permitted {
		return nil, types.NotFound("Category not found or access denied")
	}

	var folders []models.Folder
	err = db.Preload("Category").
		Preload("Documents").
		Where("category_id = ?", categoryID).
		Find(&folders).Error
	if err != nil {
		return nil, err
	}
	return folders, nil
}

// GetFolder returns one folder with its documents.
func GetFolder(db *gorm.DB, p authz.Principal, id string) (*models.Folder, error) {
	var folder models.Folder
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("Category").
		Preload("Documents").
		Where("id = ?", id).
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
	return &folder, nil
}

// UpdateFolder renames a folder. Members may only touch folders they own,
// and only while they still hold a grant on the category.
func UpdateFolder(db *gorm.DB, p authz.Principal, id string, in FolderUpdateInput) (*models.Folder, error) {
	var folder models.Folder
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", id).
		First(&folder).Error
	if err == gorm.ErrRecordNotFound {
		return nil, types.NotFound("Folder not found")
	}
	if err != nil {
		return nil, err
	}

	if err := checkContentMutation(db, p, folder.Owner, folder.CategoryID, "Access denied to this category"); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"description": in.Description}
	if in.Name != "" {
		updates["name"] = in.Name
	}
	if err := db.Model(&folder).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

// DeleteFolder removes an empty folder. The emptiness check runs inside the
// delete transaction so a concurrent upload cannot orphan a document.
func DeleteFolder(db *gorm.DB, p authz.Principal, id string) error {
	var folder models.Folder
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", id).
		First(&folder).Error
	if err == gorm.ErrRecordNotFound {
		return types.NotFound("Folder not found")
	}
	if err != nil {
		return err
	}

	if err := checkContentMutation(db, p, folder.Owner, folder.CategoryID, "Access denied to this category"); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var docCount int64
		if err := tx.Model(&models.Document{}).Where("folder_id = ?", id).Count(&docCount).Error; err != nil {
			return err
		}
		if docCount > 0 {
			return types.Invariant("Cannot delete folder that contains documents")
		}
		return tx.Delete(&folder).Error
	})
}

// checkContentMutation applies the mutation rule for folders and documents:
// ownership first, then a live grant. deniedMsg names the resource kind in
// the grant-failure message.
func checkContentMutation(db *gorm.DB, p authz.Principal, owner models.OwnerRef, categoryID, deniedMsg string) error {
	grant, err := grantFor(db, p, categoryID)
	if err != nil {
		return err
	}
	if authz.CanMutateContent(p, owner, grant) == authz.Permitted {
		return nil
	}
	if !models.SameOwner(owner, p.Owner()) {
		return types.Forbidden("Permission denied")
	}
	return types.Forbidden("%s", deniedMsg)
}
