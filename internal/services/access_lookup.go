package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/docvault/docvault/internal/authz"
	"github.com/docvault/docvault/internal/models"
)

// memberGrant fetches the grant row for (category, member), or nil when no
// grant exists. Absence is an expected outcome, not an error, so the lookup
// runs with a silent session.
func memberGrant(db *gorm.DB, categoryID, memberID string) (*models.AccessGrant, error) {
	var grant models.AccessGrant
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("category_id = ? AND member_id = ?", categoryID, memberID).
		First(&grant).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// grantFor resolves the grant input for the authorization engine: nil for
// administrators (their decisions never consult the grant table) and the
// member's grant row otherwise.
func grantFor(db *gorm.DB, p authz.Principal, categoryID string) (*models.AccessGrant, error) {
	if p.IsAdmin() {
		return nil, nil
	}
	return memberGrant(db, categoryID, p.ID)
}
