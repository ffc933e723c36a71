package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Folder groups documents within a category. The owner is the creating
// principal, tagged by kind; a folder may only be deleted while it holds
// zero documents.
type Folder struct {
	ID          string   `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string   `gorm:"size:255;not null" json:"name"`
	Description string   `gorm:"size:1024" json:"description"`
	CategoryID  string   `gorm:"type:char(36);not null;index" json:"categoryId"`
	Owner       OwnerRef `gorm:"embedded;embeddedPrefix:owner_" json:"owner"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category  *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Documents []Document `gorm:"foreignKey:FolderID" json:"documents,omitempty"`
}

// BeforeCreate assigns a UUID primary key.
func (f *Folder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Folder
func (Folder) TableName() string {
	return "folders"
}
