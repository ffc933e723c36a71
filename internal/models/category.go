package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessLevel is the access granted to a member for a category.
type AccessLevel string

const (
	AccessFull     AccessLevel = "full"
	AccessReadOnly AccessLevel = "read_only"
)

// Valid reports whether the level is one of the two defined values.
func (l AccessLevel) Valid() bool {
	return l == AccessFull || l == AccessReadOnly
}

// Category is the top of the content tree. Mutation rights belong to
// administrators; member read-visibility is governed by AccessGrant rows.
type Category struct {
	ID          string `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"size:1024" json:"description"`
	CreatedByID string `gorm:"type:char(36);not null" json:"createdById"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	CreatedBy *Administrator `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	Folders   []Folder       `gorm:"foreignKey:CategoryID" json:"folders,omitempty"`
	Grants    []AccessGrant  `gorm:"foreignKey:CategoryID" json:"grants,omitempty"`
}

// AccessGrant is the authorization ground truth: one row per
// (category, member) pair. The unique index makes concurrent grants
// collapse to the last writer instead of duplicating rows.
type AccessGrant struct {
	ID         string      `gorm:"type:char(36);primaryKey" json:"id"`
	CategoryID string      `gorm:"type:char(36);not null;index:idx_category_member,unique" json:"categoryId"`
	MemberID   string      `gorm:"type:char(36);not null;index:idx_category_member,unique" json:"memberId"`
	Level      AccessLevel `gorm:"size:32;not null" json:"level"`
	GrantedAt  time.Time   `json:"grantedAt"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Member   *Member   `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"member,omitempty"`
}

// BeforeCreate assigns a UUID primary key and stamps the grant time.
func (g *AccessGrant) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.GrantedAt.IsZero() {
		g.GrantedAt = time.Now().UTC()
	}
	return nil
}

// BeforeCreate assigns a UUID primary key.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Category
func (Category) TableName() string {
	return "categories"
}

// TableName overrides the table name for AccessGrant
func (AccessGrant) TableName() string {
	return "access_grants"
}
