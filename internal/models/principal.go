package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies the two disjoint principal kinds.
type Role string

const (
	RoleAdmin  Role = "system_admin"
	RoleMember Role = "member"
)

// OwnerRef is the tagged owner of a folder or document: exactly one of the
// two principal kinds, identified by Kind. All ownership comparisons go
// through SameOwner to avoid kind-confusion bugs.
// Embedded with gorm embeddedPrefix "owner_" (or "uploader_"), yielding
// owner_kind/owner_id style columns.
type OwnerRef struct {
	Kind Role   `gorm:"size:32;not null" json:"kind"`
	ID   string `gorm:"type:char(36);not null" json:"id"`
}

// SameOwner reports whether two owner references name the same principal.
func SameOwner(a, b OwnerRef) bool {
	return a.Kind == b.Kind && a.ID == b.ID
}

// Administrator is a system administrator. Administrators create categories
// and manage access grants; they are never soft-deleted.
type Administrator struct {
	ID           string `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Email        string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Member is a regular user. Visibility into categories is governed entirely
// by the access_grants table.
type Member struct {
	ID           string `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name"`
	Email        string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Grants []AccessGrant `gorm:"foreignKey:MemberID" json:"grants,omitempty"`
}

// BeforeCreate assigns a UUID primary key (portable across all supported
// database drivers, unlike server-side uuid defaults).
func (a *Administrator) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID primary key.
func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Administrator
func (Administrator) TableName() string {
	return "administrators"
}

// TableName overrides the table name for Member
func (Member) TableName() string {
	return "members"
}
