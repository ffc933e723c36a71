package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is a versioned file. The Current* fields are a denormalized
// cache of the highest-numbered version's payload and are only ever
// written in the same transaction as a version insert.
type Document struct {
	ID          string   `gorm:"type:char(36);primaryKey" json:"id"`
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"size:1024" json:"description"`
	FolderID    string   `gorm:"type:char(36);not null;index" json:"folderId"`
	Owner       OwnerRef `gorm:"embedded;embeddedPrefix:owner_" json:"owner"`

	CurrentURL      string `gorm:"size:2048;not null" json:"currentUrl"`
	CurrentFileType string `gorm:"size:255;not null" json:"currentFileType"`
	CurrentFileSize int64  `gorm:"not null" json:"currentFileSize"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Folder   *Folder           `gorm:"foreignKey:FolderID" json:"folder,omitempty"`
	Versions []DocumentVersion `gorm:"foreignKey:DocumentID" json:"versions,omitempty"`
}

// DocumentVersion is one immutable entry in a document's append-only
// history. Version numbers per document are contiguous starting at 1;
// the unique index is the race backstop for concurrent appends.
type DocumentVersion struct {
	ID            string `gorm:"type:char(36);primaryKey" json:"id"`
	DocumentID    string `gorm:"type:char(36);not null;index:idx_document_version,unique" json:"documentId"`
	VersionNumber int    `gorm:"not null;index:idx_document_version,unique" json:"versionNumber"`

	URL       string `gorm:"size:2048;not null" json:"url"`
	FileType  string `gorm:"size:255;not null" json:"fileType"`
	FileSize  int64  `gorm:"not null" json:"fileSize"`
	ChangeLog string `gorm:"size:1024" json:"changeLog"`

	Uploader    OwnerRef `gorm:"embedded;embeddedPrefix:uploader_" json:"uploader"`
	StorageMeta JSON     `json:"storageMeta,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate assigns a UUID primary key.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID primary key.
func (v *DocumentVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Document
func (Document) TableName() string {
	return "documents"
}

// TableName overrides the table name for DocumentVersion
func (DocumentVersion) TableName() string {
	return "document_versions"
}
