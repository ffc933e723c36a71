package services

import (
	"path/filepath"
	"strings"

	"github.com/docvault/docvault/internal/types"
)

// allowedMimes lists the accepted payload MIME types: PDF, Word, Excel.
var allowedMimes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
}

// allowedExtensions lists the accepted file extensions, lowercased.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
}

// Upload is a validated inbound payload descriptor. Both the MIME type and
// the extension must pass; either alone is too easy to spoof.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
}

// ValidateUpload rejects oversized or mistyped payloads before any byte
// reaches the blob store.
func ValidateUpload(u Upload, maxBytes int64) error {
	if u.Size <= 0 {
		return types.Validation("No file uploaded")
	}
	if u.Size > maxBytes {
		return types.Validation("File too large. Maximum size is %d bytes", maxBytes)
	}
	ext := strings.ToLower(filepath.Ext(u.Filename))
	if !allowedMimes[u.ContentType] || !allowedExtensions[ext] {
		return types.Validation("Invalid file type. Only Word (.doc, .docx), PDF, and Excel (.xls, .xlsx) files are allowed.")
	}
	return nil
}
