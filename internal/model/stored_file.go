package model

import "time"

// AllowedFileTypes is the upload allow-list, keyed by lowercase extension.
var AllowedFileTypes = map[string]bool{
	"pdf":  true,
	"docx": true,
	"txt":  true,
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

type StoredFile struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	SessionID string    `gorm:"size:36;not null;index" json:"session_id"`
	Filename  string    `gorm:"size:256;not null" json:"filename"`
	// StoredName is the blob store key (<id>.<ext>); never exposed to clients.
	StoredName string    `gorm:"size:64;not null" json:"-"`
	FileType   string    `gorm:"size:8;not null" json:"file_type"`
	FileSize   int64     `gorm:"not null" json:"file_size"`
	CreatedAt  time.Time `json:"created_at"`
}
