// Package fileshare is the file-blob collaborator: an opaque store of
// uploaded files grouped under short share codes, with a bounded
// lifetime and a periodic expiry sweep.
package fileshare

import "time"

// StoredFile is one uploaded file's metadata row. The blob itself
// lives on disk under the file's id.
type StoredFile struct {
	ID          string    `gorm:"primarykey;size:36" json:"id"`
	Filename    string    `gorm:"size:255;not null" json:"filename"`
	ContentType string    `gorm:"size:128" json:"contentType"`
	Size        int64     `json:"size"`
	ShareCode   string    `gorm:"size:16;index;not null" json:"shareCode"`
	UploadedAt  time.Time `json:"uploadedAt"`
	ExpiresAt   time.Time `gorm:"index" json:"expiresAt"`
}

// TableName returns the table name for StoredFile model.
func (StoredFile) TableName() string {
	return "files"
}

// FileInfo is the listing view returned for a share code.
type FileInfo struct {
	Filename    string `json:"filename"`
	DownloadURL string `json:"downloadUrl"`
}
