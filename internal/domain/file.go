package domain

import "time"

// File records metadata for an uploaded object. The bytes live in
// object storage under StorageKey.
type File struct {
	ID           string    `gorm:"type:text;primaryKey" json:"id"`
	OriginalName string    `gorm:"type:text;not null" json:"original_name"`
	StorageKey   string    `gorm:"type:text;not null" json:"storage_key"`
	ContentType  string    `gorm:"type:text;not null" json:"content_type"`
	Size         int64     `gorm:"not null" json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for File.
func (File) TableName() string {
	return "files"
}
