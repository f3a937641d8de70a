package domain

import "time"

// DefaultTagColor is applied when a tag is created without a color.
const DefaultTagColor = "#3b82f6"

// Tag represents a label that can be attached to contacts.
type Tag struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Color     string    `gorm:"type:text;not null" json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Tag.
func (Tag) TableName() string {
	return "tags"
}

// ContactTag links a contact to a tag. The pair is unique.
type ContactTag struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	ContactID int       `gorm:"not null;uniqueIndex:idx_contact_tags_pair" json:"contact_id"`
	TagID     int       `gorm:"not null;uniqueIndex:idx_contact_tags_pair" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for ContactTag.
func (ContactTag) TableName() string {
	return "contact_tags"
}
