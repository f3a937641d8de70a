package domain

import "time"

// Communication records one touch with a contact (call, email, meeting).
type Communication struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	ContactID int       `gorm:"not null;index" json:"contact_id"`
	Date      time.Time `gorm:"type:date;not null" json:"date"`
	Method    string    `gorm:"type:text;not null" json:"method"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Communication.
func (Communication) TableName() string {
	return "communications"
}
