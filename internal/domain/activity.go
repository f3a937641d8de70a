package domain

import "time"

// Activity types recorded by the system. A row with a nil ContactID is
// a system-level audit entry (lead generation runs, AI searches).
const (
	ActivityContactCreated       = "contact_created"
	ActivityContactUpdated       = "contact_updated"
	ActivityCommunication        = "communication"
	ActivityCommunicationUpdated = "communication_updated"
	ActivityCommunicationDeleted = "communication_deleted"
	ActivityTagAdded             = "tag_added"
	ActivityTagRemoved           = "tag_removed"
	ActivityLeadGeneration       = "lead_generation"
	ActivityAISearch             = "ai_search"
)

// Activity represents a timeline event, optionally tied to a contact.
type Activity struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	ContactID   *int      `gorm:"index" json:"contact_id"`
	Type        string    `gorm:"type:text;not null" json:"type"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Metadata    JSONMap   `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName returns the database table name for Activity.
func (Activity) TableName() string {
	return "activities"
}
