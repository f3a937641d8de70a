package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JSONMap is a custom type for storing arbitrary JSON objects in the database.
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the map.
//   - error: non-nil if marshaling fails.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan JSONMap")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, m)
}

// FloatArray stores a float vector as JSON text. Used for contact
// embeddings so the semantic search can score them without a separate
// vector store.
type FloatArray []float32

// Value implements the driver.Valuer interface.
func (a FloatArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface.
func (a *FloatArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan FloatArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// Contact represents a person tracked by the CRM.
// Fields include identity, reachability details, follow-up cadence, and
// free-form metadata. The embedding field backs semantic search and is
// omitted from API responses when unset.
type Contact struct {
	ID               int        `gorm:"primaryKey" json:"id"`
	Name             string     `gorm:"type:text;not null;index" json:"name"`
	Company          string     `gorm:"type:text;index" json:"company,omitempty"`
	Email            string     `gorm:"type:text" json:"email,omitempty"`
	Phone            string     `gorm:"type:text" json:"phone,omitempty"`
	LinkedIn         string     `gorm:"column:linkedin;type:text" json:"linkedin,omitempty"`
	Website          string     `gorm:"type:text" json:"website,omitempty"`
	Position         string     `gorm:"type:text" json:"position,omitempty"`
	LastContactDate  *time.Time `gorm:"type:date" json:"last_contact_date,omitempty"`
	NextContactDate  *time.Time `gorm:"type:date;index" json:"next_contact_date,omitempty"`
	ContactFrequency int        `gorm:"default:0" json:"contact_frequency,omitempty"`
	Notes            string     `gorm:"type:text" json:"notes,omitempty"`
	CustomFields     JSONMap    `gorm:"type:text" json:"custom_fields,omitempty"`
	Source           string     `gorm:"type:text;index" json:"source,omitempty"`
	Embedding        FloatArray `gorm:"type:text" json:"embedding,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Contact.
func (Contact) TableName() string {
	return "contacts"
}

// ContactUpdate carries a partial contact update. Nil fields retain the
// stored value.
type ContactUpdate struct {
	Name             *string    `json:"name"`
	Company          *string    `json:"company"`
	Email            *string    `json:"email"`
	Phone            *string    `json:"phone"`
	LinkedIn         *string    `json:"linkedin"`
	Website          *string    `json:"website"`
	Position         *string    `json:"position"`
	LastContactDate  *time.Time `json:"last_contact_date"`
	NextContactDate  *time.Time `json:"next_contact_date"`
	ContactFrequency *int       `json:"contact_frequency"`
	Notes            *string    `json:"notes"`
	CustomFields     JSONMap    `json:"custom_fields"`
	Source           *string    `json:"source"`
}
