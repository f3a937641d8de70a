package domain

import "time"

// SessionStatus represents the lifecycle state of a lead-generation run.
// Values include SessionStatusRunning, SessionStatusCompleted,
// SessionStatusFailed, and SessionStatusCancelled.
type SessionStatus string

const (
	SessionStatusRunning   SessionStatus = "running"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
	SessionStatusCancelled SessionStatus = "cancelled"

	// SessionStatusIdle is a synthetic status reported when no session
	// has ever run. It is never stored.
	SessionStatusIdle SessionStatus = "idle"
)

// Default values applied when the leadgen configuration row is lazily
// created on first read.
const (
	DefaultLeadgenModel        = "gpt-4"
	DefaultMaxCompanies        = 50
	DefaultMaxEmployees        = 25
	DefaultRequestDelaySeconds = 1.2
)

// LeadgenConfig is the singleton configuration for the lead-generation
// pipeline. The latest row by id wins.
type LeadgenConfig struct {
	ID                     int       `gorm:"primaryKey" json:"id"`
	OpenAIAPIKey           string    `gorm:"column:openai_api_key;type:text" json:"openai_api_key,omitempty"`
	OpenAIModel            string    `gorm:"column:openai_model;type:text;not null" json:"openai_model"`
	OpenAIPrompt           string    `gorm:"column:openai_prompt;type:text" json:"openai_prompt,omitempty"`
	ApolloAPIKey           string    `gorm:"column:apollo_api_key;type:text" json:"apollo_api_key,omitempty"`
	MaxCompanies           int       `gorm:"not null" json:"max_companies"`
	MaxEmployeesPerCompany int       `gorm:"not null" json:"max_employees_per_company"`
	RequestDelay           float64   `gorm:"not null" json:"request_delay"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// TableName returns the database table name for LeadgenConfig.
func (LeadgenConfig) TableName() string {
	return "leadgen_config"
}

// LeadgenConfigUpdate carries a partial configuration update. Nil fields
// retain the stored value.
type LeadgenConfigUpdate struct {
	OpenAIAPIKey           *string  `json:"openai_api_key"`
	OpenAIModel            *string  `json:"openai_model"`
	OpenAIPrompt           *string  `json:"openai_prompt"`
	ApolloAPIKey           *string  `json:"apollo_api_key"`
	MaxCompanies           *int     `json:"max_companies"`
	MaxEmployeesPerCompany *int     `json:"max_employees_per_company"`
	RequestDelay           *float64 `json:"request_delay"`
}

// LeadgenSession tracks one pipeline invocation. The record is durable;
// a process restart loses only the in-flight goroutine, never the row.
type LeadgenSession struct {
	ID                 int           `gorm:"primaryKey" json:"id"`
	Status             SessionStatus `gorm:"type:text;not null;index" json:"status"`
	Progress           int           `gorm:"not null" json:"progress"`
	Message            string        `gorm:"type:text" json:"message,omitempty"`
	CompaniesGenerated int           `gorm:"not null;default:0" json:"companies_generated"`
	ContactsGenerated  int           `gorm:"not null;default:0" json:"contacts_generated"`
	Error              string        `gorm:"type:text" json:"error,omitempty"`
	CreatedAt          time.Time     `gorm:"index" json:"created_at"`
	CompletedAt        *time.Time    `json:"completed_at,omitempty"`
}

// TableName returns the database table name for LeadgenSession.
func (LeadgenSession) TableName() string {
	return "leadgen_sessions"
}
