package repository

import (
	"context"
	"errors"
	"time"

	"github.com/undergroundpost/touchbase/internal/domain"
	"gorm.io/gorm"
)

// LeadgenRepository handles lead-generation configuration and session
// tracking. Sessions are durable progress records: every pipeline stage
// writes through here so an observer polling the API sees the same state
// the worker goroutine does.
type LeadgenRepository struct {
	db *gorm.DB
}

// NewLeadgenRepository creates a new LeadgenRepository.
func NewLeadgenRepository(db *gorm.DB) *LeadgenRepository {
	return &LeadgenRepository{db: db}
}

// GetConfig retrieves the lead-generation configuration, lazily creating
// a defaults row on first read.
func (r *LeadgenRepository) GetConfig(ctx context.Context) (*domain.LeadgenConfig, error) {
	var cfg domain.LeadgenConfig
	err := r.db.WithContext(ctx).Order("id DESC").First(&cfg).Error
	if err == nil {
		return &cfg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cfg = domain.LeadgenConfig{
		OpenAIModel:            domain.DefaultLeadgenModel,
		MaxCompanies:           domain.DefaultMaxCompanies,
		MaxEmployeesPerCompany: domain.DefaultMaxEmployees,
		RequestDelay:           domain.DefaultRequestDelaySeconds,
	}
	if err := r.db.WithContext(ctx).Create(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateConfig applies a partial update to the configuration row. Nil
// fields keep their stored values.
func (r *LeadgenRepository) UpdateConfig(ctx context.Context, update *domain.LeadgenConfigUpdate) (*domain.LeadgenConfig, error) {
	cfg, err := r.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if update.OpenAIAPIKey != nil {
		updates["openai_api_key"] = *update.OpenAIAPIKey
	}
	if update.OpenAIModel != nil {
		updates["openai_model"] = *update.OpenAIModel
	}
	if update.OpenAIPrompt != nil {
		updates["openai_prompt"] = *update.OpenAIPrompt
	}
	if update.ApolloAPIKey != nil {
		updates["apollo_api_key"] = *update.ApolloAPIKey
	}
	if update.MaxCompanies != nil {
		updates["max_companies"] = *update.MaxCompanies
	}
	if update.MaxEmployeesPerCompany != nil {
		updates["max_employees_per_company"] = *update.MaxEmployeesPerCompany
	}
	if update.RequestDelay != nil {
		updates["request_delay"] = *update.RequestDelay
	}
	if len(updates) == 0 {
		return cfg, nil
	}

	if err := r.db.WithContext(ctx).Model(cfg).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetConfig(ctx)
}

// CreateSession opens a new running session at progress 0.
func (r *LeadgenRepository) CreateSession(ctx context.Context) (*domain.LeadgenSession, error) {
	session := &domain.LeadgenSession{
		Status:   domain.SessionStatusRunning,
		Progress: 0,
		Message:  "Initializing...",
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateProgress writes the session's progress percentage and message.
func (r *LeadgenRepository) UpdateProgress(ctx context.Context, sessionID, progress int, message string) error {
	return r.db.WithContext(ctx).
		Model(&domain.LeadgenSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"progress": progress,
			"message":  message,
		}).Error
}

// SetCounts records how many companies and contacts a session produced.
func (r *LeadgenRepository) SetCounts(ctx context.Context, sessionID, companies, contacts int) error {
	return r.db.WithContext(ctx).
		Model(&domain.LeadgenSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"companies_generated": companies,
			"contacts_generated":  contacts,
		}).Error
}

// MarkCompleted finalizes a session as successful.
func (r *LeadgenRepository) MarkCompleted(ctx context.Context, sessionID int) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.LeadgenSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"status":       domain.SessionStatusCompleted,
			"progress":     100,
			"message":      "Lead generation completed successfully",
			"completed_at": &now,
		}).Error
}

// MarkFailed finalizes a session as failed with an error message.
func (r *LeadgenRepository) MarkFailed(ctx context.Context, sessionID int, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.LeadgenSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"status":       domain.SessionStatusFailed,
			"error":        errMsg,
			"message":      "Lead generation failed",
			"completed_at": &now,
		}).Error
}

// CancelRunning flips every running session to cancelled in one update.
// Returns:
//   - bool: true if at least one session was cancelled.
//   - error: non-nil if the update fails.
func (r *LeadgenRepository) CancelRunning(ctx context.Context) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&domain.LeadgenSession{}).
		Where("status = ?", domain.SessionStatusRunning).
		Updates(map[string]any{
			"status":       domain.SessionStatusCancelled,
			"message":      "Lead generation cancelled by user",
			"completed_at": &now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetSession retrieves a session by ID, or (nil, nil) when no row exists.
func (r *LeadgenRepository) GetSession(ctx context.Context, id int) (*domain.LeadgenSession, error) {
	var session domain.LeadgenSession
	err := r.db.WithContext(ctx).First(&session, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// LatestSession retrieves the most recent session, or (nil, nil) when no
// session has ever run. Callers report a synthetic idle state in that case.
func (r *LeadgenRepository) LatestSession(ctx context.Context) (*domain.LeadgenSession, error) {
	var session domain.LeadgenSession
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// ListSessions retrieves the 20 most recent sessions, newest first.
func (r *LeadgenRepository) ListSessions(ctx context.Context) ([]domain.LeadgenSession, error) {
	var sessions []domain.LeadgenSession
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(20).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// ReconcileInterrupted marks sessions left running by a previous process
// as failed. Called once at startup; a running row with no live goroutine
// behind it would otherwise stay running forever.
func (r *LeadgenRepository) ReconcileInterrupted(ctx context.Context) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&domain.LeadgenSession{}).
		Where("status = ?", domain.SessionStatusRunning).
		Updates(map[string]any{
			"status":       domain.SessionStatusFailed,
			"error":        "interrupted by restart",
			"message":      "Lead generation interrupted by restart",
			"completed_at": &now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
