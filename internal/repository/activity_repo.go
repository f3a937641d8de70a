package repository

import (
	"context"

	"github.com/undergroundpost/touchbase/internal/domain"
	"gorm.io/gorm"
)

// ActivityRepository handles activity timeline operations.
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends an activity record.
func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// List retrieves the newest activities up to limit (default 50).
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - contactID: restrict to one contact when non-nil.
//   - limit: maximum rows; values <= 0 fall back to 50.
// Returns:
//   - []domain.Activity: activities ordered by created_at descending.
//   - error: non-nil if the query fails.
func (r *ActivityRepository) List(ctx context.Context, contactID *int, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Model(&domain.Activity{}).
		Order("created_at DESC").
		Limit(limit)
	if contactID != nil {
		query = query.Where("contact_id = ?", *contactID)
	}

	var activities []domain.Activity
	if err := query.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}
