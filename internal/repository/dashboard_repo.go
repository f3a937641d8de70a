package repository

import (
	"context"
	"time"

	"github.com/undergroundpost/touchbase/internal/domain"
	"gorm.io/gorm"
)

// SourceCount is one row of the dashboard's top-sources breakdown.
type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// FrequencyBucket is one row of the contact-frequency histogram.
type FrequencyBucket struct {
	Frequency int   `json:"frequency"`
	Count     int64 `json:"count"`
}

// DashboardStats aggregates the numbers the dashboard endpoint serves.
type DashboardStats struct {
	TotalContacts        int64             `json:"total_contacts"`
	ContactsThisMonth    int64             `json:"contacts_this_month"`
	OverdueFollowUps     int64             `json:"overdue_follow_ups"`
	UpcomingFollowUps    int64             `json:"upcoming_follow_ups"`
	WeeklyCommunications int64             `json:"weekly_communications"`
	LeadCount            int64             `json:"lead_count"`
	RecentActivities     []domain.Activity `json:"recent_activities"`
	TopSources           []SourceCount     `json:"top_sources"`
	FrequencyHistogram   []FrequencyBucket `json:"frequency_histogram"`
}

// DashboardRepository computes dashboard aggregates.
type DashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Stats runs the dashboard aggregate queries against a single reference
// time.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - now: reference time; today, this-month and week windows derive from it.
// Returns:
//   - *DashboardStats: the aggregated counts and breakdowns.
//   - error: non-nil if any query fails.
func (r *DashboardRepository) Stats(ctx context.Context, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}
	db := r.db.WithContext(ctx)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)
	weekAhead := today.AddDate(0, 0, 7)

	if err := db.Model(&domain.Contact{}).Count(&stats.TotalContacts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Contact{}).
		Where("created_at >= ?", monthStart).
		Count(&stats.ContactsThisMonth).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Contact{}).
		Where("next_contact_date IS NOT NULL AND next_contact_date < ?", today).
		Count(&stats.OverdueFollowUps).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Contact{}).
		Where("next_contact_date IS NOT NULL AND next_contact_date >= ? AND next_contact_date < ?", today, weekAhead).
		Count(&stats.UpcomingFollowUps).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Communication{}).
		Where("date >= ?", weekAgo).
		Count(&stats.WeeklyCommunications).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Contact{}).
		Where("source IN ?", []string{"apollo", "leadgen"}).
		Count(&stats.LeadCount).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&domain.Activity{}).
		Order("created_at DESC").
		Limit(10).
		Find(&stats.RecentActivities).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&domain.Contact{}).
		Select("source, COUNT(*) AS count").
		Where("source <> ''").
		Group("source").
		Order("count DESC").
		Limit(5).
		Scan(&stats.TopSources).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&domain.Contact{}).
		Select("contact_frequency AS frequency, COUNT(*) AS count").
		Group("contact_frequency").
		Order("frequency").
		Scan(&stats.FrequencyHistogram).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
