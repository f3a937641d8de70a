package repository

import (
	"context"
	"errors"

	"github.com/undergroundpost/touchbase/internal/domain"
	"gorm.io/gorm"
)

// ScraperRepository handles scraper configuration and the scraped-customer
// blacklist.
type ScraperRepository struct {
	db *gorm.DB
}

// NewScraperRepository creates a new ScraperRepository.
func NewScraperRepository(db *gorm.DB) *ScraperRepository {
	return &ScraperRepository{db: db}
}

// GetConfig retrieves the scraper configuration, or (nil, nil) when none
// has been saved yet.
func (r *ScraperRepository) GetConfig(ctx context.Context) (*domain.ScraperConfig, error) {
	var cfg domain.ScraperConfig
	err := r.db.WithContext(ctx).Order("id DESC").First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig applies a partial update, creating the row on first write.
func (r *ScraperRepository) SaveConfig(ctx context.Context, update *domain.ScraperConfigUpdate) (*domain.ScraperConfig, error) {
	cfg, err := r.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &domain.ScraperConfig{Headless: true, Timeout: 30}
		if update.LoginURL != nil {
			cfg.LoginURL = *update.LoginURL
		}
		if update.CustomersURL != nil {
			cfg.CustomersURL = *update.CustomersURL
		}
		if update.Username != nil {
			cfg.Username = *update.Username
		}
		if update.Password != nil {
			cfg.Password = *update.Password
		}
		if update.Headless != nil {
			cfg.Headless = *update.Headless
		}
		if update.Timeout != nil {
			cfg.Timeout = *update.Timeout
		}
		if update.MaxCustomers != nil {
			cfg.MaxCustomers = update.MaxCustomers
		}
		if err := r.db.WithContext(ctx).Create(cfg).Error; err != nil {
			return nil, err
		}
		return cfg, nil
	}

	updates := map[string]any{}
	if update.LoginURL != nil {
		updates["login_url"] = *update.LoginURL
	}
	if update.CustomersURL != nil {
		updates["customers_url"] = *update.CustomersURL
	}
	if update.Username != nil {
		updates["username"] = *update.Username
	}
	if update.Password != nil {
		updates["password"] = *update.Password
	}
	if update.Headless != nil {
		updates["headless"] = *update.Headless
	}
	if update.Timeout != nil {
		updates["timeout"] = *update.Timeout
	}
	if update.MaxCustomers != nil {
		updates["max_customers"] = *update.MaxCustomers
	}
	if len(updates) == 0 {
		return cfg, nil
	}
	if err := r.db.WithContext(ctx).Model(cfg).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetConfig(ctx)
}

// CountCustomers returns the number of scraped customers on record.
func (r *ScraperRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ScrapedCustomer{}).Count(&count).Error
	return count, err
}

// CustomerExists reports whether a company name appears in the scraped
// customer list. Matching is case-insensitive.
func (r *ScraperRepository) CustomerExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ScrapedCustomer{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddCustomers inserts scraped customer rows.
func (r *ScraperRepository) AddCustomers(ctx context.Context, customers []domain.ScrapedCustomer) error {
	if len(customers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&customers).Error
}
