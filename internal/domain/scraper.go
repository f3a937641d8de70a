package domain

import "time"

// ScrapedCustomer is an existing-customer name collected by the scraper.
// The set doubles as the lead-generation blacklist.
type ScrapedCustomer struct {
	ID              int       `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"type:text;not null;index" json:"name"`
	Source          string    `gorm:"type:text;not null" json:"source"`
	ScrapedAt       time.Time `json:"scraped_at"`
	ScrapeSessionID string    `gorm:"type:text" json:"scrape_session_id,omitempty"`
}

// TableName returns the database table name for ScrapedCustomer.
func (ScrapedCustomer) TableName() string {
	return "scraped_customers"
}

// ScraperConfig holds settings for the customer scraper. The scraper run
// itself is out of scope; only configuration and the collected names are
// served.
type ScraperConfig struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	LoginURL     string    `gorm:"type:text;not null" json:"login_url"`
	CustomersURL string    `gorm:"type:text" json:"customers_url,omitempty"`
	Username     string    `gorm:"type:text;not null" json:"username"`
	Password     string    `gorm:"type:text;not null" json:"password,omitempty"`
	Headless     bool      `gorm:"default:true" json:"headless"`
	Timeout      int       `gorm:"default:30" json:"timeout"`
	MaxCustomers *int      `json:"max_customers,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for ScraperConfig.
func (ScraperConfig) TableName() string {
	return "scraper_config"
}

// ScraperConfigUpdate carries a partial scraper configuration update.
type ScraperConfigUpdate struct {
	LoginURL     *string `json:"login_url"`
	CustomersURL *string `json:"customers_url"`
	Username     *string `json:"username"`
	Password     *string `json:"password"`
	Headless     *bool   `json:"headless"`
	Timeout      *int    `json:"timeout"`
	MaxCustomers *int    `json:"max_customers"`
}
