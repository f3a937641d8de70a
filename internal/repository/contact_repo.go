package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/undergroundpost/touchbase/internal/domain"
	"gorm.io/gorm"
)

// ContactFilter holds the optional filters for listing contacts.
// Zero-valued fields are skipped when composing the query.
type ContactFilter struct {
	Search  string // substring match on name, company, or email
	Company string // substring match on company
	Source  string // exact match
	Tag     string // membership by tag name
	Limit   int
	Offset  int
}

// ContactRepository handles contact data operations.
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new ContactRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ContactRepository: repository instance bound to db.
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a new contact record.
func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// GetByID retrieves a contact by its ID, or (nil, nil) when no row
// exists.
func (r *ContactRepository) GetByID(ctx context.Context, id int) (*domain.Contact, error) {
	var contact domain.Contact
	if err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

// List retrieves contacts matching the filter, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - filter: optional filters; zero values are ignored.
// Returns:
//   - []domain.Contact: matching contacts ordered by created_at descending.
//   - error: non-nil if the query fails.
func (r *ContactRepository) List(ctx context.Context, filter ContactFilter) ([]domain.Contact, error) {
	query := r.db.WithContext(ctx).Model(&domain.Contact{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(company) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if filter.Company != "" {
		query = query.Where("LOWER(company) LIKE ?", "%"+strings.ToLower(filter.Company)+"%")
	}

	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}

	if filter.Tag != "" {
		query = query.Where(
			"id IN (SELECT ct.contact_id FROM contact_tags ct JOIN tags t ON ct.tag_id = t.id WHERE t.name = ?)",
			filter.Tag,
		)
	}

	query = query.Order("created_at DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var contacts []domain.Contact
	if err := query.Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// Update applies a partial update; nil fields keep their stored value.
// Returns (nil, nil) when the contact does not exist.
func (r *ContactRepository) Update(ctx context.Context, id int, update *domain.ContactUpdate) (*domain.Contact, error) {
	contact, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, nil
	}

	values := map[string]interface{}{}
	if update.Name != nil {
		values["name"] = *update.Name
	}
	if update.Company != nil {
		values["company"] = *update.Company
	}
	if update.Email != nil {
		values["email"] = *update.Email
	}
	if update.Phone != nil {
		values["phone"] = *update.Phone
	}
	if update.LinkedIn != nil {
		values["linkedin"] = *update.LinkedIn
	}
	if update.Website != nil {
		values["website"] = *update.Website
	}
	if update.Position != nil {
		values["position"] = *update.Position
	}
	if update.LastContactDate != nil {
		values["last_contact_date"] = *update.LastContactDate
	}
	if update.NextContactDate != nil {
		values["next_contact_date"] = *update.NextContactDate
	}
	if update.ContactFrequency != nil {
		values["contact_frequency"] = *update.ContactFrequency
	}
	if update.Notes != nil {
		values["notes"] = *update.Notes
	}
	if update.CustomFields != nil {
		values["custom_fields"] = update.CustomFields
	}
	if update.Source != nil {
		values["source"] = *update.Source
	}

	if len(values) > 0 {
		if err := r.db.WithContext(ctx).Model(contact).Updates(values).Error; err != nil {
			return nil, err
		}
	}

	return r.GetByID(ctx, id)
}

// Save persists all fields of an existing contact record.
func (r *ContactRepository) Save(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

// Delete removes a contact along with its tag links and communications.
// Returns false when the contact did not exist.
func (r *ContactRepository) Delete(ctx context.Context, id int) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contact_id = ?", id).Delete(&domain.ContactTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contact_id = ?", id).Delete(&domain.Communication{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contact_id = ?", id).Delete(&domain.Activity{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Contact{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// ExistsByCompany reports whether any contact has the given company
// name, case-insensitively.
func (r *ContactRepository) ExistsByCompany(ctx context.Context, company string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Contact{}).
		Where("LOWER(company) = LOWER(?)", company).
		Count(&count).Error
	return count > 0, err
}

// ExistsByName reports whether any contact has the given name,
// case-insensitively.
func (r *ContactRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Contact{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error
	return count > 0, err
}

// ListWithEmbeddings returns all contacts that carry an embedding.
func (r *ContactRepository) ListWithEmbeddings(ctx context.Context) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Where("embedding IS NOT NULL AND embedding != ''").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}
