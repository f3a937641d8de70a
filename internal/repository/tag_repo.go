package repository

import (
	"context"

	"github.com/undergroundpost/touchbase/internal/domain"
	"gorm.io/gorm"
)

// TagRepository handles tag data operations, including contact-tag links.
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// Create inserts a new tag. The unique index on name surfaces duplicate
// names as an error.
func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	if tag.Color == "" {
		tag.Color = domain.DefaultTagColor
	}
	return r.db.WithContext(ctx).Create(tag).Error
}

// GetByID retrieves a tag by its ID.
func (r *TagRepository) GetByID(ctx context.Context, id int) (*domain.Tag, error) {
	var tag domain.Tag
	if err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// List retrieves all tags ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Update overwrites name and color for an existing tag.
func (r *TagRepository) Update(ctx context.Context, id int, name, color string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Tag{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "color": color})
	return result.RowsAffected > 0, result.Error
}

// Delete removes a tag and all its contact links.
func (r *TagRepository) Delete(ctx context.Context, id int) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&domain.ContactTag{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Tag{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// ListForContact retrieves the tags attached to a contact, by name.
func (r *TagRepository) ListForContact(ctx context.Context, contactID int) ([]domain.Tag, error) {
	var tags []domain.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN contact_tags ct ON ct.tag_id = tags.id").
		Where("ct.contact_id = ?", contactID).
		Order("tags.name").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// Attach links a tag to a contact. Returns false when the link already
// existed.
func (r *TagRepository) Attach(ctx context.Context, contactID, tagID int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.ContactTag{}).
		Where("contact_id = ? AND tag_id = ?", contactID, tagID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	link := domain.ContactTag{ContactID: contactID, TagID: tagID}
	if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Detach removes a tag from a contact. Returns false when no link
// existed.
func (r *TagRepository) Detach(ctx context.Context, contactID, tagID int) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("contact_id = ? AND tag_id = ?", contactID, tagID).
		Delete(&domain.ContactTag{})
	return result.RowsAffected > 0, result.Error
}
