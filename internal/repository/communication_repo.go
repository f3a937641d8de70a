package repository

import (
	"context"
	"errors"

	"github.com/undergroundpost/touchbase/internal/domain"
	"gorm.io/gorm"
)

// CommunicationRepository handles communication log operations.
type CommunicationRepository struct {
	db *gorm.DB
}

// NewCommunicationRepository creates a new CommunicationRepository.
func NewCommunicationRepository(db *gorm.DB) *CommunicationRepository {
	return &CommunicationRepository{db: db}
}

// Create records a communication for a contact.
func (r *CommunicationRepository) Create(ctx context.Context, comm *domain.Communication) error {
	return r.db.WithContext(ctx).Create(comm).Error
}

// GetByID retrieves a communication by its ID.
// Returns (nil, nil) when no row exists.
func (r *CommunicationRepository) GetByID(ctx context.Context, id int) (*domain.Communication, error) {
	var comm domain.Communication
	err := r.db.WithContext(ctx).First(&comm, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comm, nil
}

// ListForContact retrieves a contact's communications, newest first.
func (r *CommunicationRepository) ListForContact(ctx context.Context, contactID int) ([]domain.Communication, error) {
	var comms []domain.Communication
	err := r.db.WithContext(ctx).
		Where("contact_id = ?", contactID).
		Order("date DESC").
		Find(&comms).Error
	if err != nil {
		return nil, err
	}
	return comms, nil
}

// Update rewrites a communication's date, method and notes.
func (r *CommunicationRepository) Update(ctx context.Context, comm *domain.Communication) error {
	return r.db.WithContext(ctx).Model(comm).Updates(map[string]any{
		"date":   comm.Date,
		"method": comm.Method,
		"notes":  comm.Notes,
	}).Error
}

// Delete removes a communication.
// Returns:
//   - bool: true if a row was deleted.
//   - error: non-nil if the delete fails.
func (r *CommunicationRepository) Delete(ctx context.Context, id int) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Communication{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// LatestForContact returns the most recent communication date for a contact,
// or (nil, nil) when the contact has none.
func (r *CommunicationRepository) LatestForContact(ctx context.Context, contactID int) (*domain.Communication, error) {
	var comm domain.Communication
	err := r.db.WithContext(ctx).
		Where("contact_id = ?", contactID).
		Order("date DESC").
		First(&comm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comm, nil
}
