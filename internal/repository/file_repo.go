package repository

import (
	"context"
	"errors"

	"github.com/undergroundpost/touchbase/internal/domain"
	"gorm.io/gorm"
)

// FileRepository handles uploaded-file metadata.
type FileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new FileRepository.
func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create records metadata for an uploaded file.
func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

// Delete removes a file's metadata row.
// Returns:
//   - bool: true if a row was deleted.
//   - error: non-nil if the delete fails.
func (r *FileRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.File{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetByID retrieves file metadata, or (nil, nil) when no row exists.
func (r *FileRepository) GetByID(ctx context.Context, id string) (*domain.File, error) {
	var file domain.File
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}
