package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/storyforge/storyboardbackend/models"
)

// ContextRepository handles the per-video creative-direction notes
type ContextRepository struct {
	DB *gorm.DB
}

// NewContextRepository creates a new instance of ContextRepository
func NewContextRepository(db *gorm.DB) *ContextRepository {
	return &ContextRepository{DB: db}
}

// GetByVideoID retrieves the context of a video
func (r *ContextRepository) GetByVideoID(videoID uint) (*models.Context, error) {
	var ctx models.Context
	err := r.DB.Where("video_id = ?", videoID).First(&ctx).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get context for video %d: %w", videoID, err)
	}
	return &ctx, nil
}

// GetByID retrieves a context by its own ID
func (r *ContextRepository) GetByID(id uint) (*models.Context, error) {
	var ctx models.Context
	err := r.DB.First(&ctx, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get context by ID %d: %w", id, err)
	}
	return &ctx, nil
}

// UpdateNotes replaces the free-text notes of a context
func (r *ContextRepository) UpdateNotes(contextID uint, notes string) error {
	now := time.Now().Unix()
	result := r.DB.Model(&models.Context{}).Where("id = ?", contextID).Updates(map[string]interface{}{
		"notes":      notes,
		"updated_at": now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update notes for context %d: %w", contextID, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.DB.Model(&models.Context{}).Where("id = ?", contextID).Count(&count)
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}
