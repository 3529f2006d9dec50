package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/storyforge/storyboardbackend/models"
)

// VideoRepository handles database operations for Video entities and the
// rows every video owns from birth (its context and default chat).
type VideoRepository struct {
	DB *gorm.DB
}

// NewVideoRepository creates a new instance of VideoRepository
func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{DB: db}
}

// Create creates a video along with its context and default chat thread
func (r *VideoRepository) Create(video *models.Video) error {
	now := time.Now().Unix()
	if video.CreatedAt == 0 {
		video.CreatedAt = now
	}
	if video.UpdatedAt == 0 {
		video.UpdatedAt = now
	}

	if err := r.DB.Create(video).Error; err != nil {
		return fmt.Errorf("failed to create video %s: %w", video.Title, err)
	}

	ctx := models.Context{VideoID: video.ID, CreatedAt: now, UpdatedAt: now}
	if err := r.DB.Create(&ctx).Error; err != nil {
		return fmt.Errorf("failed to create context for video %d: %w", video.ID, err)
	}

	chat := models.Chat{VideoID: video.ID, Name: "main", IsDefault: true, CreatedAt: now, UpdatedAt: now}
	if err := r.DB.Create(&chat).Error; err != nil {
		return fmt.Errorf("failed to create default chat for video %d: %w", video.ID, err)
	}

	return nil
}

// ListByProject retrieves all videos for a project, oldest first
func (r *VideoRepository) ListByProject(projectID uint) ([]models.Video, error) {
	var videos []models.Video
	err := r.DB.Where("project_id = ?", projectID).Order("created_at ASC").Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list videos for project %d: %w", projectID, err)
	}
	return videos, nil
}

// GetByID retrieves a video by its ID
func (r *VideoRepository) GetByID(id uint) (*models.Video, error) {
	var video models.Video
	err := r.DB.First(&video, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get video by ID %d: %w", id, err)
	}
	return &video, nil
}

// Update updates an existing video's title and description
func (r *VideoRepository) Update(videoID uint, title string, description *string) error {
	now := time.Now().Unix()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	if title != "" {
		updates["title"] = title
	}
	if description != nil {
		updates["description"] = *description
	}

	// updated_at alone still runs so a missing video is reported
	result := r.DB.Model(&models.Video{}).Where("id = ?", videoID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update video ID %d: %w", videoID, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.DB.Model(&models.Video{}).Where("id = ?", videoID).Count(&count)
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// Delete removes a video and synchronously cascades to its frames,
// context, chats, messages, and message-owned images.
func (r *VideoRepository) Delete(id uint) error {
	return purgeVideo(r.DB, id)
}
