package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/storyforge/storyboardbackend/models"
)

// FrameRepository handles database operations for Frame entities. Frame
// positions within a video are kept as a dense 0..N-1 sequence: appends go
// to the end, deletes and reorders renumber the survivors.
type FrameRepository struct {
	DB *gorm.DB
}

// NewFrameRepository creates a new instance of FrameRepository
func NewFrameRepository(db *gorm.DB) *FrameRepository {
	return &FrameRepository{DB: db}
}

// Create appends a frame at the end of its video's sequence
func (r *FrameRepository) Create(frame *models.Frame) error {
	now := time.Now().Unix()
	if frame.CreatedAt == 0 {
		frame.CreatedAt = now
	}
	if frame.UpdatedAt == 0 {
		frame.UpdatedAt = now
	}

	var count int64
	if err := r.DB.Model(&models.Frame{}).Where("video_id = ?", frame.VideoID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count frames for video %d: %w", frame.VideoID, err)
	}
	frame.Position = int(count)

	if err := r.DB.Create(frame).Error; err != nil {
		return fmt.Errorf("failed to create frame for video %d: %w", frame.VideoID, err)
	}
	return nil
}

// ListByVideo retrieves all frames of a video in position order
func (r *FrameRepository) ListByVideo(videoID uint) ([]models.Frame, error) {
	var frames []models.Frame
	err := r.DB.Where("video_id = ?", videoID).Order("position ASC").Find(&frames).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list frames for video %d: %w", videoID, err)
	}
	return frames, nil
}

// GetByID retrieves a frame by its ID
func (r *FrameRepository) GetByID(id uint) (*models.Frame, error) {
	var frame models.Frame
	err := r.DB.First(&frame, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get frame by ID %d: %w", id, err)
	}
	return &frame, nil
}

// Update updates a frame's title and prompt
func (r *FrameRepository) Update(frameID uint, title *string, prompt *string) error {
	now := time.Now().Unix()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	if title != nil {
		updates["title"] = *title
	}
	if prompt != nil {
		updates["prompt"] = *prompt
	}

	// updated_at alone still runs so a missing frame is reported
	result := r.DB.Model(&models.Frame{}).Where("id = ?", frameID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update frame ID %d: %w", frameID, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.DB.Model(&models.Frame{}).Where("id = ?", frameID).Count(&count)
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// Reorder moves a frame to newPosition within its video and renumbers the
// whole sequence so positions stay dense. newPosition is clamped to the
// valid range.
func (r *FrameRepository) Reorder(frameID uint, newPosition int) error {
	frame, err := r.GetByID(frameID)
	if err != nil {
		return err
	}

	frames, err := r.ListByVideo(frame.VideoID)
	if err != nil {
		return err
	}

	if newPosition < 0 {
		newPosition = 0
	}
	if newPosition > len(frames)-1 {
		newPosition = len(frames) - 1
	}

	// linear re-index: pull the frame out, reinsert at the target slot
	reordered := make([]models.Frame, 0, len(frames))
	for _, f := range frames {
		if f.ID != frameID {
			reordered = append(reordered, f)
		}
	}
	reordered = append(reordered[:newPosition], append([]models.Frame{*frame}, reordered[newPosition:]...)...)

	return r.renumber(frame.VideoID, reordered)
}

// Delete removes a frame and its image attachments, then renumbers the
// remaining frames of the video to a dense 0..N-1 sequence
func (r *FrameRepository) Delete(id uint) error {
	frame, err := r.GetByID(id)
	if err != nil {
		return err
	}

	if err := r.DB.Where("frame_id = ?", id).Delete(&models.FrameImage{}).Error; err != nil {
		return fmt.Errorf("failed to delete image attachments for frame %d: %w", id, err)
	}

	result := r.DB.Delete(&models.Frame{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete frame ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	remaining, err := r.ListByVideo(frame.VideoID)
	if err != nil {
		return err
	}
	return r.renumber(frame.VideoID, remaining)
}

// renumber writes dense positions 0..N-1 in slice order
func (r *FrameRepository) renumber(videoID uint, frames []models.Frame) error {
	now := time.Now().Unix()
	for i, f := range frames {
		if f.Position == i {
			continue
		}
		err := r.DB.Model(&models.Frame{}).Where("id = ?", f.ID).Updates(map[string]interface{}{
			"position":   i,
			"updated_at": now,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to renumber frame %d for video %d: %w", f.ID, videoID, err)
		}
	}
	return nil
}

// SelectImage sets (or, with nil, clears) the frame's selected image. The
// image must currently be attached to the frame.
func (r *FrameRepository) SelectImage(frameID uint, imageID *uint) error {
	if _, err := r.GetByID(frameID); err != nil {
		return err
	}

	if imageID != nil {
		var count int64
		err := r.DB.Model(&models.FrameImage{}).
			Where("frame_id = ? AND image_id = ?", frameID, *imageID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check image %d on frame %d: %w", *imageID, frameID, err)
		}
		if count == 0 {
			return fmt.Errorf("image %d on frame %d: %w", *imageID, frameID, ErrImageNotInSet)
		}
	}

	now := time.Now().Unix()
	result := r.DB.Model(&models.Frame{}).Where("id = ?", frameID).Updates(map[string]interface{}{
		"selected_image_id": imageID,
		"updated_at":        now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to select image for frame %d: %w", frameID, result.Error)
	}
	return nil
}
