package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/storyforge/storyboardbackend/models"
)

// Cascade helpers shared by the project and video repositories. Deletes are
// performed as sequential writes with existence checks only; the schema
// carries no referential-integrity enforcement of its own.

// purgeVideo removes a video and all dependent rows: frames and their
// image attachments, the context and its attachments, and every chat
// thread with its messages and message-owned images.
func purgeVideo(db *gorm.DB, videoID uint) error {
	var frameIDs []uint
	if err := db.Model(&models.Frame{}).Where("video_id = ?", videoID).Pluck("id", &frameIDs).Error; err != nil {
		return fmt.Errorf("failed to list frames for video %d: %w", videoID, err)
	}
	if len(frameIDs) > 0 {
		if err := db.Where("frame_id IN ?", frameIDs).Delete(&models.FrameImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete frame images for video %d: %w", videoID, err)
		}
		if err := db.Where("video_id = ?", videoID).Delete(&models.Frame{}).Error; err != nil {
			return fmt.Errorf("failed to delete frames for video %d: %w", videoID, err)
		}
	}

	var contextIDs []uint
	if err := db.Model(&models.Context{}).Where("video_id = ?", videoID).Pluck("id", &contextIDs).Error; err != nil {
		return fmt.Errorf("failed to list contexts for video %d: %w", videoID, err)
	}
	if len(contextIDs) > 0 {
		if err := db.Where("context_id IN ?", contextIDs).Delete(&models.ContextImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete context images for video %d: %w", videoID, err)
		}
		if err := db.Where("video_id = ?", videoID).Delete(&models.Context{}).Error; err != nil {
			return fmt.Errorf("failed to delete context for video %d: %w", videoID, err)
		}
	}

	var chatIDs []uint
	if err := db.Model(&models.Chat{}).Where("video_id = ?", videoID).Pluck("id", &chatIDs).Error; err != nil {
		return fmt.Errorf("failed to list chats for video %d: %w", videoID, err)
	}
	for _, chatID := range chatIDs {
		if err := purgeChat(db, chatID); err != nil {
			return err
		}
	}

	result := db.Delete(&models.Video{}, videoID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete video %d: %w", videoID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// purgeChat removes a chat thread, its messages, and every image owned by
// those messages (including the images' memberships in other relation
// sets, so no dangling join rows are left behind).
func purgeChat(db *gorm.DB, chatID uint) error {
	var messageIDs []uint
	if err := db.Model(&models.Message{}).Where("chat_id = ?", chatID).Pluck("id", &messageIDs).Error; err != nil {
		return fmt.Errorf("failed to list messages for chat %d: %w", chatID, err)
	}

	if len(messageIDs) > 0 {
		var imageIDs []uint
		if err := db.Model(&models.Image{}).Where("message_id IN ?", messageIDs).Pluck("id", &imageIDs).Error; err != nil {
			return fmt.Errorf("failed to list images for chat %d: %w", chatID, err)
		}
		if err := purgeImages(db, imageIDs); err != nil {
			return fmt.Errorf("failed to delete images for chat %d: %w", chatID, err)
		}
		if err := db.Where("chat_id = ?", chatID).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages for chat %d: %w", chatID, err)
		}
	}

	if err := db.Where("chat_id = ?", chatID).Delete(&models.ChatImage{}).Error; err != nil {
		return fmt.Errorf("failed to delete chat image set for chat %d: %w", chatID, err)
	}

	result := db.Delete(&models.Chat{}, chatID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete chat %d: %w", chatID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// purgeImages deletes image rows, their join rows in every relation set,
// and clears any frame selection pointing at a deleted image.
func purgeImages(db *gorm.DB, imageIDs []uint) error {
	if len(imageIDs) == 0 {
		return nil
	}
	err := db.Model(&models.Frame{}).
		Where("selected_image_id IN ?", imageIDs).
		Update("selected_image_id", gorm.Expr("NULL")).Error
	if err != nil {
		return fmt.Errorf("failed to clear frame selections: %w", err)
	}
	joinModels := []interface{}{
		&models.FrameImage{},
		&models.ContextImage{},
		&models.ChatImage{},
		&models.GalleryImage{},
		&models.CharacterImage{},
	}
	for _, jm := range joinModels {
		if err := db.Where("image_id IN ?", imageIDs).Delete(jm).Error; err != nil {
			return fmt.Errorf("failed to delete image relations: %w", err)
		}
	}
	if err := db.Where("id IN ?", imageIDs).Delete(&models.Image{}).Error; err != nil {
		return fmt.Errorf("failed to delete image rows: %w", err)
	}
	return nil
}
