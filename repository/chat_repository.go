package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/storyforge/storyboardbackend/models"
)

// ChatRepository handles chat threads and their messages
type ChatRepository struct {
	DB *gorm.DB
}

// NewChatRepository creates a new instance of ChatRepository
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

// Create creates an additional (non-default) chat thread on a video
func (r *ChatRepository) Create(chat *models.Chat) error {
	now := time.Now().Unix()
	if chat.CreatedAt == 0 {
		chat.CreatedAt = now
	}
	if chat.UpdatedAt == 0 {
		chat.UpdatedAt = now
	}
	if chat.Name == "" {
		chat.Name = "untitled"
	}

	if err := r.DB.Create(chat).Error; err != nil {
		return fmt.Errorf("failed to create chat for video %d: %w", chat.VideoID, err)
	}
	return nil
}

// ListByVideo retrieves all chat threads of a video, default thread first
func (r *ChatRepository) ListByVideo(videoID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.DB.Where("video_id = ?", videoID).Order("is_default DESC, created_at ASC").Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chats for video %d: %w", videoID, err)
	}
	return chats, nil
}

// GetByID retrieves a chat by its ID
func (r *ChatRepository) GetByID(id uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.DB.First(&chat, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get chat by ID %d: %w", id, err)
	}
	return &chat, nil
}

// GetDefaultByVideo retrieves the default ("main") chat of a video
func (r *ChatRepository) GetDefaultByVideo(videoID uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.DB.Where("video_id = ? AND is_default = ?", videoID, true).First(&chat).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get default chat for video %d: %w", videoID, err)
	}
	return &chat, nil
}

// Delete removes a chat, its messages, and message-owned images. The
// default chat of a video cannot be deleted.
func (r *ChatRepository) Delete(id uint) error {
	chat, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if chat.IsDefault {
		return fmt.Errorf("chat %d of video %d: %w", id, chat.VideoID, ErrDefaultChat)
	}
	return purgeChat(r.DB, id)
}

// CreateMessage appends a message to a chat thread
func (r *ChatRepository) CreateMessage(message *models.Message) error {
	if message.CreatedAt == 0 {
		message.CreatedAt = time.Now().Unix()
	}
	if message.Role == "" {
		message.Role = "user"
	}

	if err := r.DB.Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message for chat %d: %w", message.ChatID, err)
	}
	return nil
}

// ListMessages retrieves a chat's messages in order, with owned images
func (r *ChatRepository) ListMessages(chatID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.DB.Where("chat_id = ?", chatID).Order("created_at ASC, id ASC").
		Preload("Images").Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for chat %d: %w", chatID, err)
	}
	return messages, nil
}

// GetMessage retrieves a single message with its owned images
func (r *ChatRepository) GetMessage(messageID uint) (*models.Message, error) {
	var message models.Message
	err := r.DB.Preload("Images").First(&message, messageID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get message %d: %w", messageID, err)
	}
	return &message, nil
}

// DeleteMessage removes a message and the images it owns
func (r *ChatRepository) DeleteMessage(messageID uint) error {
	if _, err := r.GetMessage(messageID); err != nil {
		return err
	}

	var imageIDs []uint
	if err := r.DB.Model(&models.Image{}).Where("message_id = ?", messageID).Pluck("id", &imageIDs).Error; err != nil {
		return fmt.Errorf("failed to list images for message %d: %w", messageID, err)
	}
	if err := purgeImages(r.DB, imageIDs); err != nil {
		return fmt.Errorf("failed to delete images for message %d: %w", messageID, err)
	}

	result := r.DB.Delete(&models.Message{}, messageID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete message %d: %w", messageID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
