package repository

import (
	"github.com/storyforge/storyboardbackend/media"
	"github.com/storyforge/storyboardbackend/models"
)

// ProjectRepositoryInterface defines the methods for project data operations
type ProjectRepositoryInterface interface {
	Create(project *models.Project) error
	ListAll() ([]models.Project, error)
	GetByID(id uint) (*models.Project, error)
	Update(projectID uint, name string, description *string) error
	RequestZip(projectID uint) error
	MarkZipProcessing(projectID uint) error
	SetZipResult(projectID uint, zipPath *string, zipSize *int64, taskErr error) error
	Delete(id uint) error
}

// VideoRepositoryInterface defines the methods for video data operations
type VideoRepositoryInterface interface {
	Create(video *models.Video) error
	ListByProject(projectID uint) ([]models.Video, error)
	GetByID(id uint) (*models.Video, error)
	Update(videoID uint, title string, description *string) error
	Delete(id uint) error
}

// ContextRepositoryInterface defines the methods for context data operations
type ContextRepositoryInterface interface {
	GetByVideoID(videoID uint) (*models.Context, error)
	GetByID(id uint) (*models.Context, error)
	UpdateNotes(contextID uint, notes string) error
}

// FrameRepositoryInterface defines the methods for frame data operations
type FrameRepositoryInterface interface {
	Create(frame *models.Frame) error
	ListByVideo(videoID uint) ([]models.Frame, error)
	GetByID(id uint) (*models.Frame, error)
	Update(frameID uint, title *string, prompt *string) error
	Reorder(frameID uint, newPosition int) error
	Delete(id uint) error
	SelectImage(frameID uint, imageID *uint) error
}

// ChatRepositoryInterface defines the methods for chat/message data operations
type ChatRepositoryInterface interface {
	Create(chat *models.Chat) error
	ListByVideo(videoID uint) ([]models.Chat, error)
	GetByID(id uint) (*models.Chat, error)
	GetDefaultByVideo(videoID uint) (*models.Chat, error)
	Delete(id uint) error
	CreateMessage(message *models.Message) error
	ListMessages(chatID uint) ([]models.Message, error)
	GetMessage(messageID uint) (*models.Message, error)
	DeleteMessage(messageID uint) error
}

// ImageRepositoryInterface defines the methods for image data operations,
// including the relation-set bookkeeping and asset task status updates
type ImageRepositoryInterface interface {
	Create(image *models.Image) error
	GetByID(id uint) (*models.Image, error)
	GetByIDs(ids []uint) ([]models.Image, error)
	ListByMessage(messageID uint) ([]models.Image, error)
	Delete(id uint) error

	MarkTaskProcessing(imageID uint, taskStatusColumn string) error
	UpdateDownloadResult(imageID uint, storagePath *string, localURL string, taskErr error) error
	UpdateThumbnailResult(imageID uint, thumbPath *string, taskErr error) error
	UpdateMetadataResult(imageID uint, meta *media.Metadata, taskErr error) error
	GetImagesRequiringProcessing() ([]models.Image, error)

	AddToSet(kind RelationKind, ownerID, imageID uint, source *string) error
	RemoveFromSet(kind RelationKind, ownerID, imageID uint) error
	MoveBetweenSets(srcKind RelationKind, srcID uint, dstKind RelationKind, dstID, imageID uint, source *string) error
	InSet(kind RelationKind, ownerID, imageID uint) (bool, error)
	ListSetImages(kind RelationKind, ownerID uint) ([]models.Image, error)
}

// CharacterRepositoryInterface defines the methods for character data operations
type CharacterRepositoryInterface interface {
	Create(character *models.Character) error
	ListByProject(projectID uint) ([]models.Character, error)
	GetByID(id uint) (*models.Character, error)
	Update(characterID uint, name string, notes *string) error
	Delete(id uint) error
}
