package models

// The five image relation sets. Each row is one membership of an image in
// an owning entity's set; the same image may appear in any number of sets
// at once. Copy adds a row to the target set, move removes the source row
// and then adds the target row as two separate writes.

// FrameImage attaches a candidate image to a frame.
type FrameImage struct {
	ID      uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	FrameID uint  `gorm:"not null;uniqueIndex:idx_frame_image" json:"frame_id"`
	ImageID uint  `gorm:"not null;uniqueIndex:idx_frame_image" json:"image_id"`
	AddedAt int64 `gorm:"not null" json:"added_at"` // Unix timestamp
}

func (FrameImage) TableName() string {
	return "frame_images"
}

// ContextImage attaches a reference image to a video's context.
type ContextImage struct {
	ID        uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	ContextID uint  `gorm:"not null;uniqueIndex:idx_context_image" json:"context_id"`
	ImageID   uint  `gorm:"not null;uniqueIndex:idx_context_image" json:"image_id"`
	AddedAt   int64 `gorm:"not null" json:"added_at"` // Unix timestamp
}

func (ContextImage) TableName() string {
	return "context_images"
}

// ChatImage attaches an image to a chat thread's working set, independent
// of the message that generated it.
type ChatImage struct {
	ID      uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID  uint  `gorm:"not null;uniqueIndex:idx_chat_image" json:"chat_id"`
	ImageID uint  `gorm:"not null;uniqueIndex:idx_chat_image" json:"image_id"`
	AddedAt int64 `gorm:"not null" json:"added_at"` // Unix timestamp
}

func (ChatImage) TableName() string {
	return "chat_images"
}

// GalleryImage saves an image into a project's gallery.
type GalleryImage struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID uint    `gorm:"not null;uniqueIndex:idx_gallery_image" json:"project_id"`
	ImageID   uint    `gorm:"not null;uniqueIndex:idx_gallery_image" json:"image_id"`
	Source    *string `gorm:"" json:"source,omitempty"` // Nullable, e.g. "frame", "context", "chat"
	AddedAt   int64   `gorm:"not null" json:"added_at"` // Unix timestamp
}

func (GalleryImage) TableName() string {
	return "gallery_images"
}

// CharacterImage attaches a reference image to a character bundle.
type CharacterImage struct {
	ID          uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	CharacterID uint  `gorm:"not null;uniqueIndex:idx_character_image" json:"character_id"`
	ImageID     uint  `gorm:"not null;uniqueIndex:idx_character_image" json:"image_id"`
	AddedAt     int64 `gorm:"not null" json:"added_at"` // Unix timestamp
}

func (CharacterImage) TableName() string {
	return "character_images"
}
