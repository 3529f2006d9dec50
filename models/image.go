package models

// Image is a generated (or uploaded reference) image. URL is the remote
// provider URL or the locally served path; once the asset pipeline has
// mirrored the file, StoragePath and ThumbnailPath point inside the media
// store. MessageID is set when the image was produced for a chat message.
type Image struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	URL       string  `gorm:"not null" json:"url"`
	Prompt    *string `gorm:"" json:"prompt,omitempty"` // Nullable
	Provider  string  `gorm:"not null" json:"provider"` // mock, openai, fal
	Model     *string `gorm:"" json:"model,omitempty"`  // Nullable
	MessageID *uint   `gorm:"index" json:"message_id,omitempty"`

	StoragePath   *string `gorm:"" json:"storage_path,omitempty"`   // Nullable, relative to media store
	ThumbnailPath *string `gorm:"" json:"thumbnail_path,omitempty"` // Nullable

	Width  *int `gorm:"" json:"width,omitempty"`  // Nullable
	Height *int `gorm:"" json:"height,omitempty"` // Nullable

	DownloadStatus  string `gorm:"not null;default:pending" json:"download_status"`
	ThumbnailStatus string `gorm:"not null;default:pending" json:"thumbnail_status"`
	MetadataStatus  string `gorm:"not null;default:pending" json:"metadata_status"`

	DownloadProcessedAt  *int64 `gorm:"" json:"download_processed_at,omitempty"`  // Nullable, Unix timestamp
	ThumbnailProcessedAt *int64 `gorm:"" json:"thumbnail_processed_at,omitempty"` // Nullable, Unix timestamp
	MetadataProcessedAt  *int64 `gorm:"" json:"metadata_processed_at,omitempty"`  // Nullable, Unix timestamp

	DownloadError  *string `gorm:"" json:"download_error,omitempty"`  // Nullable
	ThumbnailError *string `gorm:"" json:"thumbnail_error,omitempty"` // Nullable
	MetadataError  *string `gorm:"" json:"metadata_error,omitempty"`  // Nullable

	CreatedAt int64 `gorm:"not null" json:"created_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Image) TableName() string {
	return "images"
}
