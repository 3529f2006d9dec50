package models

// Project is the top-level container for storyboard work. It owns videos,
// characters, and the project gallery. The Zip* columns track the state of
// the background gallery archive export.
type Project struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description *string `gorm:"" json:"description,omitempty"` // Nullable

	ZipPath            *string `gorm:"" json:"zip_path,omitempty"` // Nullable
	ZipSize            *int64  `gorm:"" json:"zip_size,omitempty"` // Nullable
	ZipStatus          string  `gorm:"not null;default:not_required" json:"zip_status"`
	ZipLastGeneratedAt *int64  `gorm:"" json:"zip_last_generated_at,omitempty"` // Nullable, Unix timestamp
	ZipLastRequestedAt *int64  `gorm:"" json:"zip_last_requested_at,omitempty"` // Nullable, Unix timestamp
	ZipError           *string `gorm:"" json:"zip_error,omitempty"`             // Nullable

	CreatedAt int64 `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt int64 `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Project) TableName() string {
	return "projects"
}
