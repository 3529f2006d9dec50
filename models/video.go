package models

// Video is a storyboarded video inside a project. Creating a video also
// creates its Context and a default chat; those rows are managed by the
// video repository, not by GORM associations.
type Video struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID   uint    `gorm:"not null;index" json:"project_id"`
	Title       string  `gorm:"not null" json:"title"`
	Description *string `gorm:"" json:"description,omitempty"` // Nullable
	CreatedAt   int64   `gorm:"not null" json:"created_at"`    // Unix timestamp
	UpdatedAt   int64   `gorm:"not null" json:"updated_at"`    // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Video) TableName() string {
	return "videos"
}
