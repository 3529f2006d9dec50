package models

// Context holds free-text creative-direction notes for a video, optionally
// paired with reference images (see ContextImage). Exactly one per video.
type Context struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID   uint   `gorm:"not null;uniqueIndex" json:"video_id"`
	Notes     string `gorm:"not null;default:''" json:"notes"`
	CreatedAt int64  `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt int64  `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Context) TableName() string {
	return "contexts"
}
