package models

// Frame is an ordered storyboard slot within a video. Position is a dense
// 0..N-1 sequence per video; the frame repository renumbers on delete and
// reorder. SelectedImageID must reference an image currently attached to
// the frame via FrameImage.
type Frame struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID         uint    `gorm:"not null;index" json:"video_id"`
	Position        int     `gorm:"not null" json:"position"`
	Title           *string `gorm:"" json:"title,omitempty"`  // Nullable
	Prompt          *string `gorm:"" json:"prompt,omitempty"` // Nullable, last generation prompt
	SelectedImageID *uint   `gorm:"" json:"selected_image_id,omitempty"`
	CreatedAt       int64   `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt       int64   `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Frame) TableName() string {
	return "frames"
}
