package models

// Character is a named reference-image bundle scoped to a project, used to
// keep recurring subjects visually consistent across generations.
type Character struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID uint    `gorm:"not null;index" json:"project_id"`
	Name      string  `gorm:"not null" json:"name"`
	Notes     *string `gorm:"" json:"notes,omitempty"`    // Nullable
	CreatedAt int64   `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt int64   `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Character) TableName() string {
	return "characters"
}
