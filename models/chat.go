package models

// Chat is a free-form prompt/generation thread attached to a video. Every
// video gets a default chat at creation time; additional threads can be
// added later.
type Chat struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID   uint   `gorm:"not null;index" json:"video_id"`
	Name      string `gorm:"not null;default:'main'" json:"name"`
	IsDefault bool   `gorm:"not null;default:false" json:"is_default"`
	CreatedAt int64  `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt int64  `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Chat) TableName() string {
	return "chats"
}

// Message is one entry in a chat thread. Generated images reference their
// owning message through Image.MessageID.
type Message struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID    uint    `gorm:"not null;index" json:"chat_id"`
	Role      string  `gorm:"not null;default:'user'" json:"role"` // user or assistant
	Content   string  `gorm:"not null" json:"content"`
	Provider  *string `gorm:"" json:"provider,omitempty"` // Nullable, provider used for generation
	Model     *string `gorm:"" json:"model,omitempty"`    // Nullable
	CreatedAt int64   `gorm:"not null" json:"created_at"` // Unix timestamp

	// Relationships
	Images []Image `gorm:"foreignKey:MessageID" json:"images,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Message) TableName() string {
	return "messages"
}
