package entities

import "time"

// ChatMessage is one persisted conversation turn. Unlike the
// in-memory history it is append-only and never windowed.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	SessionPublicID string `gorm:"type:varchar(64);index:idx_chat_message_session;not null"`
	Role            string `gorm:"type:varchar(10);not null"`
	Content         string `gorm:"type:text;not null"`
	Intent          string `gorm:"type:varchar(40)"`
}

// TableName specifies the table name for ChatMessage.
func (ChatMessage) TableName() string {
	return "chat_messages"
}
