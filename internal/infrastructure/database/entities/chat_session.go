package entities

import "time"

// ChatSession represents the database schema for chat sessions. It is
// a durable shadow of the in-memory conversation: analytics and audit
// read from here, the live turn path never does.
type ChatSession struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID      string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Qualification string    `gorm:"type:varchar(20);not null;default:'NOT_STARTED'"`
	TurnCount     int       `gorm:"not null;default:0"`
	LastActiveAt  time.Time `gorm:"not null"`
}

// TableName specifies the table name for ChatSession.
func (ChatSession) TableName() string {
	return "chat_sessions"
}
