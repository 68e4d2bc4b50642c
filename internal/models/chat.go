package models

import (
	"time"

	"github.com/google/uuid"
)

// Message senders.
const (
	SenderUser  = "user"
	SenderAdmin = "admin"
)

// Chat is the single support thread between a user and staff.
type Chat struct {
	BaseModel
	UserID      uuid.UUID     `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	User        *User         `gorm:"foreignKey:UserID" json:"-"`
	Messages    []ChatMessage `gorm:"foreignKey:ChatID" json:"messages"`
	LastUpdated time.Time     `gorm:"index;not null" json:"lastUpdated"`
}

// ChatMessage is one entry of a chat thread. Seq increases with insertion
// and defines arrival order.
type ChatMessage struct {
	Seq       uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	ChatID    uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	Sender    string    `gorm:"not null" json:"sender"`
	Text      string    `gorm:"not null" json:"text"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}
