package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat is a direct conversation. Participants and Messages are assembled by
// the repository from chat_participant and chat_message in insertion order.
type Chat struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updatedAt"`

	Participants []string    `gorm:"-" json:"participants"`
	Messages     []uuid.UUID `gorm:"-" json:"messages"`
}

func (Chat) TableName() string { return "chat" }

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// HasParticipant reports whether username is in the chat.
func (c *Chat) HasParticipant(username string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Participants {
		if p == username {
			return true
		}
	}
	return false
}

// ChatParticipant holds set membership; the composite key suppresses duplicates.
type ChatParticipant struct {
	ChatID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"chatId"`
	Username  string    `gorm:"primaryKey;index" json:"username"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (ChatParticipant) TableName() string { return "chat_participant" }

// ChatMessage is the append-only ordered link between a chat and a message.
type ChatMessage struct {
	ChatID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"chatId"`
	Seq       int64     `gorm:"primaryKey;autoIncrement:false" json:"seq"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;index" json:"messageId"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (ChatMessage) TableName() string { return "chat_message" }
