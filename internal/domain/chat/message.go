package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MessageKindDirect = "direct"

// Message is immutable once stored.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderUsername string    `gorm:"column:sender_username;not null;index" json:"msgFrom"`
	Body           string    `gorm:"column:body;type:text;not null" json:"msg"`
	SentAt         time.Time `gorm:"column:sent_at;not null;index" json:"msgDateTime"`
	Kind           string    `gorm:"column:kind;not null;default:'direct'" json:"type"`
	CreatedAt      time.Time `gorm:"not null" json:"-"`
}

func (Message) TableName() string { return "message" }

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ApplyDefaults stamps SentAt with now and Kind with "direct" when unset.
func (m *Message) ApplyDefaults(now time.Time) {
	if m.SentAt.IsZero() {
		m.SentAt = now
	}
	if m.Kind == "" {
		m.Kind = MessageKindDirect
	}
}
