package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/directchat-backend/internal/domain/user"
)

// EnrichedChat is a Chat with its references resolved for clients.
type EnrichedChat struct {
	ID           uuid.UUID          `json:"id"`
	Participants []user.UserSummary `json:"participants"`
	Messages     []*Message         `json:"messages"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// ParticipantNames returns the usernames in chat order.
func (c *EnrichedChat) ParticipantNames() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		out = append(out, p.Username)
	}
	return out
}

// LastMessage returns the newest message, or nil.
func (c *EnrichedChat) LastMessage() *Message {
	if c == nil || len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}
