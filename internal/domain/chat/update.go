package chat

type UpdateType string

const (
	UpdateCreated    UpdateType = "created"
	UpdateNewMessage UpdateType = "newMessage"
)

// ChatUpdate is the payload pushed to clients when a chat changes. It is
// never persisted.
type ChatUpdate struct {
	Type UpdateType    `json:"type"`
	Chat *EnrichedChat `json:"chat"`
}
