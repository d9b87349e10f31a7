package realtime

import "strings"

type Event string

const (
	// Server to client.
	EventChatUpdate Event = "chatUpdate"
	EventError      Event = "error"
	EventReady      Event = "ready"

	// Client to server.
	EventJoinChat  Event = "joinChat"
	EventLeaveChat Event = "leaveChat"
)

// Message is one routed notification. Topic selects the recipients and is
// not part of the wire frame.
type Message struct {
	Topic string `json:"-"`
	Event Event  `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type ErrorData struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	// Topic names the chat a rejected joinChat asked for.
	Topic string `json:"topic,omitempty"`
}

const personalTopicPrefix = "user:"

// PersonalTopic is the topic every connection of username joins on connect.
func PersonalTopic(username string) string {
	return personalTopicPrefix + strings.TrimSpace(username)
}

// IsPersonalTopic reports whether topic is a per-user topic.
func IsPersonalTopic(topic string) bool {
	return strings.HasPrefix(topic, personalTopicPrefix)
}
