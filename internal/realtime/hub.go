package realtime

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

const DefaultOutboundBuffer = 32

type Client struct {
	ID       uuid.UUID
	Username string
	Outbound chan Message
	Logger   *logger.Logger

	topics    map[string]bool
	done      chan struct{}
	closeOnce sync.Once
}

// Done is closed once the client has been closed by the hub.
func (c *Client) Done() <-chan struct{} { return c.done }

// Hub routes messages to clients by topic. A topic exists only while it has
// subscribers.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	buffer        int
	subscriptions map[string]map[*Client]bool
}

func NewHub(log *logger.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultOutboundBuffer
	}
	return &Hub{
		log:           log.With("component", "RealtimeHub"),
		buffer:        buffer,
		subscriptions: make(map[string]map[*Client]bool),
	}
}

func (h *Hub) NewClient(username string) *Client {
	id := uuid.New()
	return &Client{
		ID:       id,
		Username: username,
		Outbound: make(chan Message, h.buffer),
		Logger:   h.log.With("clientID", id, "username", username),
		topics:   make(map[string]bool),
		done:     make(chan struct{}),
	}
}

// Join subscribes client to topic. Joining twice is a no-op; the return value
// reports whether the subscription is new.
func (h *Hub) Join(client *Client, topic string) bool {
	topic = strings.TrimSpace(topic)
	if client == nil || topic == "" {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-client.done:
		return false
	default:
	}
	if client.topics[topic] {
		return false
	}
	client.topics[topic] = true

	clients, ok := h.subscriptions[topic]
	if !ok {
		clients = make(map[*Client]bool)
		h.subscriptions[topic] = clients
	}
	clients[client] = true

	h.log.Debug("client joined topic", "clientID", client.ID, "topic", topic)
	return true
}

// Leave unsubscribes client from topic. Unknown topics are ignored.
func (h *Hub) Leave(client *Client, topic string) {
	topic = strings.TrimSpace(topic)
	if client == nil || topic == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if !client.topics[topic] {
		return
	}
	delete(client.topics, topic)
	h.unsubscribeLocked(client, topic)
	h.log.Debug("client left topic", "clientID", client.ID, "topic", topic)
}

// Joined reports whether client is currently subscribed to topic.
func (h *Hub) Joined(client *Client, topic string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return client != nil && client.topics[strings.TrimSpace(topic)]
}

// Topics returns the topics client is subscribed to.
func (h *Hub) Topics(client *Client) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(client.topics))
	for t := range client.topics {
		out = append(out, t)
	}
	return out
}

// Publish delivers msg to every subscriber of msg.Topic without blocking. A
// subscriber whose outbound buffer is full misses the message. It returns the
// number of clients the message was queued for.
func (h *Hub) Publish(msg Message) int {
	if msg.Topic == "" {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.subscriptions[msg.Topic] {
		select {
		case c.Outbound <- msg:
			delivered++
		default:
			h.log.Warn("Dropping realtime message; outbound buffer full", "clientID", c.ID, "topic", msg.Topic, "event", msg.Event)
		}
	}
	return delivered
}

// Send queues msg for a single client, bypassing topic routing.
func (h *Hub) Send(client *Client, msg Message) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	select {
	case <-client.done:
		return false
	default:
	}
	select {
	case client.Outbound <- msg:
		return true
	default:
		h.log.Warn("Dropping direct message; outbound buffer full", "clientID", client.ID, "event", msg.Event)
		return false
	}
}

// Subscribers returns the number of clients joined to topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[topic])
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for topic := range client.topics {
		h.unsubscribeLocked(client, topic)
	}
	client.topics = make(map[string]bool)
	h.log.Debug("client left all topics", "clientID", client.ID)
}

// CloseClient removes client from every topic and closes Done. Safe to call
// more than once.
func (h *Hub) CloseClient(client *Client) {
	client.closeOnce.Do(func() {
		h.mu.Lock()
		close(client.done)
		h.mu.Unlock()
		h.RemoveClient(client)
	})
}

func (h *Hub) unsubscribeLocked(client *Client, topic string) {
	if subs, ok := h.subscriptions[topic]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, topic)
		}
	}
}
