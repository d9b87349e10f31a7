package chatclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yungbote/directchat-backend/internal/realtime"
)

const (
	socketWriteWait = 10 * time.Second
	socketReadyWait = 10 * time.Second
	eventBuffer     = 64
)

// Socket is the realtime half of the chat backend. The server joins the
// personal topic on connect; chat topics are joined and left explicitly.
type Socket interface {
	Join(topic string) error
	Leave(topic string) error
	// Events is closed when the connection ends.
	Events() <-chan realtime.Frame
	Close() error
}

type WSSocket struct {
	conn   *websocket.Conn
	events chan realtime.Frame
	done   chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// DialSocket opens the websocket at baseURL and waits for the server's ready
// frame, so the personal topic is joined when it returns.
func DialSocket(ctx context.Context, baseURL, username, token string) (*WSSocket, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/api/realtime/ws")
	if err != nil {
		return nil, fmt.Errorf("socket url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	}

	header := http.Header{}
	if token = strings.TrimSpace(token); token != "" {
		header.Set("Authorization", "Bearer "+token)
	} else {
		header.Set(headerChatUser, strings.TrimSpace(username))
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.Redacted(), err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(socketReadyWait))
	for {
		var f realtime.Frame
		if err := conn.ReadJSON(&f); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("await ready: %w", err)
		}
		if f.Event == realtime.EventReady {
			break
		}
	}
	_ = conn.SetReadDeadline(time.Time{})

	s := &WSSocket{conn: conn, events: make(chan realtime.Frame, eventBuffer), done: make(chan struct{})}
	go s.readLoop()
	return s, nil
}

func (s *WSSocket) readLoop() {
	defer close(s.events)
	for {
		var f realtime.Frame
		if err := s.conn.ReadJSON(&f); err != nil {
			return
		}
		select {
		case s.events <- f:
		case <-s.done:
			return
		}
	}
}

func (s *WSSocket) Join(topic string) error  { return s.send(realtime.EventJoinChat, topic) }
func (s *WSSocket) Leave(topic string) error { return s.send(realtime.EventLeaveChat, topic) }

func (s *WSSocket) Events() <-chan realtime.Frame { return s.events }

func (s *WSSocket) send(event realtime.Event, topic string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
	return s.conn.WriteJSON(map[string]any{"event": event, "data": topic})
}

func (s *WSSocket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.writeMu.Lock()
		_ = s.conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
		_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}
