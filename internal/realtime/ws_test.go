package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

func startWSServer(t *testing.T, hub *Hub, guard JoinGuard) (*websocket.Conn, <-chan *Client) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	clients := make(chan *Client, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := hub.NewClient(r.URL.Query().Get("username"))
		hub.Join(client, PersonalTopic(client.Username))
		clients <- client
		hub.ServeWS(context.Background(), conn, client, guard)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?username=alice"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn, clients
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestServeWSJoinPublishLeave(t *testing.T) {
	hub := NewHub(logger.Nop(), 8)
	conn, clients := startWSServer(t, hub, func(ctx context.Context, username, topic string) error {
		if topic == "forbidden-room" {
			return errors.New("not a participant")
		}
		return nil
	})
	client := <-clients

	hub.Publish(Message{Topic: PersonalTopic("alice"), Event: EventChatUpdate, Data: map[string]string{"type": "created"}})
	f := readFrame(t, conn)
	if f.Event != EventChatUpdate || !strings.Contains(string(f.Data), `"created"`) {
		t.Fatalf("personal frame: %+v", f)
	}

	if err := conn.WriteJSON(map[string]any{"event": "joinChat", "data": "room-1"}); err != nil {
		t.Fatalf("write join: %v", err)
	}
	waitFor(t, func() bool { return hub.Joined(client, "room-1") })

	hub.Publish(Message{Topic: "room-1", Event: EventChatUpdate, Data: map[string]string{"type": "newMessage"}})
	f = readFrame(t, conn)
	if !strings.Contains(string(f.Data), "newMessage") {
		t.Fatalf("room frame: %+v", f)
	}

	if err := conn.WriteJSON(map[string]any{"event": "leaveChat", "data": "room-1"}); err != nil {
		t.Fatalf("write leave: %v", err)
	}
	waitFor(t, func() bool { return !hub.Joined(client, "room-1") })

	// Leaving with no chat id is silent.
	for _, leave := range []any{
		map[string]any{"event": "leaveChat"},
		map[string]any{"event": "leaveChat", "data": nil},
		map[string]any{"event": "leaveChat", "data": "  "},
	} {
		if err := conn.WriteJSON(leave); err != nil {
			t.Fatalf("write leave: %v", err)
		}
	}
	// Frames are handled in order, so once room-2 is joined the leaves above
	// have been processed.
	if err := conn.WriteJSON(map[string]any{"event": "joinChat", "data": "room-2"}); err != nil {
		t.Fatalf("write join: %v", err)
	}
	waitFor(t, func() bool { return hub.Joined(client, "room-2") })

	hub.Publish(Message{Topic: PersonalTopic("alice"), Event: EventChatUpdate, Data: map[string]string{"type": "created"}})
	f = readFrame(t, conn)
	if f.Event != EventChatUpdate {
		t.Fatalf("leave without chat id produced %+v", f)
	}
}

func TestServeWSRejectsDeniedAndMalformedFrames(t *testing.T) {
	hub := NewHub(logger.Nop(), 8)
	conn, clients := startWSServer(t, hub, func(ctx context.Context, username, topic string) error {
		return errors.New("not a participant")
	})
	client := <-clients

	cases := []struct {
		frame map[string]any
		topic string
	}{
		{map[string]any{"event": "joinChat", "data": "room-1"}, "room-1"},
		{map[string]any{"event": "joinChat", "data": 42}, ""},
		{map[string]any{"event": "joinChat", "data": "user:bob"}, "user:bob"},
		{map[string]any{"event": "shout", "data": "x"}, ""},
	}
	for _, c := range cases {
		if err := conn.WriteJSON(c.frame); err != nil {
			t.Fatalf("write: %v", err)
		}
		f := readFrame(t, conn)
		if f.Event != EventError {
			t.Fatalf("frame for %v: want error, got %+v", c.frame, f)
		}
		var data ErrorData
		if err := json.Unmarshal(f.Data, &data); err != nil || data.Message == "" {
			t.Fatalf("error frame payload: %s (%v)", f.Data, err)
		}
		if data.Topic != c.topic {
			t.Fatalf("error frame for %v names topic %q, want %q", c.frame, data.Topic, c.topic)
		}
	}
	if hub.Joined(client, "room-1") {
		t.Fatalf("denied join must not subscribe")
	}
}

func TestServeWSClosesClientOnDisconnect(t *testing.T) {
	hub := NewHub(logger.Nop(), 8)
	conn, clients := startWSServer(t, hub, nil)
	client := <-clients

	_ = conn.Close()
	select {
	case <-client.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("client not closed after disconnect")
	}
	if n := hub.Subscribers(PersonalTopic("alice")); n != 0 {
		t.Fatalf("personal topic still has %d subscribers", n)
	}
}
