package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 8 * 1024
)

// Frame is the websocket wire shape in both directions.
type Frame struct {
	Event Event           `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinGuard decides whether username may join topic. A non-nil error denies
// the join and is reported to the client as an error frame.
type JoinGuard func(ctx context.Context, username, topic string) error

// ServeWS runs the read and write pumps for an upgraded connection and blocks
// until the connection ends. The client is closed on return.
func (h *Hub) ServeWS(ctx context.Context, conn *websocket.Conn, client *Client, guard JoinGuard) {
	defer h.CloseClient(client)

	go h.readPump(ctx, conn, client, guard)
	h.writePump(conn, client)
}

func (h *Hub) readPump(ctx context.Context, conn *websocket.Conn, client *Client, guard JoinGuard) {
	defer h.CloseClient(client)

	conn.SetReadLimit(maxInboundSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				client.Logger.Debug("websocket read failed", "error", err)
			}
			return
		}
		h.handleFrame(ctx, client, f, guard)
	}
}

func (h *Hub) handleFrame(ctx context.Context, client *Client, f Frame, guard JoinGuard) {
	switch f.Event {
	case EventLeaveChat:
		// Leaving with no chat selected is a no-op.
		if len(f.Data) == 0 || string(f.Data) == "null" {
			return
		}
		var topic string
		if err := json.Unmarshal(f.Data, &topic); err != nil {
			h.Send(client, errorMessage("invalid_request", "data must be a chat id string"))
			return
		}
		h.Leave(client, topic)
	case EventJoinChat:
		var topic string
		if err := json.Unmarshal(f.Data, &topic); err != nil || strings.TrimSpace(topic) == "" {
			h.Send(client, errorMessage("invalid_request", "data must be a chat id string"))
			return
		}
		if IsPersonalTopic(topic) && topic != PersonalTopic(client.Username) {
			h.Send(client, joinRejected(topic, "cannot join another user's topic"))
			return
		}
		if guard != nil {
			if err := guard(ctx, client.Username, topic); err != nil {
				h.Send(client, joinRejected(topic, err.Error()))
				return
			}
		}
		h.Join(client, topic)
	default:
		h.Send(client, errorMessage("invalid_request", "unknown event "+string(f.Event)))
	}
}

func (h *Hub) writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-client.done:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-client.Outbound:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				client.Logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func errorMessage(code, message string) Message {
	return Message{Event: EventError, Data: ErrorData{Code: code, Message: message}}
}

func joinRejected(topic, message string) Message {
	return Message{Event: EventError, Data: ErrorData{Code: "forbidden", Message: message, Topic: topic}}
}
