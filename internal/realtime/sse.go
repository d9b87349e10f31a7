package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const sseHeartbeat = 15 * time.Second

// ServeSSE streams client's outbound messages as server-sent events until the
// request context ends or the client is closed.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request, client *Client) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	writeSSE(w, Message{Event: EventReady, Data: map[string]any{"clientId": client.ID}}, client)
	flusher.Flush()

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			client.Logger.Debug("SSE client context done", "err", ctx.Err())
			return
		case <-client.done:
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg := <-client.Outbound:
			writeSSE(w, msg, client)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, msg Message, client *Client) {
	b, err := json.Marshal(msg)
	if err != nil {
		client.Logger.Warn("Failed to marshal SSE message", "error", err)
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", msg.Event)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", b)
}
