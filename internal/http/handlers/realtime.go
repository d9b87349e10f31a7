package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"github.com/yungbote/directchat-backend/internal/http/response"
	"github.com/yungbote/directchat-backend/internal/observability"
	"github.com/yungbote/directchat-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/directchat-backend/internal/pkg/errors"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
	"github.com/yungbote/directchat-backend/internal/pkg/session"
	"github.com/yungbote/directchat-backend/internal/realtime"
	"github.com/yungbote/directchat-backend/internal/services"
)

type RealtimeHandlerDeps struct {
	Log  *logger.Logger
	Hub  *realtime.Hub
	Chat services.ChatService
	// Metrics may be nil.
	Metrics *observability.Metrics
	// AllowedOrigins limits websocket upgrades. Empty allows any origin.
	AllowedOrigins []string
}

type RealtimeHandler struct {
	log      *logger.Logger
	hub      *realtime.Hub
	chat     services.ChatService
	metrics  *observability.Metrics
	upgrader websocket.Upgrader

	mu         sync.RWMutex
	sseClients map[uuid.UUID]*realtime.Client
}

func NewRealtimeHandler(deps RealtimeHandlerDeps) *RealtimeHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	origins := lo.SliceToMap(deps.AllowedOrigins, func(o string) (string, struct{}) {
		return strings.TrimRight(strings.TrimSpace(o), "/"), struct{}{}
	})
	return &RealtimeHandler{
		log:     log.With("handler", "RealtimeHandler"),
		hub:     deps.Hub,
		chat:    deps.Chat,
		metrics: deps.Metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[strings.TrimRight(origin, "/")]
				return ok
			},
		},
		sseClients: make(map[uuid.UUID]*realtime.Client),
	}
}

// GuardJoin allows a chat topic only for that chat's participants.
func (h *RealtimeHandler) GuardJoin(ctx context.Context, username, topic string) error {
	const op = "join_chat"
	chatID, err := uuid.Parse(strings.TrimSpace(topic))
	if err != nil {
		return errs.Validation(op, "invalid chat id %q", topic)
	}
	if h.chat == nil {
		return errs.Forbidden(op, "membership cannot be checked")
	}
	ok, err := h.chat.IsParticipant(dbctx.New(ctx), chatID, username)
	if err != nil {
		return err
	}
	if !ok {
		return errs.Forbidden(op, "%s is not a participant of %s", username, chatID)
	}
	return nil
}

// GET /api/realtime/ws
func (h *RealtimeHandler) WebSocket(c *gin.Context) {
	username := session.Username(c.Request.Context())
	if username == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errs.Unauthorized("websocket", "missing session"))
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", "username", username, "error", err)
		return
	}

	client := h.hub.NewClient(username)
	h.metrics.RealtimeConnection(1)
	defer h.metrics.RealtimeConnection(-1)
	h.hub.Join(client, realtime.PersonalTopic(username))
	h.hub.Send(client, realtime.Message{Event: realtime.EventReady, Data: map[string]any{"clientId": client.ID}})
	h.log.Info("websocket open", "username", username, "clientID", client.ID)

	h.hub.ServeWS(c.Request.Context(), conn, client, h.GuardJoin)
	h.log.Info("websocket closed", "username", username, "clientID", client.ID)
}

// GET /api/realtime/stream
//
// Every stream is its own client, so a user may hold several at once. The
// ready event carries the clientId that join and leave requests name.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	username := session.Username(c.Request.Context())
	if username == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errs.Unauthorized("sse", "missing session"))
		return
	}

	client := h.hub.NewClient(username)
	h.mu.Lock()
	h.sseClients[client.ID] = client
	h.mu.Unlock()

	h.hub.Join(client, realtime.PersonalTopic(username))
	h.metrics.RealtimeConnection(1)
	h.hub.ServeSSE(c.Writer, c.Request, client)

	h.mu.Lock()
	delete(h.sseClients, client.ID)
	h.mu.Unlock()
	h.hub.CloseClient(client)
	h.metrics.RealtimeConnection(-1)
}

type joinReq struct {
	ClientID string `json:"clientId" binding:"required,notblank"`
	ChatID   string `json:"chatId" binding:"required,notblank"`
}

// leaveReq has no required fields: a leave without a chat id is a no-op.
type leaveReq struct {
	ClientID string `json:"clientId"`
	ChatID   string `json:"chatId"`
}

// POST /api/realtime/join
func (h *RealtimeHandler) SSEJoin(c *gin.Context) {
	username, ok := h.sseUsername(c)
	if !ok {
		return
	}
	var req joinReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	client, ok := h.sseClient(c, username, req.ClientID)
	if !ok {
		return
	}
	chatID := strings.TrimSpace(req.ChatID)
	if err := h.GuardJoin(c.Request.Context(), username, chatID); err != nil {
		if errs.KindOf(err) == errs.ErrForbidden {
			response.RespondError(c, http.StatusForbidden, "forbidden", err)
			return
		}
		response.RespondServiceError(c, err)
		return
	}
	h.hub.Join(client, chatID)
	response.RespondOK(c, gin.H{"message": "joined", "chatId": chatID})
}

// POST /api/realtime/leave
func (h *RealtimeHandler) SSELeave(c *gin.Context) {
	username, ok := h.sseUsername(c)
	if !ok {
		return
	}
	var req leaveReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	chatID := strings.TrimSpace(req.ChatID)
	if chatID == "" {
		response.RespondOK(c, gin.H{"message": "left"})
		return
	}
	client, ok := h.sseClient(c, username, req.ClientID)
	if !ok {
		return
	}
	h.hub.Leave(client, chatID)
	response.RespondOK(c, gin.H{"message": "left", "chatId": chatID})
}

func (h *RealtimeHandler) sseUsername(c *gin.Context) (string, bool) {
	username := session.Username(c.Request.Context())
	if username == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errs.Unauthorized("sse", "missing session"))
		return "", false
	}
	return username, true
}

// sseClient resolves one of username's open streams.
func (h *RealtimeHandler) sseClient(c *gin.Context, username, rawID string) (*realtime.Client, bool) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errs.Validation("sse", "invalid client id %q", rawID))
		return nil, false
	}
	h.mu.RLock()
	client, exists := h.sseClients[id]
	h.mu.RUnlock()
	if !exists || client.Username != username {
		response.RespondError(c, http.StatusConflict, "no_stream", errs.Validation("sse", "no active stream %s for %s", id, username))
		return nil, false
	}
	return client, true
}
