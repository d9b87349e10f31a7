package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/directchat-backend/internal/domain"
	"github.com/yungbote/directchat-backend/internal/http/response"
	"github.com/yungbote/directchat-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/directchat-backend/internal/pkg/errors"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
	"github.com/yungbote/directchat-backend/internal/services"
)

const headerIdempotencyKey = "Idempotency-Key"

type ChatHandlerDeps struct {
	Log      *logger.Logger
	Chat     services.ChatService
	Populate services.Populator
	Notify   services.ChatNotifier
}

type ChatHandler struct {
	log      *logger.Logger
	chat     services.ChatService
	populate services.Populator
	notify   services.ChatNotifier
}

func NewChatHandler(deps ChatHandlerDeps) *ChatHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	RegisterValidators()
	return &ChatHandler{
		log:      log.With("handler", "ChatHandler"),
		chat:     deps.Chat,
		populate: deps.Populate,
		notify:   deps.Notify,
	}
}

type messageReq struct {
	Msg         string     `json:"msg" binding:"required,notblank"`
	MsgFrom     string     `json:"msgFrom" binding:"required,notblank"`
	MsgDateTime *time.Time `json:"msgDateTime"`
}

func (r messageReq) toMessage() *types.Message {
	m := &types.Message{
		SenderUsername: strings.TrimSpace(r.MsgFrom),
		Body:           r.Msg,
		Kind:           types.MessageKindDirect,
	}
	if r.MsgDateTime != nil {
		m.SentAt = r.MsgDateTime.UTC()
	}
	return m
}

type createChatReq struct {
	Participants []string     `json:"participants" binding:"required,min=1,dive,notblank"`
	Messages     []messageReq `json:"messages" binding:"omitempty,dive"`
}

type addParticipantReq struct {
	UserID string `json:"userId" binding:"required,notblank"`
}

// POST /api/chat/createChat
func (h *ChatHandler) CreateChat(c *gin.Context) {
	var req createChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	initial := make([]*types.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		initial = append(initial, m.toMessage())
	}

	dbc := dbctx.New(c.Request.Context())
	chat, err := h.chat.CreateChat(dbc, req.Participants, initial)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	enriched, err := h.populate.PopulateChat(dbc, chat)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	h.notify.ChatCreated(dbc.Ctx, enriched)
	response.RespondOK(c, enriched)
}

// GET /api/chat/getChatsByUser/:username
func (h *ChatHandler) GetChatsByUser(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	dbc := dbctx.New(c.Request.Context())

	chats := h.chat.GetChatsForParticipant(dbc, []string{username})
	enriched, err := h.populate.PopulateChats(dbc, chats)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if enriched == nil {
		enriched = []*types.EnrichedChat{}
	}
	response.RespondOK(c, enriched)
}

// POST /api/chat/:chatId/addMessage
func (h *ChatHandler) AddMessage(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var req messageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	dbc := dbctx.New(c.Request.Context())
	chat, applied, err := h.chat.AddMessage(dbc, chatID, req.toMessage(), c.GetHeader(headerIdempotencyKey))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	enriched, err := h.populate.PopulateChat(dbc, chat)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if applied {
		h.notify.NewMessage(dbc.Ctx, enriched)
	}
	response.RespondOK(c, enriched)
}

// GET /api/chat/:chatId
func (h *ChatHandler) GetChat(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	dbc := dbctx.New(c.Request.Context())
	chat, err := h.chat.GetChat(dbc, chatID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	enriched, err := h.populate.PopulateChat(dbc, chat)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, enriched)
}

// POST /api/chat/:chatId/addParticipant
func (h *ChatHandler) AddParticipant(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var req addParticipantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	dbc := dbctx.New(c.Request.Context())
	chat, added, err := h.chat.AddParticipant(dbc, chatID, req.UserID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if added {
		if enriched, err := h.populate.PopulateChat(dbc, chat); err != nil {
			h.log.Warn("participant added but notification skipped", "chatID", chatID, "error", err)
		} else {
			h.notify.ParticipantAdded(dbc.Ctx, enriched, strings.TrimSpace(req.UserID))
		}
	}
	response.RespondOK(c, chat)
}

func chatIDParam(c *gin.Context) (uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Param("chatId"))
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errs.Validation("chat_id", "invalid chat id %q", raw))
		return uuid.Nil, false
	}
	return id, true
}
