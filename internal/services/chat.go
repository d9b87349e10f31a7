//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=mocks/mock_chat.go -package=mocks

package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/yungbote/directchat-backend/internal/data/idempotency"
	"github.com/yungbote/directchat-backend/internal/data/repos"
	types "github.com/yungbote/directchat-backend/internal/domain"
	"github.com/yungbote/directchat-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/directchat-backend/internal/pkg/errors"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

// ChatService owns chat and message mutations. Expected failures come back
// as *errs.Error values; nothing panics across this boundary.
type ChatService interface {
	// CreateChat validates every participant before writing anything, then
	// stores the initial messages and the chat in one transaction.
	CreateChat(dbc dbctx.Context, participants []string, initial []*types.Message) (*types.Chat, error)
	CreateMessage(dbc dbctx.Context, msg *types.Message) (*types.Message, error)
	AppendMessageToChat(dbc dbctx.Context, chatID, messageID uuid.UUID) (*types.Chat, error)
	GetChat(dbc dbctx.Context, chatID uuid.UUID) (*types.Chat, error)
	// GetChatsForParticipant returns chats whose participants include every
	// username. Lookup failures are logged and reported as no results.
	GetChatsForParticipant(dbc dbctx.Context, usernames []string) []*types.Chat
	// AddParticipant is a set-union add; an existing participant is a no-op.
	AddParticipant(dbc dbctx.Context, chatID uuid.UUID, username string) (*types.Chat, bool, error)
	IsParticipant(dbc dbctx.Context, chatID uuid.UUID, username string) (bool, error)
	// AddMessage stores msg and appends it to the chat atomically. A non-empty
	// idempotencyKey already seen for this chat skips the write; applied is
	// false in that case.
	AddMessage(dbc dbctx.Context, chatID uuid.UUID, msg *types.Message, idempotencyKey string) (chat *types.Chat, applied bool, err error)
}

type chatService struct {
	db       *gorm.DB
	log      *logger.Logger
	users    repos.UserRepo
	chats    repos.ChatRepo
	messages repos.MessageRepo
	idem     idempotency.Store
	idemTTL  time.Duration
	now      func() time.Time
}

func NewChatService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	chatRepo repos.ChatRepo,
	messageRepo repos.MessageRepo,
	idem idempotency.Store,
	idemTTL time.Duration,
) ChatService {
	return &chatService{
		db:       db,
		log:      baseLog.With("service", "ChatService"),
		users:    userRepo,
		chats:    chatRepo,
		messages: messageRepo,
		idem:     idem,
		idemTTL:  idemTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *chatService) CreateChat(dbc dbctx.Context, participants []string, initial []*types.Message) (*types.Chat, error) {
	const op = "create_chat"

	participants = normalizeUsernames(participants)
	if len(participants) == 0 {
		return nil, errs.Validation(op, "at least one participant is required")
	}
	for i, m := range initial {
		if m == nil {
			return nil, errs.Validation(op, "message %d is empty", i)
		}
	}

	missing, err := s.users.MissingUsernames(dbc, participants)
	if err != nil {
		return nil, errs.Persistence(op, err)
	}
	if len(missing) > 0 {
		return nil, errs.UserNotFound(op, missing...)
	}

	now := s.now()
	var created *types.Chat
	err = s.transaction(dbc).Transaction(func(txx *gorm.DB) error {
		repoCtx := dbctx.Context{Ctx: dbc.Ctx, Tx: txx}

		ids := make([]uuid.UUID, 0, len(initial))
		if len(initial) > 0 {
			for _, m := range initial {
				m.ID = uuid.Nil
				m.ApplyDefaults(now)
			}
			rows, err := s.messages.Create(repoCtx, initial)
			if err != nil {
				return err
			}
			for _, m := range rows {
				ids = append(ids, m.ID)
			}
		}

		c, err := s.chats.Create(repoCtx, &types.Chat{}, participants, ids)
		if err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		s.log.Warn("create chat failed", "participants", participants, "error", err)
		return nil, errs.Persistence(op, err)
	}

	s.log.Debug("chat created", "chatID", created.ID, "participants", participants, "messages", len(created.Messages))
	return created, nil
}

func (s *chatService) CreateMessage(dbc dbctx.Context, msg *types.Message) (*types.Message, error) {
	const op = "create_message"
	if msg == nil {
		return nil, errs.Validation(op, "message is required")
	}
	msg.ApplyDefaults(s.now())
	rows, err := s.messages.Create(dbc, []*types.Message{msg})
	if err != nil {
		return nil, errs.Persistence(op, err)
	}
	return rows[0], nil
}

func (s *chatService) AppendMessageToChat(dbc dbctx.Context, chatID, messageID uuid.UUID) (*types.Chat, error) {
	const op = "append_message"

	var out *types.Chat
	err := s.retryAppend(chatID, func() error {
		return s.transaction(dbc).Transaction(func(txx *gorm.DB) error {
			repoCtx := dbctx.Context{Ctx: dbc.Ctx, Tx: txx}
			c, err := s.appendLocked(repoCtx, op, chatID, messageID)
			out = c
			return err
		})
	})
	if err != nil {
		return nil, asServiceError(op, err)
	}
	return out, nil
}

func (s *chatService) appendLocked(repoCtx dbctx.Context, op string, chatID, messageID uuid.UUID) (*types.Chat, error) {
	ok, err := s.chats.Exists(repoCtx, chatID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.ChatNotFound(op, chatID)
	}
	if err := s.chats.AppendMessage(repoCtx, chatID, messageID); err != nil {
		return nil, err
	}
	c, err := s.chats.GetByID(repoCtx, chatID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errs.ChatNotFound(op, chatID)
	}
	return c, nil
}

func (s *chatService) GetChat(dbc dbctx.Context, chatID uuid.UUID) (*types.Chat, error) {
	const op = "get_chat"
	c, err := s.chats.GetByID(dbc, chatID)
	if err != nil {
		return nil, errs.Persistence(op, err)
	}
	if c == nil {
		return nil, errs.ChatNotFound(op, chatID)
	}
	return c, nil
}

func (s *chatService) GetChatsForParticipant(dbc dbctx.Context, usernames []string) []*types.Chat {
	usernames = normalizeUsernames(usernames)
	if len(usernames) == 0 {
		return []*types.Chat{}
	}
	ids, err := s.chats.ListIDsByParticipants(dbc, usernames)
	if err != nil {
		s.log.Warn("list chats by participants failed; returning empty", "usernames", usernames, "error", err)
		return []*types.Chat{}
	}
	chats, err := s.chats.GetByIDs(dbc, ids)
	if err != nil {
		s.log.Warn("load chats failed; returning empty", "usernames", usernames, "error", err)
		return []*types.Chat{}
	}
	if chats == nil {
		return []*types.Chat{}
	}
	return chats
}

func (s *chatService) AddParticipant(dbc dbctx.Context, chatID uuid.UUID, username string) (*types.Chat, bool, error) {
	const op = "add_participant"
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, errs.Validation(op, "username is required")
	}

	missing, err := s.users.MissingUsernames(dbc, []string{username})
	if err != nil {
		return nil, false, errs.Persistence(op, err)
	}
	if len(missing) > 0 {
		return nil, false, errs.UserNotFound(op, missing...)
	}

	var (
		out   *types.Chat
		added bool
	)
	err = s.transaction(dbc).Transaction(func(txx *gorm.DB) error {
		repoCtx := dbctx.Context{Ctx: dbc.Ctx, Tx: txx}
		ok, err := s.chats.Exists(repoCtx, chatID)
		if err != nil {
			return err
		}
		if !ok {
			return errs.ChatNotFound(op, chatID)
		}
		if added, err = s.chats.AddParticipant(repoCtx, chatID, username); err != nil {
			return err
		}
		out, err = s.chats.GetByID(repoCtx, chatID)
		return err
	})
	if err != nil {
		return nil, false, asServiceError(op, err)
	}
	if added {
		s.log.Debug("participant added", "chatID", chatID, "username", username)
	}
	return out, added, nil
}

func (s *chatService) IsParticipant(dbc dbctx.Context, chatID uuid.UUID, username string) (bool, error) {
	ok, err := s.chats.IsParticipant(dbc, chatID, strings.TrimSpace(username))
	if err != nil {
		return false, errs.Persistence("is_participant", err)
	}
	return ok, nil
}

func (s *chatService) AddMessage(dbc dbctx.Context, chatID uuid.UUID, msg *types.Message, idempotencyKey string) (*types.Chat, bool, error) {
	const op = "add_message"
	if msg == nil {
		return nil, false, errs.Validation(op, "message is required")
	}
	msg.SenderUsername = strings.TrimSpace(msg.SenderUsername)
	if msg.SenderUsername == "" || strings.TrimSpace(msg.Body) == "" {
		return nil, false, errs.Validation(op, "msg and msgFrom are required")
	}

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if len(idempotencyKey) > 200 {
		return nil, false, errs.Validation(op, "idempotency key too long")
	}
	claimKey := ""
	if idempotencyKey != "" && s.idem != nil {
		claimKey = chatID.String() + ":" + idempotencyKey
		claimed, err := s.idem.Claim(dbc.Ctx, claimKey, msg.SenderUsername, s.idemTTL)
		if err != nil {
			// Claim failures degrade to an unkeyed write.
			s.log.Warn("idempotency claim failed", "chatID", chatID, "error", err)
			claimKey = ""
		} else if !claimed {
			c, err := s.GetChat(dbc, chatID)
			if err != nil {
				return nil, false, err
			}
			s.log.Debug("duplicate message submission skipped", "chatID", chatID)
			return c, false, nil
		}
	}

	msg.ID = uuid.Nil
	msg.ApplyDefaults(s.now())

	var out *types.Chat
	err := s.retryAppend(chatID, func() error {
		return s.transaction(dbc).Transaction(func(txx *gorm.DB) error {
			repoCtx := dbctx.Context{Ctx: dbc.Ctx, Tx: txx}
			if _, err := s.messages.Create(repoCtx, []*types.Message{msg}); err != nil {
				return err
			}
			c, err := s.appendLocked(repoCtx, op, chatID, msg.ID)
			out = c
			return err
		})
	})
	if err != nil {
		if claimKey != "" {
			if rerr := s.idem.Release(dbc.Ctx, claimKey); rerr != nil {
				s.log.Warn("idempotency release failed", "chatID", chatID, "error", rerr)
			}
		}
		return nil, false, asServiceError(op, err)
	}
	return out, true, nil
}

const maxAppendAttempts = 3

// retryAppend reruns fn when a concurrent append took the same sequence
// number. Order between racing appends is whichever commits first.
func (s *chatService) retryAppend(chatID uuid.UUID, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		err = fn()
		if !repos.IsUniqueViolation(err) {
			return err
		}
		s.log.Debug("append raced; retrying", "chatID", chatID, "attempt", attempt)
	}
	return err
}

func (s *chatService) transaction(dbc dbctx.Context) *gorm.DB {
	return dbc.DB(s.db)
}

// asServiceError passes typed service errors through and wraps anything else
// as a persistence failure.
func asServiceError(op string, err error) error {
	var typed *errs.Error
	if errors.As(err, &typed) {
		return typed
	}
	return errs.Persistence(op, err)
}

func normalizeUsernames(in []string) []string {
	trimmed := lo.Map(in, func(s string, _ int) string { return strings.TrimSpace(s) })
	return lo.Uniq(lo.Compact(trimmed))
}
