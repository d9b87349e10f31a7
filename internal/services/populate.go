//go:generate go run go.uber.org/mock/mockgen -source=populate.go -destination=mocks/mock_populate.go -package=mocks

package services

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/directchat-backend/internal/data/repos"
	types "github.com/yungbote/directchat-backend/internal/domain"
	"github.com/yungbote/directchat-backend/internal/pkg/dbctx"
	errs "github.com/yungbote/directchat-backend/internal/pkg/errors"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

type PopulateKind string

const (
	KindChat    PopulateKind = "chat"
	KindMessage PopulateKind = "message"
)

const populateConcurrency = 4

// Populator resolves stored references into the shapes clients render. It is
// read-only and reads through to storage on every call.
type Populator interface {
	// Populate dispatches on kind and returns *types.EnrichedChat or *types.Message.
	Populate(dbc dbctx.Context, id uuid.UUID, kind PopulateKind) (any, error)
	PopulateChat(dbc dbctx.Context, chat *types.Chat) (*types.EnrichedChat, error)
	PopulateChatByID(dbc dbctx.Context, chatID uuid.UUID) (*types.EnrichedChat, error)
	PopulateChats(dbc dbctx.Context, chats []*types.Chat) ([]*types.EnrichedChat, error)
	PopulateMessage(dbc dbctx.Context, messageID uuid.UUID) (*types.Message, error)
}

type populator struct {
	log      *logger.Logger
	users    repos.UserRepo
	chats    repos.ChatRepo
	messages repos.MessageRepo
}

func NewPopulator(baseLog *logger.Logger, userRepo repos.UserRepo, chatRepo repos.ChatRepo, messageRepo repos.MessageRepo) Populator {
	return &populator{
		log:      baseLog.With("service", "Populator"),
		users:    userRepo,
		chats:    chatRepo,
		messages: messageRepo,
	}
}

func (p *populator) Populate(dbc dbctx.Context, id uuid.UUID, kind PopulateKind) (any, error) {
	switch kind {
	case KindChat:
		return p.PopulateChatByID(dbc, id)
	case KindMessage:
		return p.PopulateMessage(dbc, id)
	default:
		return nil, errs.Validation("populate", "unknown kind %q", kind)
	}
}

func (p *populator) PopulateChatByID(dbc dbctx.Context, chatID uuid.UUID) (*types.EnrichedChat, error) {
	const op = "populate_chat"
	c, err := p.chats.GetByID(dbc, chatID)
	if err != nil {
		return nil, errs.Persistence(op, err)
	}
	if c == nil {
		return nil, errs.ChatNotFound(op, chatID)
	}
	return p.PopulateChat(dbc, c)
}

func (p *populator) PopulateChat(dbc dbctx.Context, chat *types.Chat) (*types.EnrichedChat, error) {
	const op = "populate_chat"
	if chat == nil {
		return nil, errs.NotFound(op, "chat is nil")
	}

	msgs, err := p.messages.GetByIDs(dbc, chat.Messages)
	if err != nil {
		return nil, errs.Persistence(op, err)
	}
	byID := lo.KeyBy(msgs, func(m *types.Message) uuid.UUID { return m.ID })
	ordered := make([]*types.Message, 0, len(chat.Messages))
	for _, id := range chat.Messages {
		m, ok := byID[id]
		if !ok {
			return nil, errs.NotFound(op, "message %s referenced by chat %s", id, chat.ID)
		}
		ordered = append(ordered, m)
	}

	users, err := p.users.GetByUsernames(dbc, chat.Participants)
	if err != nil {
		return nil, errs.Persistence(op, err)
	}
	usersByName := lo.KeyBy(users, func(u *types.User) string { return u.Username })
	participants := lo.Map(chat.Participants, func(name string, _ int) types.UserSummary {
		if u, ok := usersByName[name]; ok {
			return u.Summary()
		}
		return types.UserSummary{Username: name}
	})

	return &types.EnrichedChat{
		ID:           chat.ID,
		Participants: participants,
		Messages:     ordered,
		CreatedAt:    chat.CreatedAt,
		UpdatedAt:    chat.UpdatedAt,
	}, nil
}

// PopulateChats enriches chats in input order. Without a transaction the
// chats are loaded concurrently.
func (p *populator) PopulateChats(dbc dbctx.Context, chats []*types.Chat) ([]*types.EnrichedChat, error) {
	out := make([]*types.EnrichedChat, len(chats))
	if len(chats) == 0 {
		return out, nil
	}
	if dbc.Tx != nil {
		for i, c := range chats {
			ec, err := p.PopulateChat(dbc, c)
			if err != nil {
				return nil, err
			}
			out[i] = ec
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(dbctx.New(dbc.Ctx).Ctx)
	g.SetLimit(populateConcurrency)
	for i, c := range chats {
		i, c := i, c
		g.Go(func() error {
			ec, err := p.PopulateChat(dbctx.Context{Ctx: gctx}, c)
			if err != nil {
				return err
			}
			out[i] = ec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *populator) PopulateMessage(dbc dbctx.Context, messageID uuid.UUID) (*types.Message, error) {
	const op = "populate_message"
	rows, err := p.messages.GetByIDs(dbc, []uuid.UUID{messageID})
	if err != nil {
		return nil, errs.Persistence(op, err)
	}
	if len(rows) == 0 {
		return nil, errs.NotFound(op, "message %s", messageID)
	}
	return rows[0], nil
}
