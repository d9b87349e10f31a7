package chat

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/directchat-backend/internal/domain"
	"github.com/yungbote/directchat-backend/internal/pkg/dbctx"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

type ChatRepo interface {
	// Create writes the chat row with participants in the given order and
	// links messageIDs as the initial sequence.
	Create(dbc dbctx.Context, chat *types.Chat, participants []string, messageIDs []uuid.UUID) (*types.Chat, error)
	// GetByID returns nil, nil when the chat does not exist.
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chat, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Chat, error)
	AppendMessage(dbc dbctx.Context, chatID, messageID uuid.UUID) error
	// AddParticipant reports whether username was newly added.
	AddParticipant(dbc dbctx.Context, chatID uuid.UUID, username string) (bool, error)
	// ListIDsByParticipants returns ids of chats whose participants include
	// every username, oldest first.
	ListIDsByParticipants(dbc dbctx.Context, usernames []string) ([]uuid.UUID, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
	IsParticipant(dbc dbctx.Context, chatID uuid.UUID, username string) (bool, error)
}

type chatRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatRepo(db *gorm.DB, log *logger.Logger) ChatRepo {
	return &chatRepo{db: db, log: log.With("repo", "ChatRepo")}
}

func (r *chatRepo) Create(dbc dbctx.Context, chat *types.Chat, participants []string, messageIDs []uuid.UUID) (*types.Chat, error) {
	txx := dbc.DB(r.db)
	if chat == nil {
		chat = &types.Chat{}
	}
	if err := txx.Create(chat).Error; err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	participants = lo.Uniq(participants)
	if len(participants) > 0 {
		rows := make([]*types.ChatParticipant, 0, len(participants))
		for i, p := range participants {
			rows = append(rows, &types.ChatParticipant{ChatID: chat.ID, Username: p, Position: i, CreatedAt: now})
		}
		if err := txx.Create(&rows).Error; err != nil {
			return nil, err
		}
	}
	if len(messageIDs) > 0 {
		links := make([]*types.ChatMessage, 0, len(messageIDs))
		for i, id := range messageIDs {
			links = append(links, &types.ChatMessage{ChatID: chat.ID, Seq: int64(i + 1), MessageID: id, CreatedAt: now})
		}
		if err := txx.Create(&links).Error; err != nil {
			return nil, err
		}
	}

	chat.Participants = participants
	chat.Messages = append([]uuid.UUID{}, messageIDs...)
	return chat, nil
}

func (r *chatRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chat, error) {
	chats, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return nil, nil
	}
	return chats[0], nil
}

func (r *chatRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Chat, error) {
	var chats []*types.Chat
	if len(ids) == 0 {
		return chats, nil
	}
	txx := dbc.DB(r.db)
	if err := txx.Where("id IN ?", ids).Find(&chats).Error; err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return chats, nil
	}

	found := lo.Map(chats, func(c *types.Chat, _ int) uuid.UUID { return c.ID })

	var members []*types.ChatParticipant
	if err := txx.Where("chat_id IN ?", found).
		Order("chat_id, position ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	var links []*types.ChatMessage
	if err := txx.Where("chat_id IN ?", found).
		Order("chat_id, seq ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}

	membersByChat := lo.GroupBy(members, func(m *types.ChatParticipant) uuid.UUID { return m.ChatID })
	linksByChat := lo.GroupBy(links, func(l *types.ChatMessage) uuid.UUID { return l.ChatID })
	byID := make(map[uuid.UUID]*types.Chat, len(chats))
	for _, c := range chats {
		c.Participants = lo.Map(membersByChat[c.ID], func(m *types.ChatParticipant, _ int) string { return m.Username })
		c.Messages = lo.Map(linksByChat[c.ID], func(l *types.ChatMessage, _ int) uuid.UUID { return l.MessageID })
		byID[c.ID] = c
	}

	// Preserve the caller's id order.
	out := make([]*types.Chat, 0, len(chats))
	for _, id := range lo.Uniq(ids) {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *chatRepo) AppendMessage(dbc dbctx.Context, chatID, messageID uuid.UUID) error {
	txx := dbc.DB(r.db)
	var maxSeq int64
	if err := txx.Model(&types.ChatMessage{}).
		Where("chat_id = ?", chatID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq).Error; err != nil {
		return err
	}
	link := &types.ChatMessage{
		ChatID:    chatID,
		Seq:       maxSeq + 1,
		MessageID: messageID,
		CreatedAt: time.Now().UTC(),
	}
	if err := txx.Create(link).Error; err != nil {
		return err
	}
	return r.touch(txx, chatID)
}

func (r *chatRepo) AddParticipant(dbc dbctx.Context, chatID uuid.UUID, username string) (bool, error) {
	txx := dbc.DB(r.db)
	var maxPos int
	if err := txx.Model(&types.ChatParticipant{}).
		Where("chat_id = ?", chatID).
		Select("COALESCE(MAX(position), -1)").
		Scan(&maxPos).Error; err != nil {
		return false, err
	}
	row := &types.ChatParticipant{
		ChatID:    chatID,
		Username:  username,
		Position:  maxPos + 1,
		CreatedAt: time.Now().UTC(),
	}
	res := txx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, r.touch(txx, chatID)
}

func (r *chatRepo) ListIDsByParticipants(dbc dbctx.Context, usernames []string) ([]uuid.UUID, error) {
	usernames = lo.Uniq(usernames)
	if len(usernames) == 0 {
		return []uuid.UUID{}, nil
	}
	var ids []uuid.UUID
	err := dbc.DB(r.db).
		Table("chat_participant").
		Select("chat_participant.chat_id").
		Joins("JOIN chat ON chat.id = chat_participant.chat_id").
		Where("chat_participant.username IN ?", usernames).
		Group("chat_participant.chat_id, chat.created_at").
		Having("COUNT(DISTINCT chat_participant.username) = ?", len(usernames)).
		Order("chat.created_at ASC").
		Pluck("chat_participant.chat_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *chatRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Chat{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *chatRepo) IsParticipant(dbc dbctx.Context, chatID uuid.UUID, username string) (bool, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.ChatParticipant{}).
		Where("chat_id = ? AND username = ?", chatID, username).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *chatRepo) touch(txx *gorm.DB, chatID uuid.UUID) error {
	return txx.Model(&types.Chat{}).
		Where("id = ?", chatID).
		UpdateColumn("updated_at", time.Now().UTC()).Error
}
