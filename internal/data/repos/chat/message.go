package chat

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	types "github.com/yungbote/directchat-backend/internal/domain"
	"github.com/yungbote/directchat-backend/internal/pkg/dbctx"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

type MessageRepo interface {
	Create(dbc dbctx.Context, rows []*types.Message) ([]*types.Message, error)
	// GetByIDs returns found messages in the order of ids. Missing ids are skipped.
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Message, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: log.With("repo", "MessageRepo")}
}

func (r *messageRepo) Create(dbc dbctx.Context, rows []*types.Message) ([]*types.Message, error) {
	if len(rows) == 0 {
		return []*types.Message{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *messageRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Message, error) {
	var rows []*types.Message
	if len(ids) == 0 {
		return rows, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", lo.Uniq(ids)).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := lo.KeyBy(rows, func(m *types.Message) uuid.UUID { return m.ID })
	out := make([]*types.Message, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}
