package app

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/directchat-backend/internal/data/idempotency"
	"github.com/yungbote/directchat-backend/internal/observability"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
	"github.com/yungbote/directchat-backend/internal/realtime"
	"github.com/yungbote/directchat-backend/internal/services"
)

type Services struct {
	Chat     services.ChatService
	Populate services.Populator
	Notify   services.ChatNotifier
	User     services.UserService

	Idempotency idempotency.Store
}

func wireIdempotency(log *logger.Logger, cfg Config) (idempotency.Store, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		log.Info("Idempotency keys kept in memory")
		return idempotency.NewMemoryStore(), nil
	}
	store, err := idempotency.NewRedisStore(log, cfg.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("init redis idempotency store: %w", err)
	}
	return store, nil
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, hub *realtime.Hub, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	idem, err := wireIdempotency(log, cfg)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Chat:        services.NewChatService(db, log, reposet.User, reposet.Chat, reposet.Message, idem, cfg.IdempotencyTTL),
		Populate:    services.NewPopulator(log, reposet.User, reposet.Chat, reposet.Message),
		Notify:      services.NewChatNotifier(&services.HubEmitter{Hub: hub, Metrics: metrics}),
		User:        services.NewUserService(log, reposet.User),
		Idempotency: idem,
	}, nil
}
