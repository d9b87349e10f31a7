package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/directchat-backend/internal/http"
	httpH "github.com/yungbote/directchat-backend/internal/http/handlers"
	httpMW "github.com/yungbote/directchat-backend/internal/http/middleware"
	"github.com/yungbote/directchat-backend/internal/observability"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
	"github.com/yungbote/directchat-backend/internal/realtime"
)

type Middleware struct {
	Session *httpMW.SessionMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Chat     *httpH.ChatHandler
	User     *httpH.UserHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, cfg Config, services Services, hub *realtime.Hub, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(map[string]httpH.Pinger{
			"db": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		}),
		Chat: httpH.NewChatHandler(httpH.ChatHandlerDeps{
			Log:      log,
			Chat:     services.Chat,
			Populate: services.Populate,
			Notify:   services.Notify,
		}),
		User: httpH.NewUserHandler(httpH.UserHandlerDeps{
			Log:       log,
			Users:     services.User,
			JWTSecret: cfg.JWTSecretKey,
			TokenTTL:  cfg.AccessTokenTTL,
		}),
		Realtime: httpH.NewRealtimeHandler(httpH.RealtimeHandlerDeps{
			Log:            log,
			Hub:            hub,
			Chat:           services.Chat,
			Metrics:        metrics,
			AllowedOrigins: cfg.AllowedOrigins(),
		}),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Session: httpMW.NewSessionMiddleware(log, cfg.JWTSecretKey, cfg.AuthRequired),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		AllowedOrigins:    cfg.AllowedOrigins(),
		Metrics:           metrics,
		SessionMiddleware: middleware.Session,
		HealthHandler:     handlers.Health,
		ChatHandler:       handlers.Chat,
		UserHandler:       handlers.User,
		RealtimeHandler:   handlers.Realtime,
	})
}
