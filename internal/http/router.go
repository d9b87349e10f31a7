package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/directchat-backend/internal/http/handlers"
	httpMW "github.com/yungbote/directchat-backend/internal/http/middleware"
	"github.com/yungbote/directchat-backend/internal/observability"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AllowedOrigins []string
	// Metrics enables request metrics and GET /metrics when set.
	Metrics *observability.Metrics

	SessionMiddleware *httpMW.SessionMiddleware

	HealthHandler   *httpH.HealthHandler
	ChatHandler     *httpH.ChatHandler
	UserHandler     *httpH.UserHandler
	RealtimeHandler *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	httpH.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.SessionMiddleware != nil {
		api.Use(cfg.SessionMiddleware.Attach())
	}

	// Chat
	if cfg.ChatHandler != nil {
		chat := api.Group("/chat")
		chat.POST("/createChat", cfg.ChatHandler.CreateChat)
		chat.GET("/getChatsByUser/:username", cfg.ChatHandler.GetChatsByUser)
		chat.GET("/:chatId", cfg.ChatHandler.GetChat)
		chat.POST("/:chatId/addMessage", cfg.ChatHandler.AddMessage)
		chat.POST("/:chatId/addParticipant", cfg.ChatHandler.AddParticipant)
	}

	// Users
	if cfg.UserHandler != nil {
		api.POST("/users", cfg.UserHandler.Upsert)
		api.POST("/users/login", cfg.UserHandler.Login)
		if cfg.SessionMiddleware != nil {
			api.GET("/users/me", cfg.SessionMiddleware.RequireSession(), cfg.UserHandler.Me)
		}
	}

	// Realtime
	if cfg.RealtimeHandler != nil {
		rt := api.Group("/realtime")
		if cfg.SessionMiddleware != nil {
			rt.Use(cfg.SessionMiddleware.RequireSession())
		}
		rt.GET("/ws", cfg.RealtimeHandler.WebSocket)
		rt.GET("/stream", cfg.RealtimeHandler.SSEStream)
		rt.POST("/join", cfg.RealtimeHandler.SSEJoin)
		rt.POST("/leave", cfg.RealtimeHandler.SSELeave)
	}

	return r
}
