package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/directchat-backend/internal/data/db"
	"github.com/yungbote/directchat-backend/internal/http"
	"github.com/yungbote/directchat-backend/internal/observability"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
	"github.com/yungbote/directchat-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Hub      *realtime.Hub
	Metrics  *observability.Metrics

	dbService      *db.Service
	server         *http.Server
	stopCollectors context.CancelFunc
}

func New() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.LogMode != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	cfg.Log(log)

	dbService, err := db.NewService(log, cfg.DBOptions())
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("db automigrate: %w", err)
	}
	theDB := dbService.DB()

	hub := realtime.NewHub(log, cfg.OutboundBuffer)
	reposet := wireRepos(theDB, log)

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.New()
	}

	serviceset, err := wireServices(theDB, log, cfg, reposet, hub, metrics)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(theDB, log, cfg, serviceset, hub, metrics)
	middleware := wireMiddleware(log, cfg)
	router := wireRouter(log, cfg, handlerset, middleware, metrics)

	collectCtx, stopCollectors := context.WithCancel(context.Background())
	metrics.StartDBCollector(collectCtx, log, theDB, cfg.MetricsScrapeInterval)
	metrics.StartRedisCollector(collectCtx, log, cfg.RedisAddr, cfg.MetricsScrapeInterval)

	return &App{
		Log:            log,
		DB:             theDB,
		Router:         router,
		Cfg:            cfg,
		Repos:          reposet,
		Services:       serviceset,
		Hub:            hub,
		Metrics:        metrics,
		dbService:      dbService,
		server:         &http.Server{Engine: router},
		stopCollectors: stopCollectors,
	}, nil
}

// Run serves until the listener fails or Shutdown is called.
func (a *App) Run() error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Listening", "addr", a.Cfg.Addr())
	return a.server.Run(a.Cfg.Addr())
}

// Shutdown drains in-flight requests, then releases the stores.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	err := a.server.Shutdown(ctx)
	a.Close()
	return err
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.stopCollectors != nil {
		a.stopCollectors()
		a.stopCollectors = nil
	}
	if a.Services.Idempotency != nil {
		if err := a.Services.Idempotency.Close(); err != nil {
			a.Log.Warn("idempotency store close failed", "error", err)
		}
		a.Services.Idempotency = nil
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("db close failed", "error", err)
		}
		a.dbService = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
