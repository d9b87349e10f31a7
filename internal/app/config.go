package app

import (
	"fmt"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/yungbote/directchat-backend/internal/data/db"
	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

type Config struct {
	Port    int    `env:"PORT,default=8080"`
	LogMode string `env:"LOG_MODE,default=development"`

	DBDriver         string `env:"DB_DRIVER,default=sqlite"`
	SQLitePath       string `env:"SQLITE_PATH,default=chat.db"`
	PostgresHost     string `env:"POSTGRES_HOST,default=localhost"`
	PostgresPort     string `env:"POSTGRES_PORT,default=5432"`
	PostgresUser     string `env:"POSTGRES_USER,default=postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresName     string `env:"POSTGRES_NAME,default=directchat"`

	// RedisAddr selects the redis idempotency store; empty keeps keys in memory.
	RedisAddr      string        `env:"REDIS_ADDR"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL,default=24h"`

	JWTSecretKey   string        `env:"JWT_SECRET_KEY"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL,default=24h"`
	AuthRequired   bool          `env:"AUTH_REQUIRED,default=false"`

	// AllowedOriginsRaw is a comma separated list.
	AllowedOriginsRaw string `env:"ALLOWED_ORIGINS"`
	OutboundBuffer    int    `env:"REALTIME_OUTBOUND_BUFFER,default=32"`

	MetricsEnabled        bool          `env:"METRICS_ENABLED,default=false"`
	MetricsScrapeInterval time.Duration `env:"METRICS_SCRAPE_INTERVAL,default=15s"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if cfg.AuthRequired && cfg.JWTSecretKey == "" {
		return Config{}, fmt.Errorf("config error: AUTH_REQUIRED needs JWT_SECRET_KEY")
	}
	return cfg, nil
}

func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func (c Config) AllowedOrigins() []string {
	parts := lo.Map(strings.Split(c.AllowedOriginsRaw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(parts)
}

func (c Config) DBOptions() db.Options {
	return db.Options{
		Driver:           c.DBDriver,
		SQLitePath:       c.SQLitePath,
		PostgresHost:     c.PostgresHost,
		PostgresPort:     c.PostgresPort,
		PostgresUser:     c.PostgresUser,
		PostgresPassword: c.PostgresPassword,
		PostgresName:     c.PostgresName,
	}
}

// Log writes the effective settings without secrets.
func (c Config) Log(log *logger.Logger) {
	log.Info("Config loaded",
		"port", c.Port,
		"dbDriver", c.DBDriver,
		"redis", c.RedisAddr != "",
		"idempotencyTTL", c.IdempotencyTTL.String(),
		"authRequired", c.AuthRequired,
		"tokens", c.JWTSecretKey != "",
		"allowedOrigins", c.AllowedOrigins(),
		"metrics", c.MetricsEnabled,
	)
}
