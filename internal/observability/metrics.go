// Package observability exposes request, realtime and store metrics in the
// Prometheus text format.
package observability

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

const DefaultScrapeInterval = 15 * time.Second

// Methods on a nil *Metrics are no-ops.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *GaugeVec

	published  *CounterVec
	deliveries *CounterVec
	unheard    *CounterVec
	wsClients  *GaugeVec

	dbPool    *GaugeVec
	redisUp   *GaugeVec
	redisPing *GaugeVec

	all []collector
}

func New() *Metrics {
	m := &Metrics{
		apiRequests: NewCounterVec("directchat_api_requests_total", "HTTP requests by route and status.", []string{"method", "route", "status"}),
		apiLatency:  NewHistogramVec("directchat_api_request_duration_seconds", "HTTP request latency.", []string{"method", "route"}, nil),
		apiInflight: NewGauge("directchat_api_inflight_requests", "HTTP requests being served."),
		published:   NewCounterVec("directchat_realtime_published_total", "Chat updates published by event.", []string{"event"}),
		deliveries:  NewCounterVec("directchat_realtime_deliveries_total", "Chat updates queued to subscribers.", []string{"event"}),
		unheard:     NewCounterVec("directchat_realtime_unheard_total", "Chat updates published to a topic with no subscribers.", []string{"event"}),
		wsClients:   NewGauge("directchat_realtime_connections", "Open realtime connections."),
		dbPool:      NewGaugeVec("directchat_db_pool", "database/sql pool stats.", []string{"stat"}),
		redisUp:     NewGauge("directchat_redis_up", "1 when the last redis ping succeeded."),
		redisPing:   NewGauge("directchat_redis_ping_seconds", "Latency of the last redis ping."),
	}
	m.all = []collector{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.published, m.deliveries, m.unheard, m.wsClients,
		m.dbPool, m.redisUp, m.redisPing,
	}
	return m
}

func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_ = m.WritePrometheus(w)
	})
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range m.all {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.Inc(strings.ToUpper(method), route, status)
	m.apiLatency.Observe(dur.Seconds(), strings.ToUpper(method), route)
}

func (m *Metrics) APIInflight(delta float64) {
	if m == nil {
		return
	}
	m.apiInflight.Add(delta)
}

// ObservePublish records one published chat update and how many subscribers
// it was queued to.
func (m *Metrics) ObservePublish(event string, delivered int) {
	if m == nil {
		return
	}
	m.published.Inc(event)
	if delivered == 0 {
		m.unheard.Inc(event)
		return
	}
	m.deliveries.Add(float64(delivered), event)
}

func (m *Metrics) RealtimeConnection(delta float64) {
	if m == nil {
		return
	}
	m.wsClients.Add(delta)
}

// StartDBCollector samples the pool stats of db until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if log == nil {
		log = logger.Nop()
	}
	go tick(ctx, interval, func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Warn("metrics: db stats unavailable", "error", err)
			return
		}
		m.recordPool(sqlDBStats(sqlDB.Stats()))
	})
}

// StartRedisCollector pings addr with its own client until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string, interval time.Duration) {
	addr = strings.TrimSpace(addr)
	if m == nil || addr == "" {
		return
	}
	if log == nil {
		log = logger.Nop()
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		defer rdb.Close()
		tick(ctx, interval, func() {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			start := time.Now()
			if err := rdb.Ping(pingCtx).Err(); err != nil {
				m.redisUp.Set(0)
				if ctx.Err() == nil {
					log.Warn("metrics: redis ping failed", "error", err)
				}
				return
			}
			m.redisUp.Set(1)
			m.redisPing.Set(time.Since(start).Seconds())
		})
	}()
}

func sqlDBStats(s sql.DBStats) map[string]float64 {
	return map[string]float64{
		"open_connections":      float64(s.OpenConnections),
		"in_use":                float64(s.InUse),
		"idle":                  float64(s.Idle),
		"wait_count":            float64(s.WaitCount),
		"wait_duration_seconds": s.WaitDuration.Seconds(),
		"max_open_connections":  float64(s.MaxOpenConnections),
	}
}

func (m *Metrics) recordPool(stats map[string]float64) {
	for k, v := range stats {
		m.dbPool.Set(v, k)
	}
}

func tick(ctx context.Context, interval time.Duration, fn func()) {
	if interval <= 0 {
		interval = DefaultScrapeInterval
	}
	fn()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn()
		}
	}
}
