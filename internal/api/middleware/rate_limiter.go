package middleware

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/project-hub/pkg/logger"
)

// RateLimiterConfig содержит настройки ограничителя запросов
type RateLimiterConfig struct {
	// Максимальное количество запросов за период
	Limit int
	// Период ограничения
	Period time.Duration
}

// RateLimiter ограничивает частоту запросов по IP и актору.
// Счетчики хранятся в Redis; без Redis используется in-memory запас.
type RateLimiter struct {
	config  RateLimiterConfig
	redis   *redis.Client
	logger  logger.Logger
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter создает новый экземпляр RateLimiter.
// redisClient может быть nil, тогда счетчики ведутся в памяти процесса.
func NewRateLimiter(config RateLimiterConfig, redisClient *redis.Client, log logger.Logger) *RateLimiter {
	return &RateLimiter{
		config:  config,
		redis:   redisClient,
		logger:  log,
		buckets: make(map[string]*bucket),
	}
}

// Limit применяет ограничение частоты запросов
func (m *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := m.key(r)

		allowed, err := m.allow(r, key)
		if err != nil {
			m.logger.Warn("rate limiter check failed", "key", key, "error", err.Error())
			// При недоступном хранилище счетчиков запрос пропускается
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(m.config.Period.Seconds())))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimiter) key(r *http.Request) string {
	if actor, ok := ActorFromContext(r.Context()); ok {
		return "ratelimit:user:" + actor.ID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ratelimit:ip:" + host
}

func (m *RateLimiter) allow(r *http.Request, key string) (bool, error) {
	if m.redis == nil {
		return m.allowInMemory(key), nil
	}

	ctx := r.Context()
	count, err := m.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := m.redis.Expire(ctx, key, m.config.Period).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(m.config.Limit), nil
}

func (m *RateLimiter) allowInMemory(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	b, ok := m.buckets[key]
	if !ok || now.After(b.resetAt) {
		m.buckets[key] = &bucket{count: 1, resetAt: now.Add(m.config.Period)}
		return true
	}
	b.count++
	return b.count <= m.config.Limit
}
