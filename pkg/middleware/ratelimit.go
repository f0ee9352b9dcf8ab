package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"appointment-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter counts hits for key in the current fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects clients over the limit with 429. Limiter errors let the request through.
func RateLimit(limiter Limiter, prefix string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := prefix + ":" + clientIP(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("Rate limiter unavailable, allowing request",
					zap.Error(err),
					zap.String("key", key))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				logger.Warn("Rate limit exceeded",
					zap.String("key", key),
					zap.String("path", r.URL.Path))
				utils.ResponseTooManyRequests(w, "Rate limit exceeded, try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ==================== IN-MEMORY ====================

type MemoryLimiter struct {
	limit    int
	window   time.Duration
	now      func() time.Time
	mu       sync.Mutex
	visitors map[string]*visitor
}

type visitor struct {
	count     int
	resetTime time.Time
}

// NewMemoryLimiter is used when Redis is not configured; counts are per process.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	limit, window = normalizeLimit(limit, window)
	return &MemoryLimiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		visitors: map[string]*visitor{},
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v := l.visitors[key]
	if v == nil || !now.Before(v.resetTime) {
		l.sweep(now)
		l.visitors[key] = &visitor{count: 1, resetTime: now.Add(l.window)}
		return true, nil
	}

	if v.count >= l.limit {
		return false, nil
	}
	v.count++
	return true, nil
}

// sweep drops expired windows so the map does not grow with every client seen.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, v := range l.visitors {
		if !now.Before(v.resetTime) {
			delete(l.visitors, key)
		}
	}
}

// ==================== REDIS ====================

type RedisLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

const fixedWindowSource = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`

var fixedWindowScript = redis.NewScript(fixedWindowSource)

// NewRedisLimiter shares counters across every instance pointing at the same Redis.
func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisLimiter {
	limit, window = normalizeLimit(limit, window)
	return &RedisLimiter{rdb: rdb, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{key}, l.window.Milliseconds()).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr %s: %w", key, err)
	}

	count, err := scriptCount(res)
	if err != nil {
		return false, err
	}
	return count <= int64(l.limit), nil
}

// scriptCount reads the INCR result, which arrives as an integer reply or, through some proxies, a string.
func scriptCount(res any) (int64, error) {
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		count, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("rate limit parse %q: %w", v, err)
		}
		return count, nil
	default:
		return 0, fmt.Errorf("unexpected rate limit result type %T", res)
	}
}

func normalizeLimit(limit int, window time.Duration) (int, time.Duration) {
	if limit <= 0 {
		limit = 20
	}
	if window <= 0 {
		window = time.Minute
	}
	return limit, window
}

// clientIP prefers the address resolved by RealIP and falls back to the direct peer.
func clientIP(r *http.Request) string {
	if ip, ok := utils.GetClientIPFromContext(r.Context()); ok {
		return ip
	}
	return remoteHost(r.RemoteAddr)
}
