package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/pkg/response"
)

// RateLimiter applies a fixed-window per-IP limit. With a Redis client the
// window is shared across instances; without one, or when Redis errors, it
// falls back to an in-process counter so the limit keeps working.
type RateLimiter struct {
	client *redis.Client
	logger *zap.Logger
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows map[string]*localWindow
}

type localWindow struct {
	count int
	reset time.Time
}

// NewRateLimiter creates a rate limiter. client may be nil.
func NewRateLimiter(client *redis.Client, logger *zap.Logger, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client:  client,
		logger:  logger,
		limit:   limit,
		window:  window,
		windows: make(map[string]*localWindow),
	}
}

// Middleware returns the gin handler enforcing the limit.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.Request.Context(), c.ClientIP()) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(l.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Error("too many requests"))
			return
		}
		c.Next()
	}
}

func (l *RateLimiter) allow(ctx context.Context, ip string) bool {
	if l.client != nil {
		key := "ratelimit:" + ip
		count, err := l.client.Incr(ctx, key).Result()
		if err == nil {
			if count == 1 {
				l.client.Expire(ctx, key, l.window)
			}
			return count <= int64(l.limit)
		}
		l.logger.Warn("rate limiter falling back to local counter", zap.Error(err))
	}
	return l.allowLocal(ip)
}

func (l *RateLimiter) allowLocal(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[ip]
	if !ok || now.After(w.reset) {
		l.windows[ip] = &localWindow{count: 1, reset: now.Add(l.window)}
		return true
	}
	w.count++
	return w.count <= l.limit
}
