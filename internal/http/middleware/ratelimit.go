package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"taskboard/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// KeyFunc picks the identity a limit applies to.
type KeyFunc func(c *gin.Context) string

func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// ByPrincipal keys on the authenticated user and falls back to the client IP.
// Auth must run first.
func ByPrincipal(c *gin.Context) string {
	if p, ok := PrincipalFrom(c); ok {
		return "user:" + p.ID
	}
	return c.ClientIP()
}

type localClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter counts requests in Redis when a client is configured, and in
// process otherwise. Redis errors fail open.
type RateLimiter struct {
	redis *redis.Client

	mu        sync.Mutex
	local     map[string]*localClient
	lastSweep time.Time
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{
		redis:     client,
		local:     make(map[string]*localClient),
		lastSweep: time.Now(),
	}
}

// Limit allows max requests per window for each key within scope. A
// non-positive max disables the limit.
func (l *RateLimiter) Limit(scope string, max int, window time.Duration, key KeyFunc) gin.HandlerFunc {
	if max <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		id := scope + ":" + key(c)

		var allowed bool
		if l.redis != nil {
			var err error
			allowed, err = l.allowRedis(c.Request.Context(), id, max, window)
			if err != nil {
				logger.WithContext(c.Request.Context()).Warn("rate limiter redis error", "error", err)
				c.Header("X-RateLimit-Error", "redis-error")
				c.Next()
				return
			}
		} else {
			allowed = l.allowLocal(id, max, window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		if !allowed {
			RLBlocked.WithLabelValues(scope).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":     "Too many requests",
				"error":       "rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(scope).Inc()
		c.Next()
	}
}

// allowRedis is a fixed window: INCR, and EXPIRE on the first hit.
// key format: rl:<window_seconds>:<scope>:<identity>
func (l *RateLimiter) allowRedis(ctx context.Context, id string, max int, window time.Duration) (bool, error) {
	key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + id
	val, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if val == 1 {
		l.redis.Expire(ctx, key, window)
	}
	return val <= int64(max), nil
}

// allowLocal uses a token bucket refilling max tokens per window.
func (l *RateLimiter) allowLocal(id string, max int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > time.Minute {
		for k, cl := range l.local {
			if now.Sub(cl.lastSeen) > 3*time.Minute && now.Sub(cl.lastSeen) > window {
				delete(l.local, k)
			}
		}
		l.lastSweep = now
	}

	cl, ok := l.local[id]
	if !ok {
		cl = &localClient{
			limiter: rate.NewLimiter(rate.Every(window/time.Duration(max)), max),
		}
		l.local[id] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}
