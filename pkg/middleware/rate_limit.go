package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/enigmAsad/ticketing-service/internal/metrics"
	"github.com/enigmAsad/ticketing-service/pkg/logger"
	pkgredis "github.com/enigmAsad/ticketing-service/pkg/redis"
	"github.com/enigmAsad/ticketing-service/pkg/response"
	"github.com/enigmAsad/ticketing-service/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 60 * time.Second

// Decision is the outcome of a single rate limit check
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter decides whether a client may make another request
type RateLimiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// SlidingWindowLimiter keeps a log of request timestamps per client and
// admits a request when fewer than max fall inside the trailing window.
type SlidingWindowLimiter struct {
	mu              sync.Mutex
	max             int
	window          time.Duration
	buckets         map[string][]time.Time
	cleanupInterval time.Duration
	lastCleanup     time.Time
	now             func() time.Time
}

// NewSlidingWindowLimiter creates an in-memory limiter
func NewSlidingWindowLimiter(max int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		max:             max,
		window:          window,
		buckets:         make(map[string][]time.Time),
		cleanupInterval: defaultCleanupInterval,
		now:             time.Now,
	}
}

// Allow records a request for key if it fits in the window
func (l *SlidingWindowLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	if now.Sub(l.lastCleanup) >= l.cleanupInterval {
		l.evictStale(cutoff)
		l.lastCleanup = now
	}

	hits := trimBefore(l.buckets[key], cutoff)

	if len(hits) >= l.max {
		l.buckets[key] = hits
		retryAfter := time.Duration(0)
		if len(hits) > 0 {
			retryAfter = hits[0].Add(l.window).Sub(now)
		}
		return Decision{Allowed: false, Limit: l.max, Remaining: 0, RetryAfter: retryAfter}, nil
	}

	hits = append(hits, now)
	l.buckets[key] = hits
	return Decision{Allowed: true, Limit: l.max, Remaining: l.max - len(hits)}, nil
}

// Len returns the number of clients currently tracked
func (l *SlidingWindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// evictStale drops clients whose whole log is older than cutoff.
// Caller holds mu.
func (l *SlidingWindowLimiter) evictStale(cutoff time.Time) {
	for key, hits := range l.buckets {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// trimBefore drops the leading timestamps at or before cutoff; hits is sorted.
func trimBefore(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return hits
	}
	return append(hits[:0:0], hits[i:]...)
}

// fixedWindowScript increments the counter for the current window and sets
// its expiry on first use. Returns {count, pttl}.
const fixedWindowScript = `
local current = redis.call('INCR', KEYS[1])
if current == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {current, ttl}
`

// RedisFixedWindowLimiter shares a per-client counter across replicas
type RedisFixedWindowLimiter struct {
	client *pkgredis.Client
	max    int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisFixedWindowLimiter creates a Redis-backed limiter
func NewRedisFixedWindowLimiter(client *pkgredis.Client, max int, window time.Duration) *RedisFixedWindowLimiter {
	return &RedisFixedWindowLimiter{
		client: client,
		max:    max,
		window: window,
		prefix: "ratelimit:",
		now:    time.Now,
	}
}

// Allow increments the client's counter for the current window
func (l *RedisFixedWindowLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	windowMs := l.window.Milliseconds()
	if windowMs <= 0 {
		windowMs = 1
	}
	slot := l.now().UnixMilli() / windowMs
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, key, slot)

	vals, err := l.client.EvalWithFallback(ctx, "rate_limit", fixedWindowScript, []string{redisKey}, windowMs).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(vals) != 2 {
		return Decision{}, fmt.Errorf("rate limit script: unexpected reply %v", vals)
	}

	count, ttl := int(vals[0]), time.Duration(vals[1])*time.Millisecond
	if count > l.max {
		return Decision{Allowed: false, Limit: l.max, RetryAfter: ttl}, nil
	}
	return Decision{Allowed: true, Limit: l.max, Remaining: l.max - count}, nil
}

// RateLimit rejects clients that exceed the limiter with 429.
// Limiter errors let the request through.
func RateLimit(limiter RateLimiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), "middleware.rate_limit")
		defer span.End()

		clientIP := c.ClientIP()
		decision, err := limiter.Allow(ctx, clientIP)
		if err != nil {
			log.Warn("Rate limiter unavailable, allowing request",
				zap.String("request_id", GetRequestID(c)),
				zap.String("ip", clientIP),
				zap.Error(err),
			)
			c.Next()
			return
		}

		span.SetAttributes(
			attribute.Bool("rate_limit.allowed", decision.Allowed),
			attribute.Int("rate_limit.remaining", decision.Remaining),
		)

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			metrics.RecordRateLimited()
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(decision.RetryAfter)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				response.Error(response.CodeRateLimited, "Rate limit exceeded."))
			return
		}

		c.Next()
	}
}

func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
