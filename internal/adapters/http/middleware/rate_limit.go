// Package middleware - Rate Limiting middleware.
//
// Protects against abuse and DDoS by capping the number of requests a
// caller can make in a time window. Ships with two backends:
// an in-memory token bucket (single instance only) and a Redis-backed
// fixed window counter for when the API runs behind multiple replicas.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig configures rate limiting.
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window
	Window time.Duration
	// KeyFunc determines the limiting key.
	// Defaults to the client IP address.
	KeyFunc func(*gin.Context) string
	// OnLimitReached is called when a request is rejected.
	OnLimitReached func(*gin.Context)
}

// DefaultRateLimitConfig returns the default rate limit configuration.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Limit:  100,
		Window: time.Minute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		OnLimitReached: nil,
	}
}

// limitStore is the storage backend a rate limiter counts against.
// allow reports whether the request at key is permitted, how many
// requests remain in the current window, and how long until the
// window resets.
type limitStore interface {
	allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, remaining int, retryAfter time.Duration, err error)
}

// ============================================
// In-memory token bucket store
// ============================================

// memoryStore holds rate limiter state in process memory. Each replica
// of the API tracks its own counters, so the effective limit scales
// with the number of replicas — fine for a single instance, not for a
// fleet behind a load balancer.
type memoryStore struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	window  time.Duration
}

// bucket is the token bucket for a single key.
type bucket struct {
	tokens    int
	lastReset time.Time
}

// newMemoryStore creates a new in-memory rate limit store and starts
// its background cleanup goroutine.
func newMemoryStore(window time.Duration) *memoryStore {
	s := &memoryStore{
		buckets: make(map[string]*bucket),
		window:  window,
	}
	go s.cleanup()
	return s
}

func (s *memoryStore) allow(_ context.Context, key string, limit int, window time.Duration) (bool, int, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	b, exists := s.buckets[key]

	if !exists {
		s.buckets[key] = &bucket{
			tokens:    limit - 1, // -1 for the current request
			lastReset: now,
		}
		return true, limit - 1, window, nil
	}

	// Reset the bucket once the window has elapsed
	if now.Sub(b.lastReset) >= window {
		b.tokens = limit - 1
		b.lastReset = now
		return true, b.tokens, window, nil
	}

	if b.tokens <= 0 {
		retryAfter := window - now.Sub(b.lastReset)
		return false, 0, retryAfter, nil
	}

	b.tokens--
	retryAfter := window - now.Sub(b.lastReset)
	return true, b.tokens, retryAfter, nil
}

// cleanup evicts buckets that have been idle for two windows.
func (s *memoryStore) cleanup() {
	ticker := time.NewTicker(s.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for key, b := range s.buckets {
			if now.Sub(b.lastReset) > s.window*2 {
				delete(s.buckets, key)
			}
		}
		s.mu.Unlock()
	}
}

// ============================================
// Redis-backed fixed window store
// ============================================

// redisWindowScript atomically increments the counter for a key and
// sets its expiry only the first time it is created, implementing a
// fixed window counter shared across every API replica.
const redisWindowScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`

// redisStore backs the rate limiter with Redis so the limit is shared
// across every replica of the API instead of tracked per-process.
type redisStore struct {
	client *redis.Client
	script *redis.Script
}

// newRedisStore wraps an existing Redis client for distributed rate
// limiting. The client is expected to already be connected (see
// internal/config for connection setup).
func newRedisStore(client *redis.Client) *redisStore {
	return &redisStore{
		client: client,
		script: redis.NewScript(redisWindowScript),
	}
}

func (s *redisStore) allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, time.Duration, error) {
	res, err := s.script.Run(ctx, s.client, []string{"ratelimit:" + key}, window.Milliseconds()).Slice()
	if err != nil {
		return false, 0, 0, err
	}

	count, _ := res[0].(int64)
	ttlMillis, _ := res[1].(int64)
	retryAfter := time.Duration(ttlMillis) * time.Millisecond

	if count > int64(limit) {
		return false, 0, retryAfter, nil
	}

	return true, limit - int(count), retryAfter, nil
}

// ============================================
// Middleware
// ============================================

// RateLimit returns a middleware backed by an in-memory token bucket.
// Suitable for a single API instance; for multiple replicas behind a
// load balancer use RateLimitWithRedis instead.
//
// Algorithm: Fixed Window Counter
// - each key gets a request budget per time window
// - once exhausted, the request is rejected with 429 Too Many Requests
// - X-RateLimit-* headers are attached so the caller can back off
//
// Headers:
// - X-RateLimit-Limit: the configured request budget
// - X-RateLimit-Remaining: requests left in the current window
// - X-RateLimit-Reset: window reset time (Unix timestamp)
// - Retry-After: seconds until reset (on 429)
func RateLimit(config *RateLimitConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	store := newMemoryStore(config.Window)
	return rateLimitMiddleware(store, config)
}

// RateLimitWithRedis returns a rate limit middleware whose counters
// live in Redis, so the limit holds across every API replica sharing
// that Redis instance.
func RateLimitWithRedis(client *redis.Client, config *RateLimitConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	store := newRedisStore(client)
	return rateLimitMiddleware(store, config)
}

func rateLimitMiddleware(store limitStore, config *RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := config.KeyFunc(c)
		allowed, remaining, retryAfter, err := store.allow(c.Request.Context(), key, config.Limit, config.Window)
		if err != nil {
			// Storage failure: fail open rather than block legitimate traffic.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", itoa(remaining))
		c.Header("X-RateLimit-Reset", itoa(int(time.Now().Add(retryAfter).Unix())))

		if !allowed {
			retrySeconds := int(retryAfter.Seconds())
			if retrySeconds < 1 {
				retrySeconds = 1
			}
			c.Header("Retry-After", itoa(retrySeconds))

			if config.OnLimitReached != nil {
				config.OnLimitReached(c)
			}

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":        "TOO_MANY_REQUESTS",
					"message":     "Rate limit exceeded, please try again later",
					"retry_after": retrySeconds,
				},
				"request_id": GetRequestID(c),
				"timestamp":  time.Now().UTC(),
			})
			return
		}

		c.Next()
	}
}

// itoa is a minimal int -> string converter.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}

	neg := i < 0
	if neg {
		i = -i
	}

	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}

// ============================================
// Endpoint-specific rate limiters
// ============================================

// SensitiveEndpointRateLimit applies a stricter limit to sensitive endpoints.
func SensitiveEndpointRateLimit() gin.HandlerFunc {
	return RateLimit(&RateLimitConfig{
		Limit:  10,
		Window: time.Minute,
		KeyFunc: func(c *gin.Context) string {
			// Combine IP + endpoint so one hot endpoint doesn't exhaust another's budget
			return c.ClientIP() + ":" + c.Request.URL.Path
		},
	})
}

// TransactionRateLimit limits the rate of financial operations.
func TransactionRateLimit() gin.HandlerFunc {
	return RateLimit(&RateLimitConfig{
		Limit:  30,
		Window: time.Minute,
		KeyFunc: func(c *gin.Context) string {
			// Key by user ID when authenticated, otherwise fall back to IP
			userID := GetAuthUserID(c)
			if userID.String() != "00000000-0000-0000-0000-000000000000" {
				return "user:" + userID.String()
			}
			return "ip:" + c.ClientIP()
		},
	})
}

// SensitiveEndpointRateLimitRedis is the Redis-backed equivalent of
// SensitiveEndpointRateLimit, for deployments running more than one
// API replica.
func SensitiveEndpointRateLimitRedis(client *redis.Client) gin.HandlerFunc {
	return RateLimitWithRedis(client, &RateLimitConfig{
		Limit:  10,
		Window: time.Minute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP() + ":" + c.Request.URL.Path
		},
	})
}

// TransactionRateLimitRedis is the Redis-backed equivalent of
// TransactionRateLimit, for deployments running more than one API
// replica.
func TransactionRateLimitRedis(client *redis.Client) gin.HandlerFunc {
	return RateLimitWithRedis(client, &RateLimitConfig{
		Limit:  30,
		Window: time.Minute,
		KeyFunc: func(c *gin.Context) string {
			userID := GetAuthUserID(c)
			if userID.String() != "00000000-0000-0000-0000-000000000000" {
				return "user:" + userID.String()
			}
			return "ip:" + c.ClientIP()
		},
	})
}
