// Package middleware holds Fiber middleware shared by the HTTP service.
package middleware

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/freewebtopdf/objcompare/internal/domain"
)

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	capacity   int
	tokens     float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mutex      sync.Mutex
}

// NewTokenBucket creates a new token bucket that starts full
func NewTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow takes one token if available
func (tb *TokenBucket) Allow() bool {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	tb.refill(time.Now())

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// Remaining returns the number of whole tokens left
func (tb *TokenBucket) Remaining() int {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	tb.refill(time.Now())
	return int(tb.tokens)
}

// RetryAfter returns how long until the next token is available
func (tb *TokenBucket) RetryAfter() time.Duration {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	if tb.tokens >= 1 || tb.refillRate <= 0 {
		return 0
	}
	return time.Duration((1 - tb.tokens) / tb.refillRate * float64(time.Second))
}

func (tb *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed*tb.refillRate)
	tb.lastRefill = now
}

type limit struct {
	capacity   int
	refillRate float64
}

// RateLimiter keeps one bucket per client and endpoint group
type RateLimiter struct {
	buckets map[string]*TokenBucket
	mutex   sync.RWMutex

	defaultLimit   limit
	endpointLimits map[string]limit
}

// NewRateLimiter creates a rate limiter. Profile management gets half the
// comparison budget, health and metrics a small fixed one.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		buckets:        make(map[string]*TokenBucket),
		defaultLimit:   limit{capacity: burst, refillRate: rps},
		endpointLimits: make(map[string]limit),
	}

	rl.endpointLimits["/v1/compare"] = limit{capacity: burst, refillRate: rps}
	rl.endpointLimits["/v1/profiles"] = limit{capacity: max(burst/2, 1), refillRate: rps / 2}
	rl.endpointLimits["/health"] = limit{capacity: 20, refillRate: 2}
	rl.endpointLimits["/metrics"] = limit{capacity: 20, refillRate: 2}

	return rl
}

// endpointGroup maps a request path onto the key its limit is configured under
func endpointGroup(path string) string {
	if strings.HasPrefix(path, "/v1/profiles") {
		return "/v1/profiles"
	}
	return path
}

// getBucket gets or creates a token bucket for a client+endpoint combination
func (rl *RateLimiter) getBucket(clientID, endpoint string) (*TokenBucket, limit) {
	key := clientID + ":" + endpoint

	lim, exists := rl.endpointLimits[endpoint]
	if !exists {
		lim = rl.defaultLimit
	}

	rl.mutex.RLock()
	bucket, exists := rl.buckets[key]
	rl.mutex.RUnlock()
	if exists {
		return bucket, lim
	}

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if bucket, exists := rl.buckets[key]; exists {
		return bucket, lim
	}

	bucket = NewTokenBucket(lim.capacity, lim.refillRate)
	rl.buckets[key] = bucket
	return bucket, lim
}

// getClientID extracts client identifier from request
func (rl *RateLimiter) getClientID(c *fiber.Ctx) string {
	if apiKey := c.Get("X-API-Key"); apiKey != "" {
		return "api:" + apiKey
	}
	if auth := c.Get("Authorization"); auth != "" {
		return "auth:" + auth
	}
	return "ip:" + c.IP()
}

// Middleware returns a Fiber middleware for rate limiting
func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := rl.getClientID(c)
		endpoint := endpointGroup(c.Path())

		bucket, lim := rl.getBucket(clientID, endpoint)
		c.Set("X-RateLimit-Limit", strconv.Itoa(lim.capacity))

		if !bucket.Allow() {
			retryAfter := int(bucket.RetryAfter().Seconds()) + 1
			appErr := domain.NewAppError(
				domain.ErrRateLimit,
				"Rate limit exceeded",
				fiber.StatusTooManyRequests,
				map[string]any{
					"endpoint":    endpoint,
					"retry_after": retryAfter,
				},
			).WithContext(c.UserContext(), "rate_limit")

			c.Set("Retry-After", strconv.Itoa(retryAfter))
			c.Set("X-RateLimit-Remaining", "0")

			return c.Status(appErr.StatusCode).JSON(fiber.Map{
				"status":  "error",
				"code":    appErr.Code,
				"message": appErr.Message,
				"details": appErr.Details,
			})
		}

		c.Set("X-RateLimit-Remaining", strconv.Itoa(bucket.Remaining()))
		return c.Next()
	}
}

// CleanupOldBuckets removes buckets idle for more than an hour
func (rl *RateLimiter) CleanupOldBuckets() {
	rl.cleanup(time.Now(), time.Hour)
}

func (rl *RateLimiter) cleanup(now time.Time, maxIdle time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	for key, bucket := range rl.buckets {
		bucket.mutex.Lock()
		idle := now.Sub(bucket.lastRefill)
		bucket.mutex.Unlock()
		if idle > maxIdle {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine starts a background routine to clean up old buckets.
// Returns a stop function to cancel the routine.
func (rl *RateLimiter) StartCleanupRoutine() (stop func()) {
	ticker := time.NewTicker(10 * time.Minute)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				rl.CleanupOldBuckets()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}

// GetStats returns rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]any {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	limits := make(map[string]any, len(rl.endpointLimits))
	for endpoint, lim := range rl.endpointLimits {
		limits[endpoint] = map[string]any{"capacity": lim.capacity, "refill_rate": lim.refillRate}
	}

	return map[string]any{
		"active_buckets":      len(rl.buckets),
		"default_capacity":    rl.defaultLimit.capacity,
		"default_refill_rate": rl.defaultLimit.refillRate,
		"endpoint_limits":     limits,
	}
}
