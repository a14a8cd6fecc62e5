package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/osa911/contact-api/internal/api/dto/common"
	"github.com/osa911/contact-api/internal/metrics"
)

// RateLimitConfig defines configuration for the rate limiter
type RateLimitConfig struct {
	// Requests per second, per client IP
	RPS float64
	// Burst size (number of requests that can be made in a single burst)
	Burst int
	// MaxClients triggers a sweep as soon as this many clients are tracked
	MaxClients int
}

const defaultMaxClients = 10000

// ClientLimiter applies a token bucket per client key. Entries whose bucket
// has refilled carry no state and are swept every 512 hits or whenever the
// map reaches MaxClients, so the map holds only clients seen within one
// refill window.
type ClientLimiter struct {
	limit      rate.Limit
	burst      int
	maxClients int

	mu    sync.Mutex
	byKey map[string]*rate.Limiter
	hits  uint64
}

// NewClientLimiter returns nil, which admits everything, when the config
// disables limiting.
func NewClientLimiter(config RateLimitConfig) *ClientLimiter {
	if config.RPS <= 0 || config.Burst <= 0 {
		return nil
	}
	maxClients := config.MaxClients
	if maxClients <= 0 {
		maxClients = defaultMaxClients
	}
	return &ClientLimiter{
		limit:      rate.Limit(config.RPS),
		burst:      config.Burst,
		maxClients: maxClients,
		byKey:      make(map[string]*rate.Limiter),
	}
}

// Allow reports whether key may make a request at now, and the tokens left
func (l *ClientLimiter) Allow(key string, now time.Time) (bool, int) {
	if l == nil {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.hits++
	if l.hits%512 == 0 || len(l.byKey) >= l.maxClients {
		l.sweep(now)
	}

	lim, ok := l.byKey[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.byKey[key] = lim
	}
	allowed := lim.AllowN(now, 1)
	remaining := int(math.Max(0, math.Floor(lim.TokensAt(now))))

	return allowed, remaining
}

// sweep drops clients whose bucket is full again at now
func (l *ClientLimiter) sweep(now time.Time) {
	for k, lim := range l.byKey {
		if lim.TokensAt(now) >= float64(l.burst) {
			delete(l.byKey, k)
		}
	}
}

// Len returns the number of tracked clients
func (l *ClientLimiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey)
}

// retryAfter is the wait until one token is available again
func (l *ClientLimiter) retryAfter() time.Duration {
	return time.Duration(float64(time.Second) / float64(l.limit))
}

// RateLimitMiddleware limits requests per client IP as resolved by the
// engine's trusted proxy settings
func RateLimitMiddleware(config RateLimitConfig, m *metrics.Metrics) gin.HandlerFunc {
	limiter := NewClientLimiter(config)
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		allowed, remaining := limiter.Allow(c.ClientIP(), time.Now())

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			m.ObserveRateLimited()
			retry := int(math.Ceil(limiter.retryAfter().Seconds()))
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.NewErrorResponse(
				common.ErrCodeTooManyRequests,
				fmt.Sprintf("Rate limit exceeded. Please try again in %d seconds.", retry),
				nil,
			))
			return
		}

		c.Next()
	}
}
