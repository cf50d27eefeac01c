package middleware

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "cryptowatch/internal/errors"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out a token bucket per client. A bucket holds max
// requests and refills completely over one window.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	max       int
	window    time.Duration
	every     rate.Limit
	lastSweep time.Time
	now       func() time.Time // overridable for tests
}

// NewRateLimiter creates a limiter allowing max requests per window per client.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		max:     max,
		window:  window,
		every:   rate.Limit(float64(max) / window.Seconds()),
		now:     time.Now,
	}
}

// Middleware enforces the limit and sets the X-RateLimit-* headers.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, reset, retryAfter := rl.take(ClientKey(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.UnixMilli(), 10))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			AbortWithError(c, apperrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}

// take consumes one token for key. reset is when the bucket will be full again.
func (rl *RateLimiter) take(key string) (allowed bool, remaining int, reset time.Time, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.every, rl.max)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now

	allowed = cl.limiter.AllowN(now, 1)
	tokens := cl.limiter.TokensAt(now)
	remaining = max(0, int(math.Floor(tokens)))
	reset = now.Add(rl.refill(float64(rl.max) - tokens))
	if !allowed {
		retryAfter = rl.refill(1 - tokens)
	}
	return allowed, remaining, reset, retryAfter
}

func (rl *RateLimiter) refill(tokens float64) time.Duration {
	if tokens <= 0 || rl.every <= 0 {
		return 0
	}
	return time.Duration(tokens / float64(rl.every) * float64(time.Second))
}

// sweep drops clients idle for a full window; their buckets are full anyway.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now
	for key, cl := range rl.clients {
		if now.Sub(cl.lastSeen) >= rl.window {
			delete(rl.clients, key)
		}
	}
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// ClientKey identifies the caller for rate limiting: the first
// X-Forwarded-For hop, then X-Real-IP, then the connection address.
func ClientKey(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}
