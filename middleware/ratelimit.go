package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter throttles requests per client IP with a token bucket.
// Burst and window come from configuration so the auth endpoints can
// be tuned per deployment.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	burst     float64
	window    time.Duration
	lastSweep time.Time

	now func() time.Time // swapped out in tests
}

type bucket struct {
	remaining float64
	seen      time.Time
}

// NewRateLimiter allows burst requests per window for each client IP.
func NewRateLimiter(burst int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		burst:   float64(burst),
		window:  window,
		now:     time.Now,
	}
}

// take spends one token for ip, refilling at burst-per-window. On
// refusal it reports how long until the next token is available.
func (rl *RateLimiter) take(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	b, found := rl.buckets[ip]
	if !found {
		rl.buckets[ip] = &bucket{remaining: rl.burst - 1, seen: now}
		return true, 0
	}

	b.remaining += now.Sub(b.seen).Seconds() * rl.burst / rl.window.Seconds()
	if b.remaining > rl.burst {
		b.remaining = rl.burst
	}
	b.seen = now

	if b.remaining < 1 {
		wait := time.Duration((1 - b.remaining) * float64(rl.window) / rl.burst)
		return false, wait
	}
	b.remaining--
	return true, 0
}

// sweep drops buckets idle long enough to have fully refilled. Running
// it inline on take keeps the map bounded without a background goroutine.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now
	for ip, b := range rl.buckets {
		if now.Sub(b.seen) > 3*rl.window {
			delete(rl.buckets, ip)
		}
	}
}

// Middleware rejects clients whose bucket is empty with a 429 and a
// Retry-After hint.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := rl.take(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(wait/time.Second)+1))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			c.Abort()
			return
		}
		c.Next()
	}
}
