package middleware

import (
	"net/http"
	"sync"
	"time"

	"compsite/metrics"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-IP token bucket refilled once per interval
type RateLimiter struct {
	visitors map[string]*Visitor
	mu       sync.Mutex
	rate     int           // Tokens added per interval
	burst    int           // Bucket capacity
	interval time.Duration // Refill interval
	now      func() time.Time
}

type Visitor struct {
	tokens      int
	lastUpdated time.Time
}

func NewRateLimiter(rate int, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*Visitor),
		rate:     rate,
		burst:    burst,
		interval: time.Minute,
		now:      time.Now,
	}
}

// Allow takes a token from the visitor's bucket, reporting false when it is empty
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	visitor, exists := rl.visitors[ip]
	if !exists {
		visitor = &Visitor{tokens: rl.burst, lastUpdated: now}
		rl.visitors[ip] = visitor
	}

	// Refill tokens
	refill := int(now.Sub(visitor.lastUpdated) / rl.interval)
	if refill > 0 {
		visitor.tokens += refill * rl.rate
		if visitor.tokens > rl.burst {
			visitor.tokens = rl.burst
		}
		visitor.lastUpdated = visitor.lastUpdated.Add(time.Duration(refill) * rl.interval)
	}

	if visitor.tokens > 0 {
		visitor.tokens--
		return true
	}

	return false
}

// Sweep forgets visitors whose bucket has been full for a whole interval
func (rl *RateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, visitor := range rl.visitors {
		if now.Sub(visitor.lastUpdated) > rl.interval && visitor.tokens+rl.rate >= rl.burst {
			delete(rl.visitors, ip)
		}
	}
}

func RateLimiterMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			metrics.RateLimiterRejections.Inc()

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
