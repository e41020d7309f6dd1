package middleware

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-key sliding window limiter.
type RateLimiter struct {
	requests map[string][]time.Time
	mutex    sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
	// lastSweep is when idle keys were last dropped.
	lastSweep time.Time
}

// NewRateLimiter allows limit requests per key within window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.window)
	if now.Sub(rl.lastSweep) >= rl.window {
		rl.sweep(windowStart)
		rl.lastSweep = now
	}

	// Drop timestamps outside the window
	requests := rl.requests[key]
	filtered := requests[:0]
	for _, t := range requests {
		if t.After(windowStart) {
			filtered = append(filtered, t)
		}
	}

	if len(filtered) >= rl.limit {
		if len(filtered) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = filtered
		}
		return false
	}

	rl.requests[key] = append(filtered, now)
	return true
}

// sweep drops keys with no request inside the window. Callers hold the mutex.
func (rl *RateLimiter) sweep(windowStart time.Time) {
	for key, requests := range rl.requests {
		if len(requests) == 0 || !requests[len(requests)-1].After(windowStart) {
			delete(rl.requests, key)
		}
	}
}

func getIP(c *gin.Context) string {
	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.ClientIP()
	}
	return ip
}

// RateLimitMiddleware rejects clients over the limit with 429.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getIP(c)
		if !rl.Allow(ip) {
			customLog.Warnf("RateLimit: %s exceeded %d requests per %v on %s", ip, rl.limit, rl.window, c.FullPath())
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			c.AbortWithStatusJSON(429, gin.H{"error": "Too many requests. Please wait."})
			return
		}
		c.Next()
	}
}
