package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/apierror"

	"github.com/gin-gonic/gin"
)

// slidingWindow tracks request counts per IP.
type slidingWindow struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

type ipLimiter struct {
	entries map[string]*slidingWindow
	mu      sync.Mutex
	limit   int
	window  time.Duration
}

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	l := &ipLimiter{
		entries: make(map[string]*slidingWindow),
		limit:   limit,
		window:  window,
	}
	go l.purgeLoop()
	return l
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	entry, exists := l.entries[ip]
	if !exists {
		entry = &slidingWindow{}
		l.entries[ip] = entry
	}
	l.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(l.window)
	}
	entry.count++
	return entry.count <= l.limit
}

// purgeLoop removes expired entries so IPs that never return do not
// accumulate forever.
func (l *ipLimiter) purgeLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		for ip, entry := range l.entries {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(l.entries, ip)
			}
			entry.mu.Unlock()
		}
		l.mu.Unlock()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	limiter := newIPLimiter(20, time.Minute)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter returns a general-purpose sliding-window rate limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	limiter := newIPLimiter(limit, window)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.Header("Retry-After", time.Now().Add(window).Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
