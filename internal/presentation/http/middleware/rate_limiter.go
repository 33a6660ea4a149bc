package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mateusallves/doceria-api/internal/config"
	"github.com/mateusallves/doceria-api/internal/presentation/http/dto/response"
	"golang.org/x/time/rate"
)

// clientLimiter tracks one client's token bucket and its last use, so idle
// entries can be evicted
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP using a token bucket
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
}

// NewRateLimiter creates a rate limiter from the configured requests-per-window
func NewRateLimiter(cfg *config.RateLimitConfig) *RateLimiter {
	window := time.Duration(cfg.Duration) * time.Second
	if window <= 0 {
		window = time.Minute
	}
	requests := cfg.Requests
	if requests <= 0 {
		requests = 100
	}

	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(float64(requests) / window.Seconds()),
		burst:   requests,
	}
	go rl.cleanup(window)
	return rl
}

func (rl *RateLimiter) cleanup(window time.Duration) {
	for {
		time.Sleep(window)
		rl.mu.Lock()
		for ip, client := range rl.clients {
			if time.Since(client.lastSeen) > 3*window {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = client
	}
	client.lastSeen = time.Now()
	return client.limiter.Allow()
}

// Middleware returns the gin handler enforcing the limit
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			response.TooManyRequests(c, "Too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
