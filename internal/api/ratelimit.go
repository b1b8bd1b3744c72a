package api

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"gymtracker/gym-api/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// maxTrackedClients is the map size at which idle clients are evicted on insert.
	maxTrackedClients = 10000
	// clientIdleTTL is how long a client may go unseen before its limiter is dropped.
	clientIdleTTL = 10 * time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rate    rate.Limit
	burst   int
	now     func() time.Time
	log     *logrus.Logger
}

func NewRateLimiter(cfg config.RateLimitConfig, log *logrus.Logger) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		rate:    rate.Limit(cfg.RPS),
		burst:   cfg.Burst,
		now:     time.Now,
		log:     log,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cl, ok := rl.clients[key]
	if !ok {
		if len(rl.clients) >= maxTrackedClients {
			rl.evictIdle(now)
		}
		cl = &client{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// Cleanup drops the limiters of clients idle for longer than clientIdleTTL.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.evictIdle(rl.now())
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}

// evictIdle must be called with mu held.
func (rl *RateLimiter) evictIdle(now time.Time) {
	evicted := 0
	for key, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > clientIdleTTL {
			delete(rl.clients, key)
			evicted++
		}
	}
	if evicted > 0 {
		rl.log.WithFields(logrus.Fields{"evicted": evicted, "tracked": len(rl.clients)}).Debug("rate limiter cleanup")
	}
}

// retryAfterSeconds is the time until one more token is available, at least 1s.
func (rl *RateLimiter) retryAfterSeconds() int {
	if rl.rate <= 0 {
		return 1
	}
	secs := int(math.Ceil(1 / float64(rl.rate)))
	if secs < 1 {
		return 1
	}
	return secs
}

// Middleware rejects clients over their budget with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if rl.limiter(ip).Allow() {
			c.Next()
			return
		}

		rl.log.WithFields(logrus.Fields{
			"ip":     ip,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Warn("rate limit exceeded")

		c.Header("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
		abortWithError(c, http.StatusTooManyRequests, "Too many requests, please try again later")
	}
}
