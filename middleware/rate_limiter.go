package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	// Must cover the one-minute refill window.
	limiterIdleTTL = 2 * time.Minute
)

// rateLimiterStore holds per-IP rate limiters, evicting idle ones.
type rateLimiterStore struct {
	limiters  *expirable.LRU[string, *rate.Limiter]
	mu        sync.Mutex
	perMinute int
}

func newRateLimiterStore(perMinute int, idleTTL time.Duration) *rateLimiterStore {
	if perMinute <= 0 {
		perMinute = 100
	}
	return &rateLimiterStore{
		limiters:  expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, idleTTL),
		perMinute: perMinute,
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
// Every lookup re-adds the entry so its idle timer restarts.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters.Get(ip)
	if !exists {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMinute)), s.perMinute)
	}
	s.limiters.Add(ip, limiter)
	return limiter
}

func (s *rateLimiterStore) size() int {
	return s.limiters.Len()
}

// RateLimitMiddleware limits each client IP to perMinute requests.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	store := newRateLimiterStore(perMinute, limiterIdleTTL)
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !store.getLimiter(ip).Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
