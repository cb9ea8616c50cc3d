package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type RateLimiterConfig struct {
	RPS   float64
	Burst int
	// TTL is how long an idle client's bucket is kept.
	TTL time.Duration
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	clients *cache.Cache
	limit   rate.Limit
	burst   int
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	burst := config.Burst
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		clients: cache.New(ttl, ttl),
		limit:   rate.Limit(config.RPS),
		burst:   burst,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if v, ok := rl.clients.Get(key); ok {
		lim := v.(*rate.Limiter)
		// Touch so active clients are not evicted mid-burst.
		rl.clients.SetDefault(key, lim)
		return lim
	}

	lim := rate.NewLimiter(rl.limit, rl.burst)
	if err := rl.clients.Add(key, lim, cache.DefaultExpiration); err != nil {
		// Lost the race with a concurrent request from the same client.
		if v, ok := rl.clients.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.Response{
				Success: false,
				Message: "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
