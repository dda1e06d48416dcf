package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	apperrors "github.com/guialocal/guialocal-backend/internal/errors"
)

// RateLimiter hands out one token bucket per client IP. Idle buckets are
// evicted after ten intervals.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *gocache.Cache
	every    rate.Limit
	burst    int
}

// NewRateLimiter allows requests per interval for each client. It returns nil
// when limiting is disabled.
func NewRateLimiter(requests int, interval time.Duration) *RateLimiter {
	if requests <= 0 || interval <= 0 {
		return nil
	}
	perRequest := interval / time.Duration(requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}
	return &RateLimiter{
		limiters: gocache.New(10*interval, 20*interval),
		every:    rate.Every(perRequest),
		burst:    requests,
	}
}

func (r *RateLimiter) limiter(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.limiters.Get(key); ok {
		r.limiters.SetDefault(key, v)
		return v.(*rate.Limiter)
	}
	l := rate.NewLimiter(r.every, r.burst)
	r.limiters.SetDefault(key, l)
	return l
}

// Middleware rejects requests over the limit with 429.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	if r == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if !r.limiter(c.ClientIP()).Allow() {
			GetLoggerFromContext(c).Warn("Rate limit exceeded", map[string]interface{}{
				"ip":   c.ClientIP(),
				"path": c.Request.URL.Path,
			})
			apperrors.AbortWithError(c, http.StatusTooManyRequests, apperrors.RateLimited, "Muitas requisições. Aguarde um momento e tente novamente")
			return
		}
		c.Next()
	}
}
