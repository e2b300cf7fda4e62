package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/mddforum/mdd-api/apperror"
	"github.com/mddforum/mdd-api/utils"
)

const limiterIdleTTL = 5 * time.Minute

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
	mu      sync.Mutex
}

var (
	limiters   = map[string]*rateLimiter{}
	limitersMu sync.Mutex
)

// RateLimitMiddleware applies a per client IP token bucket refilled at perMinute requests per minute.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	r := rate.Every(time.Minute / time.Duration(max(perMinute, 1)))
	burst := max(perMinute/2, 1)

	return func(ctx *gin.Context) {
		limiter := getLimiter(ctx.FullPath()+"|"+ctx.ClientIP(), r, burst)

		limiter.mu.Lock()
		allowed := limiter.limiter.Allow()
		limiter.mu.Unlock()

		if !allowed {
			utils.Abort(ctx, apperror.TooManyRequests("Rate limit exceeded"))
			return
		}

		ctx.Next()
	}
}

func getLimiter(key string, limit rate.Limit, burst int) *rateLimiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	if limiter, ok := limiters[key]; ok {
		limiter.expires = time.Now().Add(limiterIdleTTL)
		return limiter
	}

	limiter := &rateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		expires: time.Now().Add(limiterIdleTTL),
	}
	limiters[key] = limiter
	return limiter
}

// PruneLimiters drops limiters idle past their TTL. It runs from the janitor cron.
func PruneLimiters(now time.Time) int {
	limitersMu.Lock()
	defer limitersMu.Unlock()
	removed := 0
	for key, limiter := range limiters {
		if now.After(limiter.expires) {
			delete(limiters, key)
			removed++
		}
	}
	return removed
}
