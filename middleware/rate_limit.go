package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/moodtrack/moodtrack/config"
	"github.com/moodtrack/moodtrack/utils"
)

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
	mu      sync.Mutex
}

var (
	limiters   = map[string]*rateLimiter{}
	limitersMu sync.Mutex
)

// RateLimit applies a per-IP token bucket. Mounted on the credential routes
// to slow down brute forcing.
func RateLimit() gin.HandlerFunc {
	cfg := config.Get()
	perMinute := cfg.RateLimitPerMinute
	if perMinute < 1 {
		perMinute = 1
	}
	r := rate.Every(time.Minute / time.Duration(perMinute))
	burst := perMinute/2 + 1

	return func(ctx *gin.Context) {
		ip := ctx.ClientIP()
		limiter := getLimiter(ip, r, burst)

		limiter.mu.Lock()
		allowed := limiter.limiter.Allow()
		limiter.mu.Unlock()

		if !allowed {
			utils.Error(ctx, http.StatusTooManyRequests, "rate limit exceeded")
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

func getLimiter(ip string, r rate.Limit, burst int) *rateLimiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	now := time.Now()
	if l, ok := limiters[ip]; ok {
		l.expires = now.Add(10 * time.Minute)
		return l
	}

	// Drop stale buckets opportunistically instead of running a sweeper.
	for key, l := range limiters {
		if now.After(l.expires) {
			delete(limiters, key)
		}
	}

	l := &rateLimiter{
		limiter: rate.NewLimiter(r, burst),
		expires: now.Add(10 * time.Minute),
	}
	limiters[ip] = l
	return l
}
