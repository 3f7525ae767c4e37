package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware applies one global token bucket to every route except
// the listed exempt paths (health checks and scrapes).
func RateLimitMiddleware(rps int, exempt ...string) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), rps)

	skip := make(map[string]bool, len(exempt))
	for _, p := range exempt {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.FullPath()] {
			c.Next()
			return
		}

		r := limiter.Reserve()
		if delay := r.Delay(); delay > 0 {
			r.Cancel()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
