package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const maxGenerateBurst = 5

// RateLimit allows perMinute requests per minute with a small burst. perMinute <= 0 disables it.
// Each generation costs the device a fresh TRNG draw, so the limit is global, not per client.
func RateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	burst := min(perMinute, maxGenerateBurst)
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
