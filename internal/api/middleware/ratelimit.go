package middleware

import (
	"net/http"

	"notaria-api-server/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit rejects requests over the limiter's sliding window, keyed by
// client IP.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, try again later"})
			return
		}
		c.Next()
	}
}
