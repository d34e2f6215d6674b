package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tably/internal/infrastructure/ratelimit"
	"tably/internal/shared/logger"
	"tably/internal/shared/utils"
)

// RateLimit enforces per-client-IP request budgets. Limiter failures fail
// open; throttling must not take the API down with redis.
func RateLimit(limiter ratelimit.Limiter, cfg ratelimit.Config, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP(), cfg)
		if err != nil {
			log.Warnw("rate limiter unavailable; allowing request",
				"error", err,
				"client_ip", c.ClientIP(),
			)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}
