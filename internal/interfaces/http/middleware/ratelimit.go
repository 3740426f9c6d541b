package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/customerly-inc/customerly/internal/infrastructure/ratelimit"
	"github.com/customerly-inc/customerly/internal/shared/constants"
	"github.com/customerly-inc/customerly/internal/shared/logger"
	"github.com/customerly-inc/customerly/internal/shared/utils"
)

// RateLimiter throttles API calls per authenticated user, or per client IP
// before authentication. Keys live in Redis so every instance shares them.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	scope   string
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, scope string, logger logger.Interface) *RateLimiter {
	return &RateLimiter{limiter: limiter, scope: scope, logger: logger}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.scope + ":ip:" + c.ClientIP()
		if userID := c.GetString(constants.ContextKeyUserID); userID != "" {
			key = rl.scope + ":user:" + userID
		}

		result, err := rl.limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// fail open when Redis is unavailable
			rl.logger.Warnw("rate limiter unavailable", "key", key, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			c.Header("Retry-After", strconv.FormatInt(retryAfterSeconds(result), 10))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

func retryAfterSeconds(r ratelimit.Result) int64 {
	secs := int64(time.Until(r.ResetAt).Seconds()) + 1
	if secs < 1 {
		return 1
	}
	return secs
}
