package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/banksec/apiguard/internal/metrics"
	"github.com/banksec/apiguard/internal/ratelimit"
)

// RateLimitMiddleware classifies every request into a policy class and
// enforces that class's token bucket for the client. It runs before any
// authentication or authorization work so abusive traffic is rejected at
// minimal cost.
//
// On throttled classes the response carries X-RateLimit-Limit and
// X-RateLimit-Remaining; rejections additionally carry Retry-After and a
// JSON body naming the exhausted limit class.
func RateLimitMiddleware(
	limiter *ratelimit.Limiter,
	securityMetrics metrics.SecurityMetrics,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		class := ratelimit.Classify(c.Request.URL.Path, c.Request.Method)
		if class == ratelimit.ClassNone {
			c.Next()
			return
		}

		clientKey := ratelimit.ClientKey(c.GetHeader("X-Forwarded-For"), c.Request.RemoteAddr)
		decision := limiter.Allow(clientKey, class)
		securityMetrics.RecordRateLimitDecision(c.Request.Context(), class.String(), decision.Allowed)

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}

			logger.Warn("rate limit exceeded",
				slog.String("client_key", clientKey),
				slog.String("limit_class", class.String()),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate_limit_exceeded",
				"limit":       class.String(),
				"remaining":   decision.Remaining,
				"retry_after": retryAfter,
				"message":     "Too many requests. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
