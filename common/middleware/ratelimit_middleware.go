package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cmuseum/catalog/common/ratelimit"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the echo context key holding the signed-in user id
const UserIDKey = "user_id"

// Limiter is the subset of ratelimit.RateLimiter the middleware needs
type Limiter interface {
	CheckGlobalLimit(ctx context.Context, limit int64) (*ratelimit.RateLimitResult, error)
	CheckUserLimit(ctx context.Context, userID string, limit int64, windowSec int) (*ratelimit.RateLimitResult, error)
}

func setRetryAfter(c echo.Context, result *ratelimit.RateLimitResult) {
	if result.RetryAfterSeconds > 0 {
		c.Response().Header().Set("Retry-After", strconv.FormatInt(result.RetryAfterSeconds, 10))
	}
}

// GlobalRateLimitMiddleware checks the service-wide rate limit
func GlobalRateLimitMiddleware(rateLimiter Limiter, limit int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result, err := rateLimiter.CheckGlobalLimit(c.Request().Context(), limit)
			if err != nil {
				// fail open
				return next(c)
			}

			if !result.Allowed {
				setRetryAfter(c, result)
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "global_rate_limit_exceeded",
					"message": "Service is experiencing high load. Please try again later.",
					"details": map[string]interface{}{
						"limit":               result.Limit,
						"window":              "60 seconds",
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}

// BidRateLimitMiddleware limits bid submissions per signed-in user.
// Requires the session middleware to have set UserIDKey; anonymous requests
// pass through and are rejected by the bid handler itself.
func BidRateLimitMiddleware(rateLimiter Limiter, limits ratelimit.Limits) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(UserIDKey).(string)
			if !ok || userID == "" {
				return next(c)
			}

			result, err := rateLimiter.CheckUserLimit(c.Request().Context(), userID, limits.BidderLimit, limits.BidderWindowSeconds)
			if err != nil {
				return next(c)
			}

			if !result.Allowed {
				setRetryAfter(c, result)
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "bid_rate_limit_exceeded",
					"message": "You are bidding too quickly. Please wait before trying again.",
					"details": map[string]interface{}{
						"limit":               result.Limit,
						"window_seconds":      limits.BidderWindowSeconds,
						"current_count":       result.CurrentCount,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}
