package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmuseum/catalog/common/ratelimit"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type mockLimiter struct {
	allowed  bool
	err      error
	lastUser string
}

func (m *mockLimiter) CheckGlobalLimit(ctx context.Context, limit int64) (*ratelimit.RateLimitResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &ratelimit.RateLimitResult{Allowed: m.allowed, Limit: limit, RetryAfterSeconds: 7}, nil
}

func (m *mockLimiter) CheckUserLimit(ctx context.Context, userID string, limit int64, windowSec int) (*ratelimit.RateLimitResult, error) {
	m.lastUser = userID
	if m.err != nil {
		return nil, m.err
	}
	return &ratelimit.RateLimitResult{Allowed: m.allowed, Limit: limit, RetryAfterSeconds: 12}, nil
}

func run(mw echo.MiddlewareFunc, userID string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(UserIDKey, userID)
	}

	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestGlobalRateLimit(t *testing.T) {
	rec := run(GlobalRateLimitMiddleware(&mockLimiter{allowed: true}, 100), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = run(GlobalRateLimitMiddleware(&mockLimiter{allowed: false}, 100), "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "7", rec.Header().Get("Retry-After"))

	// limiter failure fails open
	rec = run(GlobalRateLimitMiddleware(&mockLimiter{err: errors.New("redis down")}, 100), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestBidRateLimit(t *testing.T) {
	limiter := &mockLimiter{allowed: false}
	mw := BidRateLimitMiddleware(limiter, ratelimit.DefaultLimits)

	rec := run(mw, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, limiter.lastUser)

	rec = run(mw, "user-1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "user-1", limiter.lastUser)
	assert.Contains(t, rec.Body.String(), "bid_rate_limit_exceeded")
}
