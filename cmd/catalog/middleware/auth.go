package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	commonmw "github.com/cmuseum/catalog/common/middleware"
	"github.com/cmuseum/catalog/common/models"
)

// SessionKey is the echo context key holding the resolved *models.Session
const SessionKey = "session"

// SessionResolver looks up a session by bearer token
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.Session, error)
}

// BearerToken returns the token from "Authorization: Bearer <token>", or ""
func BearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// ResolveSession resolves the bearer token into a session for the request.
// Requests without a token continue anonymously; a token that no longer
// resolves is rejected so the client knows to sign in again.
func ResolveSession(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c)
			if token == "" {
				return next(c)
			}

			session, err := resolver.Resolve(c.Request().Context(), token)
			if errors.Is(err, models.ErrUnauthenticated) {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error":   "unauthenticated",
					"message": "session expired or invalid",
				})
			}
			if err != nil {
				return c.JSON(http.StatusBadGateway, map[string]interface{}{
					"error":   "external_service",
					"message": "session store unavailable",
				})
			}

			c.Set(SessionKey, session)
			c.Set(commonmw.UserIDKey, session.User.UserID)
			return next(c)
		}
	}
}

// GetSession returns the resolved session or nil
func GetSession(c echo.Context) *models.Session {
	session, _ := c.Get(SessionKey).(*models.Session)
	return session
}

// GetUser returns the signed-in user or nil
func GetUser(c echo.Context) *models.User {
	if session := GetSession(c); session != nil {
		return &session.User
	}
	return nil
}

// IsAdmin reports whether the request is from a signed-in admin
func IsAdmin(c echo.Context) bool {
	return GetUser(c).IsAdmin()
}

// RequireSession rejects anonymous requests
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetSession(c) == nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error":   "unauthenticated",
					"message": "sign in required",
				})
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects requests that are not from an admin
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetUser(c)
			if user == nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error":   "unauthenticated",
					"message": "sign in required",
				})
			}
			if !user.IsAdmin() {
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"error":   "forbidden",
					"message": "admin role required",
				})
			}
			return next(c)
		}
	}
}
