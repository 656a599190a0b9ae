package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	commonmw "github.com/cmuseum/catalog/common/middleware"
	"github.com/cmuseum/catalog/common/models"
)

type resolverFunc func(ctx context.Context, token string) (*models.Session, error)

func (f resolverFunc) Resolve(ctx context.Context, token string) (*models.Session, error) {
	return f(ctx, token)
}

var sessionsByToken = map[string]*models.Session{
	"visitor": {Token: "visitor", User: models.User{UserID: "u-1", Role: models.RoleVisitor}},
	"admin":   {Token: "admin", User: models.User{UserID: "u-2", Role: models.RoleAdmin}},
}

func testResolver(_ context.Context, token string) (*models.Session, error) {
	if token == "broken" {
		return nil, errors.New("redis: connection refused")
	}
	if s, ok := sessionsByToken[token]; ok {
		return s, nil
	}
	return nil, models.ErrUnauthenticated
}

// seen captures what the handler observed
type seen struct {
	session *models.Session
	user    *models.User
	admin   bool
	userID  any
}

func serve(t *testing.T, authorization string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, seen) {
	t.Helper()
	e := echo.New()
	var got seen
	handler := func(c echo.Context) error {
		got = seen{
			session: GetSession(c),
			user:    GetUser(c),
			admin:   IsAdmin(c),
			userID:  c.Get(commonmw.UserIDKey),
		}
		return c.NoContent(http.StatusOK)
	}
	all := append([]echo.MiddlewareFunc{ResolveSession(resolverFunc(testResolver))}, mw...)
	e.GET("/", handler, all...)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, got
}

func TestBearerToken(t *testing.T) {
	e := echo.New()
	for header, want := range map[string]string{
		"Bearer abc":  "abc",
		"bearer  abc": "abc",
		"Basic abc":   "",
		"abc":         "",
		"":            "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, header)
		c := e.NewContext(req, httptest.NewRecorder())
		assert.Equal(t, want, BearerToken(c), "header %q", header)
	}
}

func TestResolveSession(t *testing.T) {
	rec, got := serve(t, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.session)
	assert.False(t, got.admin)

	rec, got = serve(t, "Bearer visitor")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", got.user.UserID)
	assert.Equal(t, "u-1", got.userID)

	rec, _ = serve(t, "Bearer expired")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(t, "Bearer broken")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	rec, _ := serve(t, "", RequireAdmin())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(t, "Bearer visitor", RequireAdmin())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, got := serve(t, "Bearer admin", RequireAdmin())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.admin)
}

func TestRequireSession(t *testing.T) {
	rec, _ := serve(t, "", RequireSession())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(t, "Bearer visitor", RequireSession())
	assert.Equal(t, http.StatusOK, rec.Code)
}
