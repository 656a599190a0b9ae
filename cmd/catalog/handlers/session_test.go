package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmuseum/catalog/cmd/catalog/middleware"
	"github.com/cmuseum/catalog/cmd/catalog/service"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

type stubUsers struct {
	items map[string]models.User
}

func (s *stubUsers) Upsert(_ context.Context, u *models.User) (*models.User, error) {
	if existing, ok := s.items[u.UserID]; ok {
		u.Role = existing.Role
	}
	s.items[u.UserID] = *u
	saved := *u
	return &saved, nil
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (s *stubUsers) List(context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range s.items {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubUsers) SetRole(_ context.Context, id string, role models.Role) error {
	u, ok := s.items[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Role = role
	s.items[id] = u
	return nil
}

type stubSessions struct {
	items map[string]models.Session
}

func (s *stubSessions) Save(_ context.Context, session *models.Session) error {
	s.items[session.Token] = *session
	return nil
}

func (s *stubSessions) Get(_ context.Context, token string) (*models.Session, error) {
	session, ok := s.items[token]
	if !ok {
		return nil, models.ErrUnauthenticated
	}
	return &session, nil
}

func (s *stubSessions) Delete(_ context.Context, token string) error {
	delete(s.items, token)
	return nil
}

func newSessionServer() *echo.Echo {
	log := logger.Discard()
	users := &stubUsers{items: map[string]models.User{}}
	sessions := service.NewSessionService(&stubSessions{items: map[string]models.Session{}}, users, time.Hour, []string{"curator@museum.org"}, log)

	e := echo.New()
	e.Use(middleware.ResolveSession(sessions))

	h := NewSessionHandler(sessions, log)
	e.POST("/sessions", h.SignIn)
	e.DELETE("/sessions", h.SignOut, middleware.RequireSession())
	e.GET("/me", h.Me, middleware.RequireSession())
	e.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, middleware.RequireAdmin())
	return e
}

func signIn(t *testing.T, e *echo.Echo, userID, email string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	req.Header.Set(HeaderUserID, userID)
	req.Header.Set(HeaderUserEmail, email)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var session models.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	return session.Token
}

func do(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSessionFlow(t *testing.T) {
	e := newSessionServer()

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/me", "").Code)

	token := signIn(t, e, "u-1", "ada@example.org")

	rec := do(e, http.MethodGet, "/me", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "u-1", me.UserID)
	assert.Equal(t, models.RoleVisitor, me.Role)

	assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/admin", token).Code)

	assert.Equal(t, http.StatusNoContent, do(e, http.MethodDelete, "/sessions", token).Code)
	// the cleared token no longer resolves
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/me", token).Code)
}

func TestSessionFlow_BootstrapAdmin(t *testing.T) {
	e := newSessionServer()

	token := signIn(t, e, "u-2", "curator@museum.org")
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/admin", token).Code)
}

func TestSignIn_RequiresIdentity(t *testing.T) {
	e := newSessionServer()

	rec := do(e, http.MethodPost, "/sessions", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
