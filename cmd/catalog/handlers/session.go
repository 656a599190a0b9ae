package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cmuseum/catalog/cmd/catalog/middleware"
	"github.com/cmuseum/catalog/cmd/catalog/service"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

// Identity headers set by the upstream identity provider
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
	HeaderUserPhoto = "X-User-Photo"
)

// SessionHandler handles sign-in and sign-out
type SessionHandler struct {
	sessions *service.SessionService
	log      *logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		log:      log,
	}
}

// SignIn opens a session for the asserted identity
// POST /api/v1/sessions
func (h *SessionHandler) SignIn(c echo.Context) error {
	header := c.Request().Header
	session, err := h.sessions.SignIn(c.Request().Context(), service.Identity{
		UserID:      header.Get(HeaderUserID),
		Email:       header.Get(HeaderUserEmail),
		DisplayName: header.Get(HeaderUserName),
		PhotoURL:    header.Get(HeaderUserPhoto),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, session)
}

// SignOut clears the current session
// DELETE /api/v1/sessions
func (h *SessionHandler) SignOut(c echo.Context) error {
	if err := h.sessions.SignOut(c.Request().Context(), middleware.BearerToken(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the signed-in user
// GET /api/v1/me
func (h *SessionHandler) Me(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return respondError(c, h.log, models.ErrUnauthenticated)
	}
	return c.JSON(http.StatusOK, user)
}
