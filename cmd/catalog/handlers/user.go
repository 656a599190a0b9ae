package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cmuseum/catalog/cmd/catalog/middleware"
	"github.com/cmuseum/catalog/cmd/catalog/service"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

// UserHandler handles role administration
type UserHandler struct {
	users *service.UserService
	log   *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log,
	}
}

// ListUsers lists users
// GET /api/v1/users
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"users": users,
	})
}

// SetRole changes a user's role
// PUT /api/v1/users/:id/role
func (h *UserHandler) SetRole(c echo.Context) error {
	var req struct {
		Role models.Role `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
	}

	user, err := h.users.SetRole(c.Request().Context(), middleware.GetUser(c), c.Param("id"), req.Role)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, user)
}
