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

// DisplayGroupHandler handles display group requests
type DisplayGroupHandler struct {
	groups *service.DisplayGroupService
	log    *logger.Logger
}

// NewDisplayGroupHandler creates a new display group handler
func NewDisplayGroupHandler(groups *service.DisplayGroupService, log *logger.Logger) *DisplayGroupHandler {
	return &DisplayGroupHandler{
		groups: groups,
		log:    log,
	}
}

// ListDisplayGroups returns groups ordered by sort order. Visitors only see
// active groups.
// GET /api/v1/display-groups
func (h *DisplayGroupHandler) ListDisplayGroups(c echo.Context) error {
	groups, err := h.groups.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}

	if !middleware.IsAdmin(c) {
		active := groups[:0]
		for _, g := range groups {
			if g.Active {
				active = append(active, g)
			}
		}
		groups = active
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"display_groups": groups,
	})
}

// CreateDisplayGroup creates a group
// POST /api/v1/display-groups
func (h *DisplayGroupHandler) CreateDisplayGroup(c echo.Context) error {
	var req models.DisplayGroup
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
	}

	group, err := h.groups.Create(c.Request().Context(), &req, middleware.GetUser(c).UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, group)
}

// UpdateDisplayGroup replaces a group
// PUT /api/v1/display-groups/:id
func (h *DisplayGroupHandler) UpdateDisplayGroup(c echo.Context) error {
	var req models.DisplayGroup
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
	}

	group, err := h.groups.Update(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, group)
}

// DeleteDisplayGroup deletes a group no artifact references
// DELETE /api/v1/display-groups/:id
func (h *DisplayGroupHandler) DeleteDisplayGroup(c echo.Context) error {
	if err := h.groups.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
