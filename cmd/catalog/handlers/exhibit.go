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

// ExhibitHandler handles exhibit requests
type ExhibitHandler struct {
	exhibits *service.ExhibitService
	log      *logger.Logger
}

// NewExhibitHandler creates a new exhibit handler
func NewExhibitHandler(exhibits *service.ExhibitService, log *logger.Logger) *ExhibitHandler {
	return &ExhibitHandler{
		exhibits: exhibits,
		log:      log,
	}
}

// ListExhibits lists exhibits
// GET /api/v1/exhibits
func (h *ExhibitHandler) ListExhibits(c echo.Context) error {
	exhibits, err := h.exhibits.List(c.Request().Context(), middleware.IsAdmin(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"exhibits": exhibits,
	})
}

// GetExhibit returns an exhibit with its artifacts
// GET /api/v1/exhibits/:id
func (h *ExhibitHandler) GetExhibit(c echo.Context) error {
	exhibit, err := h.exhibits.Get(c.Request().Context(), c.Param("id"), middleware.IsAdmin(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, exhibit)
}

// CreateExhibit creates an exhibit
// POST /api/v1/exhibits
func (h *ExhibitHandler) CreateExhibit(c echo.Context) error {
	var req models.Exhibit
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
	}

	exhibit, err := h.exhibits.Create(c.Request().Context(), &req, middleware.GetUser(c).UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, exhibit)
}

// UpdateExhibit replaces an exhibit
// PUT /api/v1/exhibits/:id
func (h *ExhibitHandler) UpdateExhibit(c echo.Context) error {
	var req models.Exhibit
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
	}

	exhibit, err := h.exhibits.Update(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, exhibit)
}

// DeleteExhibit deletes an exhibit
// DELETE /api/v1/exhibits/:id
func (h *ExhibitHandler) DeleteExhibit(c echo.Context) error {
	if err := h.exhibits.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
