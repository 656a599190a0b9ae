package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cmuseum/catalog/cmd/catalog/middleware"
	"github.com/cmuseum/catalog/cmd/catalog/service"
	"github.com/cmuseum/catalog/common/catalog"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

const maxPatchBytes = 1 << 20

// ArtifactHandler handles artifact requests
type ArtifactHandler struct {
	artifacts *service.ArtifactService
	log       *logger.Logger
}

// NewArtifactHandler creates a new artifact handler
func NewArtifactHandler(artifacts *service.ArtifactService, log *logger.Logger) *ArtifactHandler {
	return &ArtifactHandler{
		artifacts: artifacts,
		log:       log,
	}
}

// ListArtifacts returns the filtered, sorted public view
// GET /api/v1/artifacts?q=&category=&display_group=&sort_by=&sort_order=&expr=
func (h *ArtifactHandler) ListArtifacts(c echo.Context) error {
	var params catalog.ViewParams
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &params); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: invalid query: %v", models.ErrValidation, err))
	}

	artifacts, err := h.artifacts.List(c.Request().Context(), params)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"artifacts": artifacts,
		"count":     len(artifacts),
	})
}

// GetArtifact returns one artifact
// GET /api/v1/artifacts/:id
func (h *ArtifactHandler) GetArtifact(c echo.Context) error {
	artifact, err := h.artifacts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, artifact)
}

// CreateArtifact creates an artifact
// POST /api/v1/artifacts
func (h *ArtifactHandler) CreateArtifact(c echo.Context) error {
	var req models.Artifact
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
	}

	artifact, err := h.artifacts.Create(c.Request().Context(), &req, middleware.GetUser(c).UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, artifact)
}

// UpdateArtifact replaces an artifact
// PUT /api/v1/artifacts/:id
func (h *ArtifactHandler) UpdateArtifact(c echo.Context) error {
	var req models.Artifact
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
	}

	artifact, err := h.artifacts.Update(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, artifact)
}

// PatchArtifact applies a JSON merge patch
// PATCH /api/v1/artifacts/:id
func (h *ArtifactHandler) PatchArtifact(c echo.Context) error {
	patch, err := io.ReadAll(io.LimitReader(c.Request().Body, maxPatchBytes))
	if err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: failed to read patch", models.ErrValidation))
	}

	artifact, err := h.artifacts.Patch(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, artifact)
}

// DeleteArtifact deletes an artifact and schedules its images for cleanup
// DELETE /api/v1/artifacts/:id
func (h *ArtifactHandler) DeleteArtifact(c echo.Context) error {
	if err := h.artifacts.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddImage appends an uploaded image reference
// POST /api/v1/artifacts/:id/images
func (h *ArtifactHandler) AddImage(c echo.Context) error {
	var req struct {
		Ref string `json:"ref"`
	}
	if err := c.Bind(&req); err != nil || req.Ref == "" {
		return respondError(c, h.log, fmt.Errorf("%w: ref is required", models.ErrValidation))
	}

	artifact, err := h.artifacts.AddImage(c.Request().Context(), c.Param("id"), req.Ref)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, artifact)
}

// RemoveImage removes the image at an index
// DELETE /api/v1/artifacts/:id/images/:index
func (h *ArtifactHandler) RemoveImage(c echo.Context) error {
	index, err := imageIndex(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	artifact, err := h.artifacts.RemoveImage(c.Request().Context(), c.Param("id"), index)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, artifact)
}

// MoveImage moves the image at an index one place up or down
// POST /api/v1/artifacts/:id/images/:index/move
func (h *ArtifactHandler) MoveImage(c echo.Context) error {
	index, err := imageIndex(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
	}

	ctx := c.Request().Context()
	id := c.Param("id")

	var artifact *models.Artifact
	switch req.Direction {
	case "up":
		artifact, err = h.artifacts.MoveImageUp(ctx, id, index)
	case "down":
		artifact, err = h.artifacts.MoveImageDown(ctx, id, index)
	default:
		err = fmt.Errorf("%w: direction must be up or down", models.ErrValidation)
	}
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, artifact)
}

// ReorderImages replaces the image order
// PUT /api/v1/artifacts/:id/images
func (h *ArtifactHandler) ReorderImages(c echo.Context) error {
	var req struct {
		Images []string `json:"images"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
	}

	artifact, err := h.artifacts.ReorderImages(c.Request().Context(), c.Param("id"), req.Images)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, artifact)
}

func imageIndex(c echo.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, fmt.Errorf("%w: image index must be an integer", models.ErrValidation)
	}
	return index, nil
}
