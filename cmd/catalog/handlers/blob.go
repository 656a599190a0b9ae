package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cmuseum/catalog/cmd/catalog/middleware"
	"github.com/cmuseum/catalog/cmd/catalog/service"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

// BlobHandler handles image upload and download
type BlobHandler struct {
	blobs    *service.BlobService
	maxBytes int64
	log      *logger.Logger
}

// NewBlobHandler creates a new blob handler
func NewBlobHandler(blobs *service.BlobService, maxBytes int64, log *logger.Logger) *BlobHandler {
	return &BlobHandler{
		blobs:    blobs,
		maxBytes: maxBytes,
		log:      log,
	}
}

// UploadImage stores a multipart "file" upload
// POST /api/v1/blobs
func (h *BlobHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: multipart field 'file' is required", models.ErrValidation))
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: failed to open upload", models.ErrValidation))
	}
	defer src.Close()

	// one byte past the limit lets the service reject oversized uploads
	content, err := io.ReadAll(io.LimitReader(src, h.maxBytes+1))
	if err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: failed to read upload", models.ErrValidation))
	}

	blob, err := h.blobs.Upload(c.Request().Context(), content, middleware.GetUser(c).UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"blob_id":    blob.BlobID,
		"ref":        blob.Ref(),
		"media_type": blob.MediaType,
		"size_bytes": blob.SizeBytes,
	})
}

// GetImage serves image bytes. Content-addressed, so cacheable forever.
// GET /blobs/:id
func (h *BlobHandler) GetImage(c echo.Context) error {
	blob, err := h.blobs.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	c.Response().Header().Set("ETag", `"`+blob.BlobID+`"`)
	return c.Blob(http.StatusOK, blob.MediaType, blob.Content)
}
