package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/cmuseum/catalog/cmd/catalog/container"
	"github.com/cmuseum/catalog/cmd/catalog/handlers"
	"github.com/cmuseum/catalog/cmd/catalog/middleware"
)

// RegisterBlobRoutes registers image upload (admin) and download (public)
func RegisterBlobRoutes(e *echo.Echo, api *echo.Group, c *container.Container) {
	h := handlers.NewBlobHandler(c.BlobService, c.Components.Config.Catalog.MaxUploadBytes, c.Components.Logger)

	// GET /blobs/sha256:<hex>; matches the refs stored on artifacts
	e.GET("/blobs/:id", h.GetImage)

	api.POST("/blobs", h.UploadImage, middleware.RequireAdmin())
}
