package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/cmuseum/catalog/cmd/catalog/container"
	"github.com/cmuseum/catalog/cmd/catalog/handlers"
	"github.com/cmuseum/catalog/cmd/catalog/middleware"
)

// RegisterArtifactRoutes registers artifact and image list routes
func RegisterArtifactRoutes(api *echo.Group, c *container.Container) {
	h := handlers.NewArtifactHandler(c.ArtifactService, c.Components.Logger)

	artifacts := api.Group("/artifacts")
	{
		artifacts.GET("", h.ListArtifacts)
		artifacts.GET("/:id", h.GetArtifact)
	}

	admin := artifacts.Group("", middleware.RequireAdmin())
	{
		admin.POST("", h.CreateArtifact)
		admin.PUT("/:id", h.UpdateArtifact)
		admin.PATCH("/:id", h.PatchArtifact)
		admin.DELETE("/:id", h.DeleteArtifact)

		admin.POST("/:id/images", h.AddImage)
		admin.PUT("/:id/images", h.ReorderImages)
		admin.DELETE("/:id/images/:index", h.RemoveImage)
		admin.POST("/:id/images/:index/move", h.MoveImage)
	}
}
