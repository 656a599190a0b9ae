package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/cmuseum/catalog/cmd/catalog/container"
	"github.com/cmuseum/catalog/cmd/catalog/handlers"
	"github.com/cmuseum/catalog/cmd/catalog/middleware"
)

// RegisterExhibitRoutes registers exhibit routes
func RegisterExhibitRoutes(api *echo.Group, c *container.Container) {
	h := handlers.NewExhibitHandler(c.ExhibitService, c.Components.Logger)

	exhibits := api.Group("/exhibits")
	{
		exhibits.GET("", h.ListExhibits)
		exhibits.GET("/:id", h.GetExhibit)
	}

	admin := exhibits.Group("", middleware.RequireAdmin())
	{
		admin.POST("", h.CreateExhibit)
		admin.PUT("/:id", h.UpdateExhibit)
		admin.DELETE("/:id", h.DeleteExhibit)
	}
}
