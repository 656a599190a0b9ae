package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/cmuseum/catalog/cmd/catalog/container"
	"github.com/cmuseum/catalog/cmd/catalog/handlers"
	"github.com/cmuseum/catalog/cmd/catalog/middleware"
)

// RegisterDisplayGroupRoutes registers display group routes
func RegisterDisplayGroupRoutes(api *echo.Group, c *container.Container) {
	h := handlers.NewDisplayGroupHandler(c.DisplayGroupService, c.Components.Logger)

	groups := api.Group("/display-groups")
	groups.GET("", h.ListDisplayGroups)

	admin := groups.Group("", middleware.RequireAdmin())
	{
		admin.POST("", h.CreateDisplayGroup)
		admin.PUT("/:id", h.UpdateDisplayGroup)
		admin.DELETE("/:id", h.DeleteDisplayGroup)
	}
}
