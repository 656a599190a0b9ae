package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/cmuseum/catalog/cmd/catalog/container"
	"github.com/cmuseum/catalog/cmd/catalog/handlers"
	"github.com/cmuseum/catalog/cmd/catalog/middleware"
)

// RegisterSessionRoutes registers sign-in, sign-out and role administration
func RegisterSessionRoutes(api *echo.Group, c *container.Container) {
	sessions := handlers.NewSessionHandler(c.SessionService, c.Components.Logger)

	api.POST("/sessions", sessions.SignIn)
	api.DELETE("/sessions", sessions.SignOut, middleware.RequireSession())
	api.GET("/me", sessions.Me, middleware.RequireSession())

	users := handlers.NewUserHandler(c.UserService, c.Components.Logger)

	admin := api.Group("/users", middleware.RequireAdmin())
	{
		admin.GET("", users.ListUsers)
		admin.PUT("/:id/role", users.SetRole)
	}
}
