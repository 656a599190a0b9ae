package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/cmuseum/catalog/cmd/catalog/container"
	catalogmw "github.com/cmuseum/catalog/cmd/catalog/middleware"
	"github.com/cmuseum/catalog/cmd/catalog/routes"
	"github.com/cmuseum/catalog/common/bootstrap"
	"github.com/cmuseum/catalog/common/db"
	"github.com/cmuseum/catalog/common/logger"
	commonmw "github.com/cmuseum/catalog/common/middleware"
	"github.com/cmuseum/catalog/common/server"
	"github.com/cmuseum/catalog/common/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bootstrap common components (DB, redis, queue, cache, telemetry)
	components, err := bootstrap.Setup(ctx, "catalog",
		bootstrap.WithDBInitHook(func(d *db.DB) error {
			return db.Migrate(ctx, d)
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap catalog: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(context.Background())

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		components.Logger.Error("failed to initialize service container", "error", err)
		os.Exit(1)
	}

	if serviceContainer.BlobCleanup != nil {
		if err := serviceContainer.BlobCleanup.Start(ctx); err != nil {
			components.Logger.Error("failed to start blob cleanup worker", "error", err)
			os.Exit(1)
		}
	}

	e := setupEcho()
	setupMiddleware(e, serviceContainer)
	setupHealthCheck(e, components)
	registerRoutes(e, serviceContainer)

	srv := server.New("catalog", components.Config.Service.Port, e, components.Logger)
	if err := srv.Run(ctx); err != nil {
		components.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo, c *container.Container) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(requestLogContext())
	e.Use(observeDuration(c.Components.Metrics()))

	if c.Components.Config.Features.EnableRateLimit {
		e.Use(commonmw.GlobalRateLimitMiddleware(c.RateLimiter, c.Components.Config.Bidding.GlobalAPILimit))
	}

	e.Use(catalogmw.ResolveSession(c.SessionService))
}

// requestLogContext puts the request id where logger.WithContext finds it
func requestLogContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID != "" {
				ctx := logger.NewContext(c.Request().Context(), requestID)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// observeDuration records request latency per route
func observeDuration(m *telemetry.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			m.ObserveOperation(c.Request().Method+" "+c.Path(), time.Since(start))
			return err
		}
	}
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, components *bootstrap.Components) {
	e.GET("/health", func(c echo.Context) error {
		if err := components.Health(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"service": "catalog",
				"error":   err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "catalog",
		})
	})
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, c *container.Container) {
	api := e.Group("/api/v1")

	routes.RegisterSessionRoutes(api, c)
	routes.RegisterArtifactRoutes(api, c)
	routes.RegisterBlobRoutes(e, api, c)
	routes.RegisterDisplayGroupRoutes(api, c)
	routes.RegisterExhibitRoutes(api, c)
	routes.RegisterAuctionRoutes(api, c)
}
