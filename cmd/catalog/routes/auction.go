package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/cmuseum/catalog/cmd/catalog/container"
	"github.com/cmuseum/catalog/cmd/catalog/handlers"
	"github.com/cmuseum/catalog/cmd/catalog/middleware"
	commonmw "github.com/cmuseum/catalog/common/middleware"
	"github.com/cmuseum/catalog/common/ratelimit"
)

// RegisterAuctionRoutes registers auction and bidding routes
func RegisterAuctionRoutes(api *echo.Group, c *container.Container) {
	h := handlers.NewAuctionHandler(c.AuctionService, c.Components.Logger)

	auctions := api.Group("/auctions")
	{
		auctions.GET("", h.ListAuctions)
		auctions.GET("/:id", h.GetAuction)
		auctions.GET("/:id/artifacts/:artifactId/bids", h.GetBids)
	}

	// Anonymous bids reach the handler and are rejected there
	var bidMiddleware []echo.MiddlewareFunc
	if c.RateLimiter != nil && c.Components.Config.Features.EnableRateLimit {
		bidMiddleware = append(bidMiddleware,
			commonmw.BidRateLimitMiddleware(c.RateLimiter, ratelimit.LimitsFromConfig(c.Components.Config.Bidding)))
	}
	auctions.POST("/:id/artifacts/:artifactId/bids", h.PlaceBid, bidMiddleware...)

	admin := auctions.Group("", middleware.RequireAdmin())
	{
		admin.POST("", h.CreateAuction)
		admin.PUT("/:id", h.UpdateAuction)
		admin.DELETE("/:id", h.DeleteAuction)
	}
}
