package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/cmuseum/catalog/cmd/catalog/middleware"
	"github.com/cmuseum/catalog/cmd/catalog/service"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

// AuctionHandler handles auction and bid requests
type AuctionHandler struct {
	auctions *service.AuctionService
	log      *logger.Logger
}

// NewAuctionHandler creates a new auction handler
func NewAuctionHandler(auctions *service.AuctionService, log *logger.Logger) *AuctionHandler {
	return &AuctionHandler{
		auctions: auctions,
		log:      log,
	}
}

// ListAuctions lists auctions with their status
// GET /api/v1/auctions
func (h *AuctionHandler) ListAuctions(c echo.Context) error {
	auctions, err := h.auctions.List(c.Request().Context(), middleware.IsAdmin(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"auctions": auctions,
	})
}

// GetAuction returns an auction with its artifacts
// GET /api/v1/auctions/:id
func (h *AuctionHandler) GetAuction(c echo.Context) error {
	auction, err := h.auctions.Get(c.Request().Context(), c.Param("id"), middleware.IsAdmin(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, auction)
}

// CreateAuction creates an auction
// POST /api/v1/auctions
func (h *AuctionHandler) CreateAuction(c echo.Context) error {
	var req models.Auction
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
	}

	auction, err := h.auctions.Create(c.Request().Context(), &req, middleware.GetUser(c).UserID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, auction)
}

// UpdateAuction replaces an auction
// PUT /api/v1/auctions/:id
func (h *AuctionHandler) UpdateAuction(c echo.Context) error {
	var req models.Auction
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: invalid request body", models.ErrValidation))
	}

	auction, err := h.auctions.Update(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, auction)
}

// DeleteAuction deletes an auction and its bids
// DELETE /api/v1/auctions/:id
func (h *AuctionHandler) DeleteAuction(c echo.Context) error {
	if err := h.auctions.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetBids returns the bid history, standing bid and minimum next bid
// GET /api/v1/auctions/:id/artifacts/:artifactId/bids
func (h *AuctionHandler) GetBids(c echo.Context) error {
	summary, err := h.auctions.Bids(c.Request().Context(), c.Param("id"), c.Param("artifactId"), middleware.IsAdmin(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// PlaceBid places a bid as the signed-in user
// POST /api/v1/auctions/:id/artifacts/:artifactId/bids
func (h *AuctionHandler) PlaceBid(c echo.Context) error {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: amount must be a number", models.ErrValidation))
	}

	bid, err := h.auctions.PlaceBid(c.Request().Context(), c.Param("id"), c.Param("artifactId"), middleware.GetUser(c), req.Amount)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, bid)
}
