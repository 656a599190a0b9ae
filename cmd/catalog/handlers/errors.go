package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cmuseum/catalog/common/bidding"
	"github.com/cmuseum/catalog/common/catalog"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
	"github.com/cmuseum/catalog/common/validation"
)

// errorStatus maps an error onto an HTTP status and a stable error code
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, bidding.ErrBidTooLow):
		return http.StatusUnprocessableEntity, "bid_too_low"
	case errors.Is(err, bidding.ErrAuctionNotActive):
		return http.StatusConflict, "auction_not_active"
	case errors.Is(err, catalog.ErrNotPermutation):
		return http.StatusConflict, "not_permutation"
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, models.ErrDuplicateName):
		return http.StatusConflict, "duplicate_name"
	case errors.Is(err, models.ErrDisplayGroupInUse):
		return http.StatusConflict, "display_group_in_use"
	case errors.Is(err, models.ErrExternalService):
		return http.StatusBadGateway, "external_service"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// respondError writes err as a JSON error body. Server-side failures are
// logged and their details withheld from the client.
func respondError(c echo.Context, log *logger.Logger, err error) error {
	status, code := errorStatus(err)

	body := map[string]interface{}{
		"error":   code,
		"message": err.Error(),
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		body["details"] = verr.Fields
	}

	var low *bidding.BidTooLowError
	if errors.As(err, &low) {
		body["details"] = map[string]interface{}{
			"amount":           low.Amount.StringFixed(2),
			"minimum_next_bid": low.Minimum.StringFixed(2),
		}
	}

	if status >= http.StatusInternalServerError {
		log.WithContext(c.Request().Context()).Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err)
		if status == http.StatusInternalServerError {
			body["message"] = "internal error"
		}
	}

	return c.JSON(status, body)
}
