package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmuseum/catalog/common/bidding"
	"github.com/cmuseum/catalog/common/catalog"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"bid too low", &bidding.BidTooLowError{}, http.StatusUnprocessableEntity, "bid_too_low"},
		{"auction closed", fmt.Errorf("place bid: %w", bidding.ErrAuctionNotActive), http.StatusConflict, "auction_not_active"},
		{"reorder mismatch", catalog.ErrNotPermutation, http.StatusConflict, "not_permutation"},
		{"validation", fmt.Errorf("%w: name is required", models.ErrValidation), http.StatusBadRequest, "validation"},
		{"unauthenticated", models.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"forbidden", models.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", fmt.Errorf("failed to get artifact: %w", models.ErrNotFound), http.StatusNotFound, "not_found"},
		{"duplicate", models.ErrDuplicateName, http.StatusConflict, "duplicate_name"},
		{"group in use", models.ErrDisplayGroupInUse, http.StatusConflict, "display_group_in_use"},
		{"store down", fmt.Errorf("failed to list: %w", models.ErrExternalService), http.StatusBadGateway, "external_service"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := errorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func respond(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, respondError(c, logger.Discard(), err))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestRespondError_BidTooLowDetails(t *testing.T) {
	status, body := respond(t, &bidding.BidTooLowError{
		Amount:  decimal.NewFromInt(520),
		Minimum: decimal.NewFromInt(525),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "bid_too_low", body["error"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "520.00", details["amount"])
	assert.Equal(t, "525.00", details["minimum_next_bid"])
}

func TestRespondError_HidesInternalMessages(t *testing.T) {
	status, body := respond(t, errors.New("pq: connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal error", body["message"])
}
