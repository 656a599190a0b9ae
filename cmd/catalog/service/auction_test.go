package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmuseum/catalog/common/bidding"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

var auctionNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

type auctionFixture struct {
	svc  *AuctionService
	bids *memBidStore
}

func newAuctionFixture(t *testing.T, auctions ...models.Auction) auctionFixture {
	t.Helper()

	lot := testArtifact("art-1", "IBM 5150")
	lot.StartingBid = decimal.NewNullDecimal(decimal.NewFromInt(500))
	artifacts, _ := newTestArtifactService(t, newMemArtifactStore(lot, testArtifact("art-2", "Osborne 1")))

	store := &memAuctionStore{items: make(map[string]models.Auction)}
	for _, a := range auctions {
		store.items[a.AuctionID] = a
	}

	bids := &memBidStore{}
	ledger := bidding.NewLedger(bids, nil, logger.Discard(), bidding.WithClock(func() time.Time { return auctionNow }))
	return auctionFixture{
		svc:  NewAuctionService(store, artifacts, ledger, logger.Discard()),
		bids: bids,
	}
}

func testAuction(id string, published bool) models.Auction {
	return models.Auction{
		AuctionID:       id,
		Name:            "Spring Sale",
		StartDate:       auctionNow.Add(-time.Hour),
		EndDate:         auctionNow.Add(time.Hour),
		MinBidIncrement: decimal.NewFromInt(25),
		Published:       published,
		ArtifactIDs:     []string{"art-1", "art-2"},
	}
}

var (
	visitor = &models.User{UserID: "u-1", DisplayName: "Ada", Role: models.RoleVisitor}
	admin   = &models.User{UserID: "u-2", DisplayName: "Grace", Role: models.RoleAdmin}
)

func TestAuctionService_PlaceBidSequence(t *testing.T) {
	f := newAuctionFixture(t, testAuction("auc-1", true))
	ctx := context.Background()

	bid, err := f.svc.PlaceBid(ctx, "auc-1", "art-1", visitor, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.Equal(t, "Ada", bid.BidderName)

	_, err = f.svc.PlaceBid(ctx, "auc-1", "art-1", admin, decimal.NewFromInt(510))
	var low *bidding.BidTooLowError
	require.ErrorAs(t, err, &low)
	assert.True(t, decimal.NewFromInt(525).Equal(low.Minimum))

	_, err = f.svc.PlaceBid(ctx, "auc-1", "art-1", admin, decimal.NewFromInt(525))
	require.NoError(t, err)

	summary, err := f.svc.Bids(ctx, "auc-1", "art-1", false)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionActive, summary.Status)
	require.NotNil(t, summary.Highest)
	assert.Equal(t, "u-2", summary.Highest.BidderID)
	assert.True(t, decimal.NewFromInt(550).Equal(summary.MinimumNextBid))
	assert.Len(t, summary.Bids, 2)

	// the second artifact is an independent stream
	other, err := f.svc.Bids(ctx, "auc-1", "art-2", false)
	require.NoError(t, err)
	assert.Nil(t, other.Highest)
	assert.Empty(t, other.Bids)
}

func TestAuctionService_PlaceBidRejections(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(t, testAuction("auc-1", true), testAuction("hidden", false))

	_, err := f.svc.PlaceBid(ctx, "auc-1", "art-1", nil, decimal.NewFromInt(600))
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	_, err = f.svc.PlaceBid(ctx, "auc-1", "art-9", visitor, decimal.NewFromInt(600))
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.svc.PlaceBid(ctx, "hidden", "art-1", visitor, decimal.NewFromInt(600))
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.svc.PlaceBid(ctx, "auc-1", "art-1", visitor, decimal.Zero)
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.Empty(t, f.bids.bids)
}

func TestAuctionService_PlaceBidOutsideWindow(t *testing.T) {
	ended := testAuction("old", true)
	ended.StartDate = auctionNow.Add(-48 * time.Hour)
	ended.EndDate = auctionNow.Add(-24 * time.Hour)

	f := newAuctionFixture(t, ended)

	_, err := f.svc.PlaceBid(context.Background(), "old", "art-1", visitor, decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, bidding.ErrAuctionNotActive)
}

func TestAuctionService_Visibility(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(t, testAuction("pub", true), testAuction("draft", false))

	visible, err := f.svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "pub", visible[0].AuctionID)
	assert.Equal(t, models.AuctionActive, visible[0].Status)

	all, err := f.svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.Get(ctx, "draft", false)
	assert.ErrorIs(t, err, models.ErrNotFound)

	detail, err := f.svc.Get(ctx, "draft", true)
	require.NoError(t, err)
	require.Len(t, detail.Artifacts, 2)
	assert.Equal(t, "art-1", detail.Artifacts[0].ArtifactID)
	assert.Equal(t, "art-2", detail.Artifacts[1].ArtifactID)
}

func TestAuctionService_CreateValidates(t *testing.T) {
	f := newAuctionFixture(t)
	ctx := context.Background()

	backwards := testAuction("", true)
	backwards.EndDate = backwards.StartDate.Add(-time.Minute)
	_, err := f.svc.Create(ctx, &backwards, "curator")
	assert.ErrorIs(t, err, models.ErrValidation)

	negative := testAuction("", true)
	negative.MinBidIncrement = decimal.NewFromInt(-1)
	_, err = f.svc.Create(ctx, &negative, "curator")
	assert.ErrorIs(t, err, models.ErrValidation)

	ok := testAuction("", true)
	created, err := f.svc.Create(ctx, &ok, "curator")
	require.NoError(t, err)
	assert.NotEmpty(t, created.AuctionID)
}

func TestAuctionService_DeleteKeepsBids(t *testing.T) {
	ctx := context.Background()
	f := newAuctionFixture(t, testAuction("auc-1", true))

	bid, err := f.svc.PlaceBid(ctx, "auc-1", "art-1", visitor, decimal.NewFromInt(500))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, "auc-1"))
	require.Len(t, f.bids.bids, 1)
	assert.Equal(t, bid.BidID, f.bids.bids[0].BidID)

	assert.ErrorIs(t, f.svc.Delete(ctx, "auc-1"), models.ErrNotFound)
}
