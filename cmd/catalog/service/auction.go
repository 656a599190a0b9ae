package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cmuseum/catalog/common/bidding"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
	"github.com/cmuseum/catalog/common/validation"
)

// AuctionService handles auction operations and bidding
type AuctionService struct {
	repo      AuctionStore
	artifacts ArtifactLookup
	ledger    *bidding.Ledger
	log       *logger.Logger
}

// NewAuctionService creates a new auction service
func NewAuctionService(repo AuctionStore, artifacts ArtifactLookup, ledger *bidding.Ledger, log *logger.Logger) *AuctionService {
	return &AuctionService{
		repo:      repo,
		artifacts: artifacts,
		ledger:    ledger,
		log:       log,
	}
}

// List returns auctions with their status; visitors only see published ones
func (s *AuctionService) List(ctx context.Context, includeUnpublished bool) ([]models.AuctionDetail, error) {
	auctions, err := s.repo.List(ctx, !includeUnpublished)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}

	now := s.ledger.Now()
	details := make([]models.AuctionDetail, 0, len(auctions))
	for i := range auctions {
		details = append(details, models.AuctionDetail{
			Auction:   auctions[i],
			Status:    bidding.Status(&auctions[i], now),
			Artifacts: []models.Artifact{},
		})
	}
	return details, nil
}

// Get returns an auction with its status and artifacts
func (s *AuctionService) Get(ctx context.Context, id string, includeUnpublished bool) (*models.AuctionDetail, error) {
	a, err := s.visible(ctx, id, includeUnpublished)
	if err != nil {
		return nil, err
	}

	artifacts, err := resolveArtifacts(ctx, s.artifacts, a.ArtifactIDs)
	if err != nil {
		return nil, err
	}

	return &models.AuctionDetail{
		Auction:   *a,
		Status:    bidding.Status(a, s.ledger.Now()),
		Artifacts: artifacts,
	}, nil
}

func (s *AuctionService) visible(ctx context.Context, id string, includeUnpublished bool) (*models.Auction, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get auction: %w", err)
	}
	if !a.Published && !includeUnpublished {
		return nil, fmt.Errorf("auction %s: %w", id, models.ErrNotFound)
	}
	return a, nil
}

func validateAuction(a *models.Auction) error {
	if err := validation.Struct(a); err != nil {
		return err
	}
	if a.MinBidIncrement.IsNegative() {
		return &validation.Error{Fields: []validation.FieldError{{
			Field:   "min_bid_increment",
			Rule:    "gte",
			Message: "min_bid_increment must not be negative",
		}}}
	}
	return nil
}

// Create validates and stores an auction
func (s *AuctionService) Create(ctx context.Context, a *models.Auction, createdBy string) (*models.Auction, error) {
	if err := validateAuction(a); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a.AuctionID = uuid.New().String()
	a.CreatedBy = createdBy
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.ArtifactIDs == nil {
		a.ArtifactIDs = []string{}
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create auction: %w", err)
	}

	s.log.WithAuctionID(a.AuctionID).Info("created auction", "name", a.Name, "start", a.StartDate, "end", a.EndDate)
	return a, nil
}

// Update replaces an auction
func (s *AuctionService) Update(ctx context.Context, id string, a *models.Auction) (*models.Auction, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get auction: %w", err)
	}
	if err := validateAuction(a); err != nil {
		return nil, err
	}

	a.AuctionID = existing.AuctionID
	a.CreatedBy = existing.CreatedBy
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	if a.ArtifactIDs == nil {
		a.ArtifactIDs = []string{}
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update auction: %w", err)
	}

	s.log.WithAuctionID(id).Info("updated auction")
	return a, nil
}

// Delete removes an auction. Its bids stay in the ledger; they are
// unreachable once the auction is gone.
func (s *AuctionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete auction: %w", err)
	}

	s.log.WithAuctionID(id).Info("deleted auction")
	return nil
}

// Bids returns the bid history and minimum next bid of one artifact
func (s *AuctionService) Bids(ctx context.Context, auctionID, artifactID string, includeUnpublished bool) (*models.BidSummary, error) {
	auction, artifact, err := s.lot(ctx, auctionID, artifactID, includeUnpublished)
	if err != nil {
		return nil, err
	}
	return s.ledger.Summary(ctx, auction, artifact)
}

// PlaceBid places a bid on one artifact in an auction for user
func (s *AuctionService) PlaceBid(ctx context.Context, auctionID, artifactID string, user *models.User, amount decimal.Decimal) (*models.Bid, error) {
	if user == nil {
		return nil, models.ErrUnauthenticated
	}

	auction, artifact, err := s.lot(ctx, auctionID, artifactID, user.IsAdmin())
	if err != nil {
		return nil, err
	}

	bidder := &models.Bidder{ID: user.UserID, DisplayName: user.DisplayName}
	return s.ledger.PlaceBid(ctx, auction, artifact, bidder, amount)
}

// lot loads the auction and an artifact offered in it
func (s *AuctionService) lot(ctx context.Context, auctionID, artifactID string, includeUnpublished bool) (*models.Auction, *models.Artifact, error) {
	auction, err := s.visible(ctx, auctionID, includeUnpublished)
	if err != nil {
		return nil, nil, err
	}
	if !auction.Includes(artifactID) {
		return nil, nil, fmt.Errorf("artifact %s in auction %s: %w", artifactID, auctionID, models.ErrNotFound)
	}

	artifact, err := s.artifacts.Get(ctx, artifactID)
	if err != nil {
		return nil, nil, err
	}
	return auction, artifact, nil
}
