package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
	"github.com/cmuseum/catalog/common/validation"
)

// ArtifactLookup resolves artifact references held by exhibits and auctions
type ArtifactLookup interface {
	Get(ctx context.Context, id string) (*models.Artifact, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Artifact, error)
}

// resolveArtifacts loads ids in order, skipping those that no longer exist
func resolveArtifacts(ctx context.Context, lookup ArtifactLookup, ids []string) ([]models.Artifact, error) {
	found, err := lookup.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve artifacts: %w", err)
	}

	byID := make(map[string]models.Artifact, len(found))
	for _, a := range found {
		byID[a.ArtifactID] = a
	}

	out := make([]models.Artifact, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// ExhibitService handles exhibit operations
type ExhibitService struct {
	repo      ExhibitStore
	artifacts ArtifactLookup
	log       *logger.Logger
}

// NewExhibitService creates a new exhibit service
func NewExhibitService(repo ExhibitStore, artifacts ArtifactLookup, log *logger.Logger) *ExhibitService {
	return &ExhibitService{
		repo:      repo,
		artifacts: artifacts,
		log:       log,
	}
}

// List returns exhibits; visitors only see published ones
func (s *ExhibitService) List(ctx context.Context, includeUnpublished bool) ([]models.Exhibit, error) {
	exhibits, err := s.repo.List(ctx, !includeUnpublished)
	if err != nil {
		return nil, fmt.Errorf("failed to list exhibits: %w", err)
	}
	return exhibits, nil
}

// Get returns an exhibit with its artifacts. Unpublished exhibits are
// reported as not found unless includeUnpublished is set.
func (s *ExhibitService) Get(ctx context.Context, id string, includeUnpublished bool) (*models.ExhibitDetail, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get exhibit: %w", err)
	}
	if !e.Published && !includeUnpublished {
		return nil, fmt.Errorf("exhibit %s: %w", id, models.ErrNotFound)
	}

	artifacts, err := resolveArtifacts(ctx, s.artifacts, e.ArtifactIDs)
	if err != nil {
		return nil, err
	}
	return &models.ExhibitDetail{Exhibit: *e, Artifacts: artifacts}, nil
}

// Create validates and stores an exhibit
func (s *ExhibitService) Create(ctx context.Context, e *models.Exhibit, createdBy string) (*models.Exhibit, error) {
	if err := validation.Struct(e); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	e.ExhibitID = uuid.New().String()
	e.CreatedBy = createdBy
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.ArtifactIDs == nil {
		e.ArtifactIDs = []string{}
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create exhibit: %w", err)
	}

	s.log.Info("created exhibit", "exhibit_id", e.ExhibitID, "name", e.Name, "artifacts", len(e.ArtifactIDs))
	return e, nil
}

// Update replaces an exhibit
func (s *ExhibitService) Update(ctx context.Context, id string, e *models.Exhibit) (*models.Exhibit, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get exhibit: %w", err)
	}
	if err := validation.Struct(e); err != nil {
		return nil, err
	}

	e.ExhibitID = existing.ExhibitID
	e.CreatedBy = existing.CreatedBy
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = time.Now().UTC()
	if e.ArtifactIDs == nil {
		e.ArtifactIDs = []string{}
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update exhibit: %w", err)
	}

	s.log.Info("updated exhibit", "exhibit_id", id)
	return e, nil
}

// Delete removes an exhibit
func (s *ExhibitService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete exhibit: %w", err)
	}
	s.log.Info("deleted exhibit", "exhibit_id", id)
	return nil
}
