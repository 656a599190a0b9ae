package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
	"github.com/cmuseum/catalog/common/validation"
)

// GroupMembership reads and moves the artifacts of a display group
type GroupMembership interface {
	CountByDisplayGroup(ctx context.Context, name string) (int, error)
	RenameDisplayGroup(ctx context.Context, from, to string) (int64, error)
}

// DisplayGroupService handles display group operations
type DisplayGroupService struct {
	repo      DisplayGroupStore
	artifacts GroupMembership
	log       *logger.Logger
}

// NewDisplayGroupService creates a new display group service
func NewDisplayGroupService(repo DisplayGroupStore, artifacts GroupMembership, log *logger.Logger) *DisplayGroupService {
	return &DisplayGroupService{
		repo:      repo,
		artifacts: artifacts,
		log:       log,
	}
}

// List returns display groups ordered by sort order
func (s *DisplayGroupService) List(ctx context.Context) ([]models.DisplayGroup, error) {
	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list display groups: %w", err)
	}
	return groups, nil
}

// Create validates and stores a display group with a unique name
func (s *DisplayGroupService) Create(ctx context.Context, g *models.DisplayGroup, createdBy string) (*models.DisplayGroup, error) {
	g.Name = strings.TrimSpace(g.Name)
	if err := validation.Struct(g); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, g.Name, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	g.GroupID = uuid.New().String()
	g.CreatedBy = createdBy
	g.CreatedAt = now
	g.UpdatedAt = now

	if err := s.repo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to create display group: %w", err)
	}

	s.log.Info("created display group", "group_id", g.GroupID, "name", g.Name)
	return g, nil
}

// Update replaces a display group. Renaming moves its artifacts along.
func (s *DisplayGroupService) Update(ctx context.Context, id string, g *models.DisplayGroup) (*models.DisplayGroup, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get display group: %w", err)
	}

	g.Name = strings.TrimSpace(g.Name)
	if err := validation.Struct(g); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, g.Name, id); err != nil {
		return nil, err
	}

	g.GroupID = existing.GroupID
	g.CreatedBy = existing.CreatedBy
	g.CreatedAt = existing.CreatedAt
	g.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to update display group: %w", err)
	}

	if g.Name != existing.Name {
		moved, err := s.artifacts.RenameDisplayGroup(ctx, existing.Name, g.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to move artifacts to renamed group: %w", err)
		}
		s.log.Info("renamed display group", "group_id", id, "from", existing.Name, "to", g.Name, "artifacts", moved)
	}

	return g, nil
}

// Delete removes a display group that no artifact references
func (s *DisplayGroupService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get display group: %w", err)
	}

	n, err := s.artifacts.CountByDisplayGroup(ctx, existing.Name)
	if err != nil {
		return fmt.Errorf("failed to count artifacts: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("display group %q has %d artifacts: %w", existing.Name, n, models.ErrDisplayGroupInUse)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete display group: %w", err)
	}

	s.log.Info("deleted display group", "group_id", id, "name", existing.Name)
	return nil
}

// ensureUniqueName fails if another group (not selfID) already uses name,
// ignoring case
func (s *DisplayGroupService) ensureUniqueName(ctx context.Context, name, selfID string) error {
	other, err := s.repo.GetByName(ctx, name)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up display group: %w", err)
	}
	if other.GroupID == selfID {
		return nil
	}
	return fmt.Errorf("display group %q: %w", name, models.ErrDuplicateName)
}
