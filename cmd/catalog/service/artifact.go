package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"

	"github.com/cmuseum/catalog/common/cache"
	"github.com/cmuseum/catalog/common/catalog"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
	"github.com/cmuseum/catalog/common/queue"
	"github.com/cmuseum/catalog/common/validation"
)

const artifactListCacheKey = "artifacts:all"

// ArtifactService handles artifact catalog operations
type ArtifactService struct {
	repo    ArtifactStore
	cache   cache.Cache
	listTTL time.Duration
	queue   queue.Queue
	engine  *catalog.Engine
	patches *validation.PatchValidator
	log     *logger.Logger
}

// NewArtifactService creates a new artifact service. cache and q may be nil.
func NewArtifactService(repo ArtifactStore, c cache.Cache, listTTL time.Duration, q queue.Queue, engine *catalog.Engine, log *logger.Logger) *ArtifactService {
	return &ArtifactService{
		repo:    repo,
		cache:   c,
		listTTL: listTTL,
		queue:   q,
		engine:  engine,
		patches: validation.ArtifactPatchValidator(),
		log:     log,
	}
}

// List returns the public view of the collection for params
func (s *ArtifactService) List(ctx context.Context, params catalog.ViewParams) ([]models.Artifact, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.DeriveView(all, params)
}

func (s *ArtifactService) all(ctx context.Context) ([]models.Artifact, error) {
	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, artifactListCacheKey)
		if err == nil && ok {
			var cached []models.Artifact
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	artifacts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(artifacts); err == nil {
			if err := s.cache.Set(ctx, artifactListCacheKey, raw, s.listTTL); err != nil {
				s.log.Warn("failed to cache artifact list", "error", err)
			}
		}
	}
	return artifacts, nil
}

func (s *ArtifactService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, artifactListCacheKey); err != nil {
		s.log.Warn("failed to invalidate artifact list", "error", err)
	}
}

// Get returns one artifact
func (s *ArtifactService) Get(ctx context.Context, id string) (*models.Artifact, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	return a, nil
}

// Create validates and stores a new artifact
func (s *ArtifactService) Create(ctx context.Context, a *models.Artifact, createdBy string) (*models.Artifact, error) {
	if err := validation.Struct(a); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a.ArtifactID = uuid.New().String()
	a.CreatedBy = createdBy
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Images == nil {
		a.Images = []string{}
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create artifact: %w", err)
	}
	s.invalidate(ctx)

	s.log.WithArtifactID(a.ArtifactID).Info("created artifact", "name", a.Name, "display_group", a.DisplayGroup)
	return a, nil
}

// Update replaces an artifact. A nil image list keeps the current images.
func (s *ArtifactService) Update(ctx context.Context, id string, a *models.Artifact) (*models.Artifact, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Images == nil {
		a.Images = existing.Images
	}
	return s.save(ctx, existing, a)
}

// Patch applies a JSON merge patch to an artifact
func (s *ArtifactService) Patch(ctx context.Context, id string, patch []byte) (*models.Artifact, error) {
	if err := s.patches.ValidateMergePatch(patch); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	doc, err := json.Marshal(existing)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal artifact: %w", err)
	}

	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to apply merge patch: %v", models.ErrValidation, err)
	}

	var updated models.Artifact
	if err := json.Unmarshal(merged, &updated); err != nil {
		return nil, fmt.Errorf("%w: patched artifact is invalid: %v", models.ErrValidation, err)
	}
	if updated.Images == nil {
		updated.Images = []string{}
	}

	return s.save(ctx, existing, &updated)
}

// save validates next, keeps the identity of existing and persists it
func (s *ArtifactService) save(ctx context.Context, existing, next *models.Artifact) (*models.Artifact, error) {
	next.ArtifactID = existing.ArtifactID
	next.CreatedBy = existing.CreatedBy
	next.CreatedAt = existing.CreatedAt
	next.UpdatedAt = time.Now().UTC()

	if err := validation.Struct(next); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to update artifact: %w", err)
	}
	s.invalidate(ctx)

	s.enqueueCleanup(ctx, next.ArtifactID, removedRefs(existing.Images, next.Images))
	s.log.WithArtifactID(next.ArtifactID).Info("updated artifact")
	return next, nil
}

// Delete removes an artifact, then enqueues deletion of its images. Image
// cleanup is best-effort; the record delete has already succeeded.
func (s *ArtifactService) Delete(ctx context.Context, id string) error {
	images, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	s.invalidate(ctx)

	s.enqueueCleanup(ctx, id, images)
	s.log.WithArtifactID(id).Info("deleted artifact", "images", len(images))
	return nil
}

// AddImage appends an image reference
func (s *ArtifactService) AddImage(ctx context.Context, id, ref string) (*models.Artifact, error) {
	return s.editImages(ctx, id, func(l catalog.ImageList) (catalog.ImageList, error) {
		return catalog.NewImageList(append(l.Items(), ref)), nil
	})
}

// RemoveImage removes the image at index
func (s *ArtifactService) RemoveImage(ctx context.Context, id string, index int) (*models.Artifact, error) {
	return s.editImages(ctx, id, func(l catalog.ImageList) (catalog.ImageList, error) {
		return l.Remove(index), nil
	})
}

// MoveImageUp swaps the image at index with its predecessor
func (s *ArtifactService) MoveImageUp(ctx context.Context, id string, index int) (*models.Artifact, error) {
	return s.editImages(ctx, id, func(l catalog.ImageList) (catalog.ImageList, error) {
		return l.MoveUp(index), nil
	})
}

// MoveImageDown swaps the image at index with its successor
func (s *ArtifactService) MoveImageDown(ctx context.Context, id string, index int) (*models.Artifact, error) {
	return s.editImages(ctx, id, func(l catalog.ImageList) (catalog.ImageList, error) {
		return l.MoveDown(index), nil
	})
}

// ReorderImages replaces the order of the images with seq
func (s *ArtifactService) ReorderImages(ctx context.Context, id string, seq []string) (*models.Artifact, error) {
	return s.editImages(ctx, id, func(l catalog.ImageList) (catalog.ImageList, error) {
		return l.Reorder(seq)
	})
}

func (s *ArtifactService) editImages(ctx context.Context, id string, edit func(catalog.ImageList) (catalog.ImageList, error)) (*models.Artifact, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	current := catalog.NewImageList(existing.Images)
	next, err := edit(current)
	if err != nil {
		return nil, err
	}
	if next.Equal(current) {
		return existing, nil
	}

	updated := *existing
	updated.Images = next.Items()
	return s.save(ctx, existing, &updated)
}

// CountByDisplayGroup counts artifacts in a display group
func (s *ArtifactService) CountByDisplayGroup(ctx context.Context, name string) (int, error) {
	return s.repo.CountByDisplayGroup(ctx, name)
}

// RenameDisplayGroup moves artifacts to a renamed display group
func (s *ArtifactService) RenameDisplayGroup(ctx context.Context, from, to string) (int64, error) {
	n, err := s.repo.RenameDisplayGroup(ctx, from, to)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidate(ctx)
	}
	return n, nil
}

// GetByIDs returns the artifacts among ids that still exist
func (s *ArtifactService) GetByIDs(ctx context.Context, ids []string) ([]models.Artifact, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *ArtifactService) enqueueCleanup(ctx context.Context, artifactID string, refs []string) {
	owned := make([]string, 0, len(refs))
	for _, ref := range refs {
		if _, ok := models.BlobIDFromRef(ref); ok {
			owned = append(owned, ref)
		}
	}
	if len(owned) == 0 || s.queue == nil {
		return
	}

	payload, err := json.Marshal(models.BlobDeleteRequest{ArtifactID: artifactID, Refs: owned})
	if err != nil {
		s.log.Warn("failed to marshal blob cleanup", "error", err)
		return
	}
	if err := s.queue.Publish(ctx, queue.TopicBlobDelete, artifactID, payload); err != nil {
		s.log.WithArtifactID(artifactID).Warn("failed to enqueue blob cleanup", "refs", owned, "error", err)
	}
}

// removedRefs returns the references in before that are absent from after
func removedRefs(before, after []string) []string {
	var removed []string
	for _, ref := range before {
		if !slices.Contains(after, ref) {
			removed = append(removed, ref)
		}
	}
	return removed
}
