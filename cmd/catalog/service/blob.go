package service

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/cmuseum/catalog/common/cache"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

type cachedBlob struct {
	MediaType string `json:"media_type"`
	Content   []byte `json:"content"`
}

// BlobService handles content-addressed image storage
type BlobService struct {
	repo     BlobStore
	refs     ImageRefCounter
	cache    cache.Cache
	cacheTTL time.Duration
	maxBytes int64
	log      *logger.Logger
}

// ImageRefCounter reports how many artifacts still reference an image
type ImageRefCounter interface {
	CountImageRefs(ctx context.Context, ref string) (int, error)
}

// NewBlobService creates a new blob service. cache may be nil.
func NewBlobService(repo BlobStore, refs ImageRefCounter, c cache.Cache, cacheTTL time.Duration, maxBytes int64, log *logger.Logger) *BlobService {
	return &BlobService{
		repo:     repo,
		refs:     refs,
		cache:    c,
		cacheTTL: cacheTTL,
		maxBytes: maxBytes,
		log:      log,
	}
}

// Upload stores an image and returns its blob. Identical content is stored once.
func (s *BlobService) Upload(ctx context.Context, content []byte, createdBy string) (*models.ImageBlob, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty upload", models.ErrValidation)
	}
	if s.maxBytes > 0 && int64(len(content)) > s.maxBytes {
		return nil, fmt.Errorf("%w: upload exceeds %d bytes", models.ErrValidation, s.maxBytes)
	}

	mediaType := http.DetectContentType(content)
	if !slices.Contains(models.ImageMediaTypes, mediaType) {
		return nil, fmt.Errorf("%w: unsupported media type %s", models.ErrValidation, mediaType)
	}

	hash := sha256.Sum256(content)
	blob := &models.ImageBlob{
		BlobID:    fmt.Sprintf("sha256:%x", hash),
		MediaType: mediaType,
		SizeBytes: int64(len(content)),
		Content:   content,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}

	exists, err := s.repo.Exists(ctx, blob.BlobID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existence: %w", err)
	}
	if exists {
		s.log.Info("image already stored", "blob_id", blob.BlobID)
		return blob, nil
	}

	if err := s.repo.Create(ctx, blob); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	s.log.Info("stored image", "blob_id", blob.BlobID, "media_type", mediaType, "size_bytes", blob.SizeBytes)
	return blob, nil
}

// Get returns a blob with its content, reading through the cache
func (s *BlobService) Get(ctx context.Context, id string) (*models.ImageBlob, error) {
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, id); err != nil {
			s.log.Warn("blob cache read failed", "blob_id", id, "error", err)
		} else if ok {
			var cb cachedBlob
			if err := json.Unmarshal(raw, &cb); err == nil {
				return &models.ImageBlob{
					BlobID:    id,
					MediaType: cb.MediaType,
					SizeBytes: int64(len(cb.Content)),
					Content:   cb.Content,
				}, nil
			}
		}
	}

	blob, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	if s.cache != nil {
		raw, _ := json.Marshal(cachedBlob{MediaType: blob.MediaType, Content: blob.Content})
		if err := s.cache.Set(ctx, id, raw, s.cacheTTL); err != nil {
			s.log.Warn("blob cache write failed", "blob_id", id, "error", err)
		}
	}
	return blob, nil
}

// DeleteIfUnreferenced deletes the blob behind ref unless an artifact still
// uses it. Foreign references are ignored. Returns whether a blob was removed.
func (s *BlobService) DeleteIfUnreferenced(ctx context.Context, ref string) (bool, error) {
	id, ok := models.BlobIDFromRef(ref)
	if !ok {
		return false, nil
	}

	n, err := s.refs.CountImageRefs(ctx, models.BlobURLPrefix+id)
	if err != nil {
		return false, fmt.Errorf("failed to count references: %w", err)
	}
	if n > 0 {
		s.log.Debug("image still referenced", "blob_id", id, "references", n)
		return false, nil
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete image: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.Warn("blob cache delete failed", "blob_id", id, "error", err)
		}
	}

	if deleted {
		s.log.Info("deleted image", "blob_id", id)
	}
	return deleted, nil
}
