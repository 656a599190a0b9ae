package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
	"github.com/cmuseum/catalog/common/queue"
)

const defaultConcurrency = 4

// BlobDeleter removes an image once nothing references it
type BlobDeleter interface {
	DeleteIfUnreferenced(ctx context.Context, ref string) (bool, error)
}

// CleanupRecorder counts cleanup outcomes
type CleanupRecorder interface {
	BlobCleanup(result string)
}

// BlobCleanupWorker deletes images dropped by artifact edits and deletes
type BlobCleanupWorker struct {
	queue       queue.Queue
	blobs       BlobDeleter
	recorder    CleanupRecorder
	log         *logger.Logger
	concurrency int
}

// NewBlobCleanupWorker creates a cleanup worker. recorder may be nil.
func NewBlobCleanupWorker(q queue.Queue, blobs BlobDeleter, recorder CleanupRecorder, log *logger.Logger) *BlobCleanupWorker {
	return &BlobCleanupWorker{
		queue:       q,
		blobs:       blobs,
		recorder:    recorder,
		log:         log,
		concurrency: defaultConcurrency,
	}
}

// Start subscribes to cleanup jobs until ctx is cancelled
func (w *BlobCleanupWorker) Start(ctx context.Context) error {
	if err := w.queue.Subscribe(ctx, queue.TopicBlobDelete, w.Handle); err != nil {
		return fmt.Errorf("failed to subscribe to blob cleanup: %w", err)
	}
	w.log.Info("blob cleanup worker started", "topic", queue.TopicBlobDelete, "concurrency", w.concurrency)
	return nil
}

// Handle processes one cleanup job. A failed reference does not stop the
// others; the first failure is returned.
func (w *BlobCleanupWorker) Handle(ctx context.Context, key string, value []byte) error {
	var req models.BlobDeleteRequest
	if err := json.Unmarshal(value, &req); err != nil {
		w.record("invalid")
		return fmt.Errorf("failed to unmarshal cleanup job: %w", err)
	}

	log := w.log.WithArtifactID(req.ArtifactID)

	var g errgroup.Group
	g.SetLimit(w.concurrency)

	for _, ref := range req.Refs {
		g.Go(func() error {
			deleted, err := w.blobs.DeleteIfUnreferenced(ctx, ref)
			if err != nil {
				w.record("failed")
				log.Warn("blob cleanup failed", "ref", ref, "error", err)
				return err
			}
			if deleted {
				w.record("deleted")
			} else {
				w.record("kept")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("blob cleanup for %s: %w", key, err)
	}

	log.Debug("blob cleanup done", "refs", len(req.Refs))
	return nil
}

func (w *BlobCleanupWorker) record(result string) {
	if w.recorder != nil {
		w.recorder.BlobCleanup(result)
	}
}
