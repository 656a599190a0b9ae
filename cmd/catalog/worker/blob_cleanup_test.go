package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
	"github.com/cmuseum/catalog/common/queue"
)

type fakeDeleter struct {
	mu       sync.Mutex
	kept     map[string]bool
	failing  map[string]bool
	attempts []string
}

func (d *fakeDeleter) DeleteIfUnreferenced(_ context.Context, ref string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attempts = append(d.attempts, ref)
	if d.failing[ref] {
		return false, errors.New("store unavailable")
	}
	return !d.kept[ref], nil
}

func (d *fakeDeleter) attempted() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.attempts...)
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) BlobCleanup(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[result]++
}

func (r *countingRecorder) count(result string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[result]
}

func job(t *testing.T, artifactID string, refs ...string) []byte {
	t.Helper()
	raw, err := json.Marshal(models.BlobDeleteRequest{ArtifactID: artifactID, Refs: refs})
	require.NoError(t, err)
	return raw
}

func TestHandle_RecordsOutcomes(t *testing.T) {
	deleter := &fakeDeleter{
		kept:    map[string]bool{"/blobs/sha256:b": true},
		failing: map[string]bool{"/blobs/sha256:c": true},
	}
	recorder := &countingRecorder{counts: map[string]int{}}
	w := NewBlobCleanupWorker(queue.NewMemoryQueue(logger.Discard()), deleter, recorder, logger.Discard())

	err := w.Handle(context.Background(), "art-1", job(t, "art-1", "/blobs/sha256:a", "/blobs/sha256:b", "/blobs/sha256:c"))
	require.Error(t, err)

	// one failure does not stop the rest
	assert.ElementsMatch(t, []string{"/blobs/sha256:a", "/blobs/sha256:b", "/blobs/sha256:c"}, deleter.attempted())
	assert.Equal(t, 1, recorder.count("deleted"))
	assert.Equal(t, 1, recorder.count("kept"))
	assert.Equal(t, 1, recorder.count("failed"))
}

func TestHandle_InvalidPayload(t *testing.T) {
	recorder := &countingRecorder{counts: map[string]int{}}
	w := NewBlobCleanupWorker(queue.NewMemoryQueue(logger.Discard()), &fakeDeleter{}, recorder, logger.Discard())

	assert.Error(t, w.Handle(context.Background(), "art-1", []byte("{not json")))
	assert.Equal(t, 1, recorder.count("invalid"))
}

func TestHandle_NilRecorder(t *testing.T) {
	w := NewBlobCleanupWorker(queue.NewMemoryQueue(logger.Discard()), &fakeDeleter{}, nil, logger.Discard())

	assert.NoError(t, w.Handle(context.Background(), "art-1", job(t, "art-1", "/blobs/sha256:a")))
}

func TestStart_ConsumesQueue(t *testing.T) {
	q := queue.NewMemoryQueue(logger.Discard())
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deleter := &fakeDeleter{}
	w := NewBlobCleanupWorker(q, deleter, nil, logger.Discard())
	require.NoError(t, w.Start(ctx))

	require.NoError(t, q.Publish(ctx, queue.TopicBlobDelete, "art-7", job(t, "art-7", "/blobs/sha256:x", "/blobs/sha256:y")))

	assert.Eventually(t, func() bool {
		return len(deleter.attempted()) == 2
	}, time.Second, 10*time.Millisecond)
}
