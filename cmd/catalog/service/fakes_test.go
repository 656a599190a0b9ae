package service

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/cmuseum/catalog/common/models"
	"github.com/cmuseum/catalog/common/queue"
)

type memArtifactStore struct {
	mu    sync.Mutex
	items map[string]models.Artifact
	lists int
}

func newMemArtifactStore(artifacts ...models.Artifact) *memArtifactStore {
	s := &memArtifactStore{items: make(map[string]models.Artifact)}
	for _, a := range artifacts {
		s.items[a.ArtifactID] = a
	}
	return s
}

func (s *memArtifactStore) Create(_ context.Context, a *models.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[a.ArtifactID] = *a
	return nil
}

func (s *memArtifactStore) GetByID(_ context.Context, id string) (*models.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	a.Images = slices.Clone(a.Images)
	return &a, nil
}

func (s *memArtifactStore) List(_ context.Context) ([]models.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	out := make([]models.Artifact, 0, len(s.items))
	for _, a := range s.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ArtifactID < out[j].ArtifactID })
	return out, nil
}

func (s *memArtifactStore) GetByIDs(_ context.Context, ids []string) ([]models.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Artifact{}
	// reverse order to prove callers restore the requested order
	for i := len(ids) - 1; i >= 0; i-- {
		if a, ok := s.items[ids[i]]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memArtifactStore) Update(_ context.Context, a *models.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[a.ArtifactID]; !ok {
		return models.ErrNotFound
	}
	s.items[a.ArtifactID] = *a
	return nil
}

func (s *memArtifactStore) Delete(_ context.Context, id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	delete(s.items, id)
	return a.Images, nil
}

func (s *memArtifactStore) CountByDisplayGroup(_ context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.items {
		if a.DisplayGroup == name {
			n++
		}
	}
	return n, nil
}

func (s *memArtifactStore) RenameDisplayGroup(_ context.Context, from, to string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, a := range s.items {
		if a.DisplayGroup == from {
			a.DisplayGroup = to
			s.items[id] = a
			n++
		}
	}
	return n, nil
}

func (s *memArtifactStore) CountImageRefs(_ context.Context, ref string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.items {
		if slices.Contains(a.Images, ref) {
			n++
		}
	}
	return n, nil
}

type memGroupStore struct {
	mu    sync.Mutex
	items map[string]models.DisplayGroup
}

func newMemGroupStore() *memGroupStore {
	return &memGroupStore{items: make(map[string]models.DisplayGroup)}
}

func (s *memGroupStore) Create(_ context.Context, g *models.DisplayGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[g.GroupID] = *g
	return nil
}

func (s *memGroupStore) GetByID(_ context.Context, id string) (*models.DisplayGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &g, nil
}

func (s *memGroupStore) GetByName(_ context.Context, name string) (*models.DisplayGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.items {
		if strings.EqualFold(g.Name, name) {
			return &g, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *memGroupStore) List(_ context.Context) ([]models.DisplayGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DisplayGroup, 0, len(s.items))
	for _, g := range s.items {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (s *memGroupStore) Update(_ context.Context, g *models.DisplayGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[g.GroupID] = *g
	return nil
}

func (s *memGroupStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type memExhibitStore struct {
	items map[string]models.Exhibit
}

func (s *memExhibitStore) Create(_ context.Context, e *models.Exhibit) error {
	s.items[e.ExhibitID] = *e
	return nil
}

func (s *memExhibitStore) GetByID(_ context.Context, id string) (*models.Exhibit, error) {
	e, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &e, nil
}

func (s *memExhibitStore) List(_ context.Context, publishedOnly bool) ([]models.Exhibit, error) {
	out := []models.Exhibit{}
	for _, e := range s.items {
		if publishedOnly && !e.Published {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *memExhibitStore) Update(_ context.Context, e *models.Exhibit) error {
	s.items[e.ExhibitID] = *e
	return nil
}

func (s *memExhibitStore) Delete(_ context.Context, id string) error {
	delete(s.items, id)
	return nil
}

type memAuctionStore struct {
	items map[string]models.Auction
}

func (s *memAuctionStore) Create(_ context.Context, a *models.Auction) error {
	s.items[a.AuctionID] = *a
	return nil
}

func (s *memAuctionStore) GetByID(_ context.Context, id string) (*models.Auction, error) {
	a, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

func (s *memAuctionStore) List(_ context.Context, publishedOnly bool) ([]models.Auction, error) {
	out := []models.Auction{}
	for _, a := range s.items {
		if publishedOnly && !a.Published {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *memAuctionStore) Update(_ context.Context, a *models.Auction) error {
	s.items[a.AuctionID] = *a
	return nil
}

func (s *memAuctionStore) Delete(_ context.Context, id string) error {
	if _, ok := s.items[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type memBidStore struct {
	mu   sync.Mutex
	bids []models.Bid
}

func (s *memBidStore) AppendBid(_ context.Context, b *models.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bids = append(s.bids, *b)
	return nil
}

func (s *memBidStore) ListBids(_ context.Context, key models.BidKey) ([]models.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Bid{}
	for _, b := range s.bids {
		if b.Key() == key {
			out = append(out, b)
		}
	}
	return out, nil
}

type memUserStore struct {
	items map[string]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{items: make(map[string]models.User)}
}

func (s *memUserStore) Upsert(_ context.Context, u *models.User) (*models.User, error) {
	existing, ok := s.items[u.UserID]
	if ok {
		existing.Email = u.Email
		existing.DisplayName = u.DisplayName
		existing.PhotoURL = u.PhotoURL
		s.items[u.UserID] = existing
		return &existing, nil
	}
	s.items[u.UserID] = *u
	saved := *u
	return &saved, nil
}

func (s *memUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (s *memUserStore) List(_ context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range s.items {
		out = append(out, u)
	}
	return out, nil
}

func (s *memUserStore) SetRole(_ context.Context, id string, role models.Role) error {
	u, ok := s.items[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Role = role
	s.items[id] = u
	return nil
}

type memSessionStore struct {
	items map[string]models.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{items: make(map[string]models.Session)}
}

func (s *memSessionStore) Save(_ context.Context, session *models.Session) error {
	s.items[session.Token] = *session
	return nil
}

func (s *memSessionStore) Get(_ context.Context, token string) (*models.Session, error) {
	session, ok := s.items[token]
	if !ok {
		return nil, models.ErrUnauthenticated
	}
	return &session, nil
}

func (s *memSessionStore) Delete(_ context.Context, token string) error {
	delete(s.items, token)
	return nil
}

type memBlobStore struct {
	items   map[string]models.ImageBlob
	creates int
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{items: make(map[string]models.ImageBlob)}
}

func (s *memBlobStore) Create(_ context.Context, blob *models.ImageBlob) error {
	s.creates++
	s.items[blob.BlobID] = *blob
	return nil
}

func (s *memBlobStore) GetByID(_ context.Context, id string) (*models.ImageBlob, error) {
	blob, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &blob, nil
}

func (s *memBlobStore) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s.items[id]
	return ok, nil
}

func (s *memBlobStore) Delete(_ context.Context, id string) (bool, error) {
	_, ok := s.items[id]
	delete(s.items, id)
	return ok, nil
}

// recordingQueue captures published messages
type recordingQueue struct {
	mu        sync.Mutex
	published []published
}

type published struct {
	topic string
	key   string
	value []byte
}

func (q *recordingQueue) Publish(_ context.Context, topic, key string, message []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, published{topic: topic, key: key, value: message})
	return nil
}

func (q *recordingQueue) Subscribe(context.Context, string, queue.MessageHandler) error {
	return nil
}

func (q *recordingQueue) Close() error {
	return nil
}
