package service

import (
	"context"

	"github.com/cmuseum/catalog/common/models"
)

// ArtifactStore is the artifact collection
type ArtifactStore interface {
	Create(ctx context.Context, a *models.Artifact) error
	GetByID(ctx context.Context, id string) (*models.Artifact, error)
	List(ctx context.Context) ([]models.Artifact, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Artifact, error)
	Update(ctx context.Context, a *models.Artifact) error
	Delete(ctx context.Context, id string) ([]string, error)
	CountByDisplayGroup(ctx context.Context, name string) (int, error)
	RenameDisplayGroup(ctx context.Context, from, to string) (int64, error)
	CountImageRefs(ctx context.Context, ref string) (int, error)
}

// DisplayGroupStore is the display group collection
type DisplayGroupStore interface {
	Create(ctx context.Context, g *models.DisplayGroup) error
	GetByID(ctx context.Context, id string) (*models.DisplayGroup, error)
	GetByName(ctx context.Context, name string) (*models.DisplayGroup, error)
	List(ctx context.Context) ([]models.DisplayGroup, error)
	Update(ctx context.Context, g *models.DisplayGroup) error
	Delete(ctx context.Context, id string) error
}

// ExhibitStore is the exhibit collection
type ExhibitStore interface {
	Create(ctx context.Context, e *models.Exhibit) error
	GetByID(ctx context.Context, id string) (*models.Exhibit, error)
	List(ctx context.Context, publishedOnly bool) ([]models.Exhibit, error)
	Update(ctx context.Context, e *models.Exhibit) error
	Delete(ctx context.Context, id string) error
}

// AuctionStore is the auction collection
type AuctionStore interface {
	Create(ctx context.Context, a *models.Auction) error
	GetByID(ctx context.Context, id string) (*models.Auction, error)
	List(ctx context.Context, publishedOnly bool) ([]models.Auction, error)
	Update(ctx context.Context, a *models.Auction) error
	Delete(ctx context.Context, id string) error
}

// UserStore is the user collection
type UserStore interface {
	Upsert(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, id string, role models.Role) error
}

// SessionStore keeps sessions until they expire
type SessionStore interface {
	Save(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// BlobStore is the content-addressed image store
type BlobStore interface {
	Create(ctx context.Context, blob *models.ImageBlob) error
	GetByID(ctx context.Context, id string) (*models.ImageBlob, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
