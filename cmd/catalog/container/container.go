package container

import (
	"errors"

	"github.com/cmuseum/catalog/cmd/catalog/repository"
	"github.com/cmuseum/catalog/cmd/catalog/service"
	"github.com/cmuseum/catalog/cmd/catalog/worker"
	"github.com/cmuseum/catalog/common/bidding"
	"github.com/cmuseum/catalog/common/bootstrap"
	"github.com/cmuseum/catalog/common/cache"
	"github.com/cmuseum/catalog/common/catalog"
	"github.com/cmuseum/catalog/common/ratelimit"
	rediscommon "github.com/cmuseum/catalog/common/redis"
)

const blobCachePrefix = "blobs:"

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components

	// Repositories
	ArtifactRepo     *repository.ArtifactRepository
	DisplayGroupRepo *repository.DisplayGroupRepository
	ExhibitRepo      *repository.ExhibitRepository
	AuctionRepo      *repository.AuctionRepository
	BidRepo          *repository.BidRepository
	UserRepo         *repository.UserRepository
	ImageBlobRepo    *repository.ImageBlobRepository
	SessionRepo      *repository.SessionRepository

	// Bidding
	BidPublisher *rediscommon.BidPublisher
	Ledger       *bidding.Ledger
	RateLimiter  *ratelimit.RateLimiter

	// Services
	ArtifactService     *service.ArtifactService
	DisplayGroupService *service.DisplayGroupService
	ExhibitService      *service.ExhibitService
	AuctionService      *service.AuctionService
	BlobService         *service.BlobService
	SessionService      *service.SessionService
	UserService         *service.UserService

	// Workers
	BlobCleanup *worker.BlobCleanupWorker
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	if components.DB == nil {
		return nil, errors.New("catalog requires a database")
	}
	if components.Redis == nil {
		return nil, errors.New("catalog requires redis")
	}

	cfg := components.Config
	log := components.Logger
	metrics := components.Metrics()

	// Initialize repositories
	artifactRepo := repository.NewArtifactRepository(components.DB)
	displayGroupRepo := repository.NewDisplayGroupRepository(components.DB)
	exhibitRepo := repository.NewExhibitRepository(components.DB)
	auctionRepo := repository.NewAuctionRepository(components.DB)
	bidRepo := repository.NewBidRepository(components.DB)
	userRepo := repository.NewUserRepository(components.DB)
	imageBlobRepo := repository.NewImageBlobRepository(components.DB)
	sessionRepo := repository.NewSessionRepository(components.Redis)

	// Public view: collation locale and optional expression filter
	var exprs *catalog.ExpressionFilter
	if cfg.Features.EnableExpressionQuery {
		exprs = catalog.NewExpressionFilter()
	}
	engine := catalog.NewEngine(cfg.Catalog.CollationLocale, exprs)

	var listCache cache.Cache
	if cfg.Cache.Enabled {
		listCache = components.Cache
	}

	// Initialize services (bottom-up: dependencies first)
	artifactService := service.NewArtifactService(artifactRepo, listCache, cfg.Cache.DefaultTTL, components.Queue, engine, log)
	displayGroupService := service.NewDisplayGroupService(displayGroupRepo, artifactService, log)
	exhibitService := service.NewExhibitService(exhibitRepo, artifactService, log)

	blobCache := cache.NewRedisCache(components.RedisRaw, blobCachePrefix)
	blobService := service.NewBlobService(imageBlobRepo, artifactRepo, blobCache, cfg.Catalog.BlobCacheTTL, cfg.Catalog.MaxUploadBytes, log)

	bidPublisher := rediscommon.NewBidPublisher(components.Redis, cfg.Bidding.SnapshotTTL)
	var ledgerOpts []bidding.LedgerOption
	if metrics != nil {
		ledgerOpts = append(ledgerOpts, bidding.WithRecorder(metrics))
	}
	ledger := bidding.NewLedger(bidRepo, bidPublisher, log, ledgerOpts...)
	auctionService := service.NewAuctionService(auctionRepo, artifactService, ledger, log)

	sessionService := service.NewSessionService(sessionRepo, userRepo, cfg.Session.TTL, cfg.Session.BootstrapAdmins, log)
	userService := service.NewUserService(userRepo, log)

	var blobCleanup *worker.BlobCleanupWorker
	if components.Queue != nil {
		var recorder worker.CleanupRecorder
		if metrics != nil {
			recorder = metrics
		}
		blobCleanup = worker.NewBlobCleanupWorker(components.Queue, blobService, recorder, log)
	}

	return &Container{
		Components:          components,
		ArtifactRepo:        artifactRepo,
		DisplayGroupRepo:    displayGroupRepo,
		ExhibitRepo:         exhibitRepo,
		AuctionRepo:         auctionRepo,
		BidRepo:             bidRepo,
		UserRepo:            userRepo,
		ImageBlobRepo:       imageBlobRepo,
		SessionRepo:         sessionRepo,
		BidPublisher:        bidPublisher,
		Ledger:              ledger,
		RateLimiter:         ratelimit.NewRateLimiter(components.RedisRaw, log),
		ArtifactService:     artifactService,
		DisplayGroupService: displayGroupService,
		ExhibitService:      exhibitService,
		AuctionService:      auctionService,
		BlobService:         blobService,
		SessionService:      sessionService,
		UserService:         userService,
		BlobCleanup:         blobCleanup,
	}, nil
}
