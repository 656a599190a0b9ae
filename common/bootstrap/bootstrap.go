package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/cmuseum/catalog/common/cache"
	"github.com/cmuseum/catalog/common/config"
	"github.com/cmuseum/catalog/common/db"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/queue"
	rediscommon "github.com/cmuseum/catalog/common/redis"
	"github.com/cmuseum/catalog/common/telemetry"
	"github.com/redis/go-redis/v9"
)

// Setup initializes all service components
// This is the main entry point for all services
func Setup(ctx context.Context, serviceName string, opts ...Option) (*Components, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	components := &Components{
		cleanupFuncs: make([]func() error, 0),
	}

	// 1. Load configuration
	var err error
	if options.customConfig != nil {
		components.Config = options.customConfig
	} else {
		components.Config, err = config.Load(serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// 2. Initialize logger
	if options.customLogger != nil {
		components.Logger = options.customLogger
	} else {
		components.Logger = logger.New(
			components.Config.Service.LogLevel,
			components.Config.Service.LogFormat,
		)
	}

	components.Logger.Info("initializing service",
		"service", serviceName,
		"environment", components.Config.Service.Environment,
	)

	// fail cleans up whatever was initialized before the error
	fail := func(err error) (*Components, error) {
		components.Shutdown(ctx)
		return nil, err
	}

	// 3. Initialize database (if not skipped)
	if !options.skipDB {
		components.Logger.Info("connecting to database")
		components.DB, err = db.New(ctx, components.Config, components.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		components.addCleanup(func() error {
			components.DB.Close()
			return nil
		})

		if options.dbInitHook != nil {
			components.Logger.Info("running database init hook")
			if err := options.dbInitHook(components.DB); err != nil {
				return fail(fmt.Errorf("database init hook failed: %w", err))
			}
		}
	}

	// 4. Initialize Redis (if not skipped)
	if !options.skipRedis {
		components.RedisRaw = redis.NewClient(&redis.Options{
			Addr:     components.Config.RedisAddr(),
			Password: components.Config.Redis.Password,
			DB:       components.Config.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := components.RedisRaw.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			components.RedisRaw.Close()
			return fail(fmt.Errorf("failed to connect to redis: %w", err))
		}

		components.Redis = rediscommon.NewClient(components.RedisRaw, components.Logger)
		components.Logger.Info("redis connected", "addr", components.Config.RedisAddr())

		components.addCleanup(func() error {
			components.Logger.Info("closing redis client")
			return components.RedisRaw.Close()
		})
	}

	// 5. Initialize queue (if not skipped)
	if !options.skipQueue {
		components.Logger.Info("initializing queue",
			"type", components.Config.Queue.Type,
		)

		switch components.Config.Queue.Type {
		case "memory":
			components.Queue = queue.NewMemoryQueue(components.Logger)
		case "nats":
			components.Queue, err = queue.NewNATSQueue(components.Config.Queue.NatsURL, serviceName, components.Logger)
			if err != nil {
				return fail(err)
			}
		default:
			return fail(fmt.Errorf("unknown queue type: %s", components.Config.Queue.Type))
		}

		components.addCleanup(func() error {
			components.Logger.Info("closing queue")
			return components.Queue.Close()
		})
	}

	// 6. Initialize cache (if not skipped)
	if !options.skipCache && components.Config.Cache.Enabled {
		components.Logger.Info("initializing cache",
			"default_ttl", components.Config.Cache.DefaultTTL,
		)

		components.Cache = cache.NewMemoryCache(components.Logger)

		components.addCleanup(func() error {
			return components.Cache.Close()
		})
	}

	// 7. Initialize telemetry (if not skipped)
	if !options.skipTelemetry {
		tcfg := components.Config.Telemetry
		components.Telemetry = telemetry.New(serviceName, tcfg.PprofPort, tcfg.MetricsPort, components.Logger)

		if err := components.Telemetry.Start(ctx, tcfg.EnablePprof, tcfg.EnableMetrics); err != nil {
			// Don't fail startup if telemetry fails
			components.Logger.Warn("failed to start telemetry", "error", err)
		}

		components.addCleanup(func() error {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return components.Telemetry.Stop(stopCtx)
		})
	}

	components.Logger.Info("service initialization complete",
		"service", serviceName,
		"db", components.DB != nil,
		"redis", components.Redis != nil,
		"queue", components.Queue != nil,
		"cache", components.Cache != nil,
		"telemetry", components.Telemetry != nil,
	)

	return components, nil
}

// MustSetup is like Setup but panics on error
// Useful for services that can't recover from initialization failure
func MustSetup(ctx context.Context, serviceName string, opts ...Option) *Components {
	components, err := Setup(ctx, serviceName, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to setup service %s: %v", serviceName, err))
	}
	return components
}
