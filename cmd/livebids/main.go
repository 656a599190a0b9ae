package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/cmuseum/catalog/common/bootstrap"
	rediscommon "github.com/cmuseum/catalog/common/redis"
	"github.com/cmuseum/catalog/common/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.Setup(ctx, "livebids",
		bootstrap.WithoutDB(),
		bootstrap.WithoutQueue(),
		bootstrap.WithoutCache(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap livebids: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(context.Background())

	log := components.Logger
	cfg := components.Config

	hub := NewHub(components.Metrics(), log)
	subscriber := NewRedisSubscriber(components.RedisRaw, hub, log)
	snapshots := rediscommon.NewBidPublisher(components.Redis, cfg.Bidding.SnapshotTTL)
	ws := NewServer(hub, snapshots, cfg.Service.AllowedOrigins, log)

	srv := server.New("livebids", cfg.Service.Port, ws.Routes(server.HealthHandler("livebids")), log)

	// Any one of these failing stops the others
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return subscriber.Start(gctx) })
	g.Go(func() error { return srv.Run(gctx) })

	if err := g.Wait(); err != nil {
		log.Error("livebids stopped with error", "error", err)
		os.Exit(1)
	}
}
