package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/and161185/orderdesk/internal/config"
	"github.com/and161185/orderdesk/internal/deps"
	"github.com/and161185/orderdesk/internal/marketplace"
	"github.com/and161185/orderdesk/internal/server"
	"github.com/and161185/orderdesk/internal/storage"
	"github.com/and161185/orderdesk/internal/watch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := config.NewConfig()
	deps := deps.NewDependencies(config.SecretKey, config.Logger)

	store, err := storage.New(ctx, config)
	if err != nil {
		config.Logger.Fatal(err)
	}
	defer store.Close()

	market := marketplace.NewClient(config.MarketplaceAddress, config.MarketplaceAPIKey, config.Logger)
	registry := watch.NewRegistry(market, store, config.Logger, watch.DefaultOptions())

	srv := server.NewServer(registry, market, config, deps)
	if err := srv.Run(ctx); err != nil {
		config.Logger.Fatal(err)
	}
}
