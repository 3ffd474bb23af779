package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finapp/storefront/internal/api"
	"github.com/finapp/storefront/internal/core/service"
	storemongo "github.com/finapp/storefront/internal/infrastructure/db/mongo"
	storeredis "github.com/finapp/storefront/internal/infrastructure/db/redis"
	"github.com/finapp/storefront/internal/infrastructure/queue"
	"github.com/finapp/storefront/internal/infrastructure/upstream"
	"github.com/finapp/storefront/internal/pkg/config"
	"github.com/finapp/storefront/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title Storefront API
// @version 1.0
// @description Storefront backend with cart reconciliation, catalog and orders.
// @BasePath /api
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "storefront",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := storemongo.Connect(ctx, storemongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	redisClient, err := storeredis.Connect(ctx, storeredis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	guestStore := storeredis.NewGuestCartStore(redisClient, cfg.Cart.GuestTTL)
	remoteCart := upstream.NewCartClient(cfg.Cart.UpstreamURL, nil, log)

	registry := service.NewReconcilerRegistry(guestStore, remoteCart, service.ReconcilerConfig{
		AuthRetryDelay:    cfg.Cart.AuthRetryDelay,
		EmptyRefetchDelay: cfg.Cart.EmptyRefetchDelay,
	}, log)

	dispatcher := queue.NewDispatcher(0, registry, log)
	dispatcher.Start(ctx)

	// Evict reconcilers for sessions that have gone quiet.
	go func() {
		ticker := time.NewTicker(cfg.Cart.SessionMaxIdle / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := registry.PruneIdle(cfg.Cart.SessionMaxIdle); n > 0 {
					log.Debug().Int("pruned", n).Msg("idle cart sessions evicted")
				}
			}
		}
	}()

	e := api.NewRouter(api.Deps{
		Mongo:      db,
		Redis:      redisClient,
		RemoteCart: remoteCart,
		Registry:   registry,
		Dispatcher: dispatcher,
		JWTSecret:  cfg.JWTSecret,
		Logger:     log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("storefront listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	os.Exit(0)
}
