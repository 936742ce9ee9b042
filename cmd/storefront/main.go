package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angelmondragon/utmart-backend/api/routes"
	"github.com/angelmondragon/utmart-backend/internal/catalog"
	"github.com/angelmondragon/utmart-backend/internal/storefront"
	"github.com/angelmondragon/utmart-backend/pkg/config"
	"github.com/angelmondragon/utmart-backend/pkg/logger"
	"github.com/angelmondragon/utmart-backend/pkg/metrics"
	"github.com/angelmondragon/utmart-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

const (
	sweepInterval   = 10 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.NewStorefrontMetrics(reg)

	client := catalog.NewClient(cfg.Catalog.APIURL, logg, catalog.WithMetrics(m))
	pages, err := storefront.NewPages(client)
	if err != nil {
		return err
	}

	factory, err := storefront.NewStorageFactory(cfg.Storefront, redisClient)
	if err != nil {
		return err
	}
	sessions, err := storefront.NewRegistry(factory, logg,
		storefront.WithRegistryMetrics(m),
		storefront.WithIdleTTL(cfg.Storefront.SessionTTL),
	)
	if err != nil {
		return err
	}
	go sessions.RunSweeper(ctx, sweepInterval)

	addr := ":" + cfg.Storefront.Port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"catalog_url":  cfg.Catalog.APIURL,
		"cart_storage": cfg.Storefront.StorageBackend(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewStorefrontRouter(cfg, logg, reg, redisClient, pages, sessions),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting storefront server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down storefront server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
