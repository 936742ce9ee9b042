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
	"github.com/angelmondragon/utmart-backend/internal/auth"
	"github.com/angelmondragon/utmart-backend/internal/categories"
	product "github.com/angelmondragon/utmart-backend/internal/products"
	"github.com/angelmondragon/utmart-backend/internal/userdata"
	"github.com/angelmondragon/utmart-backend/pkg/config"
	"github.com/angelmondragon/utmart-backend/pkg/db"
	"github.com/angelmondragon/utmart-backend/pkg/logger"
	"github.com/angelmondragon/utmart-backend/pkg/migrate"
	"github.com/angelmondragon/utmart-backend/pkg/redis"
	"github.com/angelmondragon/utmart-backend/pkg/security"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
	} else {
		logg.Warn(ctx, "redis not configured, auth rate limiting disabled")
	}

	services, err := buildServices(cfg, dbClient)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, reg, dbClient, redisClient, services),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, logg, server, "api")
}

func buildServices(cfg *config.Config, dbClient *db.Client) (routes.APIServices, error) {
	categoryRepo := categories.NewRepository(dbClient.DB())
	categorySvc, err := categories.NewService(categoryRepo, dbClient)
	if err != nil {
		return routes.APIServices{}, err
	}
	productSvc, err := product.NewService(product.NewRepository(dbClient.DB()), categoryRepo, dbClient)
	if err != nil {
		return routes.APIServices{}, err
	}
	authSvc, err := auth.NewDBService(dbClient, security.NewHasher(cfg.Password), cfg.JWT)
	if err != nil {
		return routes.APIServices{}, err
	}
	dataSvc, err := userdata.NewService(userdata.NewRepository(dbClient.DB()))
	if err != nil {
		return routes.APIServices{}, err
	}
	return routes.APIServices{
		Auth:       authSvc,
		Products:   productSvc,
		Categories: categorySvc,
		UserData:   dataSvc,
	}, nil
}

// serve runs server until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, logg *logger.Logger, server *http.Server, name string) error {
	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting "+name+" server")
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

	logg.Info(ctx, "shutting down "+name+" server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
