package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/angelmondragon/utmart-backend/internal/categories"
	product "github.com/angelmondragon/utmart-backend/internal/products"
	"github.com/angelmondragon/utmart-backend/internal/seed"
	"github.com/angelmondragon/utmart-backend/pkg/config"
	"github.com/angelmondragon/utmart-backend/pkg/db"
	"github.com/angelmondragon/utmart-backend/pkg/logger"
	"github.com/angelmondragon/utmart-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

const usage = "up|down|status|version|create|validate|automigrate|seed"

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: "+usage)
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	ctx := logg.WithFields(context.Background(), map[string]any{"cmd": *cmd, "dir": *dir})

	// create and validate only touch the migrations directory
	switch *cmd {
	case "create":
		if *name == "" {
			exitf("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			exitf("failed to create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			exitf("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	if err := runDB(ctx, logg, dbClient, *cmd, *dir, *version); err != nil {
		logg.Error(ctx, "migrate command failed", err)
		dbClient.Close()
		os.Exit(1)
	}
}

func runDB(ctx context.Context, logg *logger.Logger, dbClient *db.Client, cmd, dir, version string) error {
	switch cmd {
	case "automigrate":
		return migrate.AutoMigrate(ctx, logg, dbClient)
	case "seed":
		return runSeed(ctx, logg, dbClient)
	}

	// goose migrations target Postgres; SQLite schemas come from the models
	if dbClient.IsSQLite() {
		if cmd == "up" {
			return migrate.AutoMigrate(ctx, logg, dbClient)
		}
		return fmt.Errorf("-cmd=%s is not supported on sqlite", cmd)
	}

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	switch cmd {
	case "up", "down", "status":
		return migrate.Run(ctx, sqlDB, dir, cmd)
	case "version":
		if version == "" {
			return fmt.Errorf("missing -version for version command")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, dir, version)
	default:
		return fmt.Errorf("unknown -cmd value %q, want %s", cmd, usage)
	}
}

func runSeed(ctx context.Context, logg *logger.Logger, dbClient *db.Client) error {
	if dbClient.IsSQLite() {
		if err := migrate.AutoMigrate(ctx, logg, dbClient); err != nil {
			return err
		}
	}
	categoryRepo := categories.NewRepository(dbClient.DB())
	categorySvc, err := categories.NewService(categoryRepo, dbClient)
	if err != nil {
		return err
	}
	productSvc, err := product.NewService(product.NewRepository(dbClient.DB()), categoryRepo, dbClient)
	if err != nil {
		return err
	}
	seeder, err := seed.NewSeeder(categorySvc, productSvc, logg)
	if err != nil {
		return err
	}
	_, err = seeder.Run(ctx, seed.DefaultProducts)
	return err
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
