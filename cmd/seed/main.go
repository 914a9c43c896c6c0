// Command seed loads a YAML catalog file into the database.
//
//	go run ./cmd/seed -file seed/catalog.yaml
//
// SEED_ADMIN_PASSWORD, when set, replaces the admin password from the file.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/database/migration"
	"storefront/internal/logging"
	"storefront/internal/repository/postgres"
	"storefront/internal/seed"
)

func main() {
	path := flag.String("file", "seed/catalog.yaml", "path to the seed catalog")
	flag.Parse()

	if err := run(*path); err != nil {
		slog.Error("seed_failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(path string) error {
	cfg := config.Load()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	catalog, err := seed.LoadFile(path)
	if err != nil {
		return err
	}
	if pw := os.Getenv("SEED_ADMIN_PASSWORD"); pw != "" && catalog.Admin != nil {
		catalog.Admin.Password = pw
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		return err
	}

	seeder := seed.NewSeeder(postgres.NewTransactionManager(db), auth.NewBcryptHasher(cfg.Auth.BcryptCost), logger)
	sum, err := seeder.Apply(ctx, catalog)
	if err != nil {
		return err
	}
	logger.Info("seed_done", slog.String("file", path), slog.Int("products", sum.Products))
	return nil
}
