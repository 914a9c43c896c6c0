package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/content"
	"storefront/internal/database"
	"storefront/internal/database/migration"
	handlers "storefront/internal/http/handler"
	"storefront/internal/http/middleware"
	"storefront/internal/logging"
	"storefront/internal/otel"
	"storefront/internal/qrcode"
	"storefront/internal/repository/postgres"
	"storefront/internal/service"
	"storefront/internal/storage"
)

const (
	maxUploadBytes   = 10 << 20
	revocationPurge  = time.Hour
	shutdownDeadline = 15 * time.Second
)

// @title Storefront API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		slog.Error("server_exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		return err
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		return err
	}

	pages, err := content.Load()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	checkoutMetrics, err := service.NewCheckoutMetrics(registry)
	if err != nil {
		return err
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		return err
	}

	// Initialize repositories and services
	txManager := postgres.NewTransactionManager(db)
	catalogRepo := postgres.NewCatalogPostgres(db)
	cartRepo := postgres.NewCartPostgres(db)
	wishlistRepo := postgres.NewWishlistPostgres(db)
	addressRepo := postgres.NewAddressPostgres(db)
	orderRepo := postgres.NewOrderPostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	roleRepo := postgres.NewRolePostgres(db)
	tokenRepo := postgres.NewTokenPostgres(db)

	cartSvc := service.NewCartService(catalogRepo, cartRepo)
	authSvc := service.NewAuthService(txManager, userRepo, roleRepo, tokenRepo, tokens, auth.NewBcryptHasher(cfg.Auth.BcryptCost))
	svcs := handlers.Services{
		Catalog:  service.NewCatalogService(catalogRepo, cartRepo, wishlistRepo),
		Cart:     cartSvc,
		Wishlist: service.NewWishlistService(catalogRepo, wishlistRepo, cartSvc),
		Checkout: service.NewCheckoutService(txManager, cartRepo, addressRepo, orderRepo, checkoutMetrics),
		Account:  service.NewAccountService(userRepo, orderRepo, qrcode.NewEncoder(cfg.QRCodeSize)),
		Auth:     authSvc,
		Admin:    service.NewAdminService(catalogRepo, orderRepo, userRepo, roleRepo),
		Media:    service.NewMediaService(objStore, catalogRepo),
		Content:  service.NewContentService(pages, logger),
	}

	go purgeRevokedTokens(ctx, authSvc, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    maxUploadBytes,
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(logger, loc))
	app.Use(httpMetrics.Handler())

	handlers.RegisterSwagger(app, cfg.AppHost)

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, registry, svcs)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting", slog.String("addr", ":"+cfg.Port))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_stopping")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
	defer cancel()
	return app.ShutdownWithContext(sctx)
}

// purgeRevokedTokens drops expired revocations once an hour until ctx is done.
func purgeRevokedTokens(ctx context.Context, svc service.AuthService, logger *slog.Logger) {
	ticker := time.NewTicker(revocationPurge)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PurgeRevoked(ctx)
			if err != nil {
				logger.Warn("revocation_purge_failed", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.Info("revocations_purged", slog.Int64("count", n))
			}
		}
	}
}
