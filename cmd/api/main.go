package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/finbudd/cfa-tracker-api/internal/backend"
	"github.com/finbudd/cfa-tracker-api/internal/catalog"
	"github.com/finbudd/cfa-tracker-api/internal/config"
	"github.com/finbudd/cfa-tracker-api/internal/database"
	"github.com/finbudd/cfa-tracker-api/internal/handler"
	"github.com/finbudd/cfa-tracker-api/internal/middleware"
	"github.com/finbudd/cfa-tracker-api/internal/router"
	"github.com/finbudd/cfa-tracker-api/internal/service"
	"github.com/finbudd/cfa-tracker-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cat, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("failed to load topic catalog: %v", err)
	}

	client, err := backend.New(backend.Config{
		BaseURL: cfg.BackendURL,
		APIKey:  cfg.BackendAPIKey,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("failed to create backend client: %v", err)
	}

	dataStore, err := buildStore(cfg, client)
	if err != nil {
		log.Fatalf("failed to initialise storage: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	cache := service.NewDashboardCache(redisClient, cfg.DashboardCacheTTL, logger)

	authService := service.NewAuthService(client, dataStore, validate, cfg.DefaultExamDate, logger)
	dashboardService := service.NewDashboardService(dataStore, cat, cache, cfg.DefaultExamDate, logger)
	progressService := service.NewProgressService(dataStore, cat, cache, validate, logger)
	adminService := service.NewAdminService(dataStore, cat, cache, cfg.DefaultExamDate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:      handler.NewAuthHandler(authService, logger),
		CatalogHandler:   handler.NewCatalogHandler(cat, logger),
		DashboardHandler: handler.NewDashboardHandler(dashboardService, logger),
		ProgressHandler:  handler.NewProgressHandler(progressService, logger),
		AdminHandler:     handler.NewAdminHandler(adminService, logger),
		JWTMiddleware:    middleware.JWTProtected(cfg.AuthJWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath != "" {
		return catalog.LoadFile(cfg.CatalogPath)
	}
	return catalog.Default()
}

func buildStore(cfg config.Config, client *backend.Client) (store.Store, error) {
	if cfg.UseRemoteStore() {
		return store.NewRemoteStore(client, cfg.BackendServiceKey), nil
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db); err != nil {
		return nil, err
	}

	return store.NewGormStore(db), nil
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
