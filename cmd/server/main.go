package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chitram/chitram-backend/config"
	"github.com/chitram/chitram-backend/internal/app/controller"
	"github.com/chitram/chitram-backend/internal/app/repository"
	"github.com/chitram/chitram-backend/internal/app/service"
	"github.com/chitram/chitram-backend/internal/db"
	"github.com/chitram/chitram-backend/internal/events"
	"github.com/chitram/chitram-backend/internal/middleware"
	"github.com/chitram/chitram-backend/internal/router"
	"github.com/chitram/chitram-backend/internal/scheduler"
	"github.com/chitram/chitram-backend/internal/storage"
	"github.com/chitram/chitram-backend/internal/websocket"
	"github.com/chitram/chitram-backend/pkg/logger"
	"github.com/chitram/chitram-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	format := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		format = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      format,
		EnableColor: format == "console",
	})

	logger.Info("Starting Chitram Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.Seed(&cfg.Admin); err != nil {
		logger.Warn("Failed to seed admin account", map[string]interface{}{
			"error": err.Error(),
		})
	}

	ctx := context.Background()

	// File storage
	store, uploadDir, err := newStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize file storage", err)
	}

	// Live feed and domain events
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	publishers := events.Multi{events.NewHubPublisher(hub)}
	if cfg.RabbitMQ.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, events go to the live feed only", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer amqpPublisher.Close()
			publishers = append(publishers, amqpPublisher)
		}
	}

	// Token blacklist (optional)
	var blacklist redis.TokenBlacklist
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, logout will not revoke tokens", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
			blacklist = redis.NewTokenBlacklist(redis.GetClient())
		}
	}

	// Initialize repositories
	gormDB := db.GetDB()
	applicationRepo := repository.NewApplicationRepository(gormDB)
	artistRepo := repository.NewArtistRepository(gormDB)
	artworkRepo := repository.NewArtworkRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	messageRepo := repository.NewMessageRepository(gormDB)
	pageViewRepo := repository.NewPageViewRepository(gormDB)
	adminRepo := repository.NewAdminRepository(gormDB)

	// Initialize services
	authService := service.NewAuthService(adminRepo, blacklist, cfg.JWT.Secret, cfg.JWT.Expiry)
	applicationService := service.NewApplicationService(applicationRepo, artistRepo, store, publishers)
	artistService := service.NewArtistService(artistRepo, artworkRepo, store, publishers)
	artworkService := service.NewArtworkService(artworkRepo, artistRepo, store, publishers, gormDB)
	orderService := service.NewOrderService(orderRepo, artworkRepo, publishers)
	messageService := service.NewMessageService(messageRepo, publishers)
	statsService := service.NewStatsService(pageViewRepo, artistRepo, artworkRepo, orderRepo, messageRepo, applicationRepo)

	// Scheduled jobs
	reconciler := scheduler.NewCounterReconcileScheduler(artistService, cfg.Scheduler.ReconcileSpec)
	if err := reconciler.Start(); err != nil {
		logger.Fatal("Failed to start counter reconcile scheduler", err)
	}
	defer reconciler.Stop()

	// Middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	rateLimiter.StartCleanup(time.Minute, stopCleanup)

	r := router.NewRouter(router.Controllers{
		Auth:        controller.NewAuthController(authService, controller.CookieSettings{Name: cfg.Admin.CookieName, Secure: cfg.Admin.CookieSecure}),
		Application: controller.NewApplicationController(applicationService, store),
		Artist:      controller.NewArtistController(artistService, store),
		Artwork:     controller.NewArtworkController(artworkService, store),
		Order:       controller.NewOrderController(orderService),
		Message:     controller.NewMessageController(messageService),
		Stats:       controller.NewStatsController(statsService, hub),
		Live:        controller.NewLiveController(hub, cfg.CORS.AllowedOrigins),
	}, router.Middlewares{
		Auth:      middleware.NewAuthMiddleware(authService, cfg.Admin.CookieName, service.ErrTokenRevoked),
		RateLimit: rateLimiter,
		Metrics:   middleware.NewMetrics(),
		PageViews: statsService,
	}, cfg, uploadDir)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", err)
	}
	logger.Info("Server stopped successfully")
}

// newStorage picks the upload backend. The returned directory is non-empty
// only for local storage, which the router then serves under /uploads.
func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, string, error) {
	if cfg.Storage.Driver == "s3" {
		s3Store, err := storage.NewS3Storage(ctx, &cfg.S3)
		if err != nil {
			return nil, "", err
		}
		logger.Info("Using S3 storage", map[string]interface{}{
			"bucket": cfg.S3.Bucket,
		})
		return s3Store, "", nil
	}

	local, err := storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		return nil, "", err
	}
	logger.Info("Using local storage", map[string]interface{}{
		"dir": local.Root(),
	})
	return local, local.Root(), nil
}
