package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/bracketview/cache"
	"github.com/Dosada05/bracketview/config"
	"github.com/Dosada05/bracketview/db"
	_ "github.com/Dosada05/bracketview/docs"
	"github.com/Dosada05/bracketview/handlers"
	"github.com/Dosada05/bracketview/middleware"
	"github.com/Dosada05/bracketview/realtime"
	"github.com/Dosada05/bracketview/repositories"
	api "github.com/Dosada05/bracketview/routes"
	"github.com/Dosada05/bracketview/services"
	"github.com/Dosada05/bracketview/storage"
	"github.com/go-chi/chi/v5"
)

// @title       Bracketview API
// @version     1.0
// @description Seeding, bracket generation and layout for elimination and round robin events.
// @BasePath    /api/v1
// @securityDefinitions.apikey BearerAuth
// @in          header
// @name        Authorization
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(migrateCtx, dbConn)
	cancelMigrate()
	if err != nil {
		logger.Error("failed to apply database schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database ready")

	var layoutCache cache.LayoutCache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(context.Background(), cfg.RedisURL, cfg.LayoutCacheTTL)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisCache.Close()
		layoutCache = redisCache
		logger.Info("redis layout cache enabled")
	} else {
		layoutCache = cache.NewMemoryCache(cfg.LayoutCacheTTL)
		logger.Info("in-memory layout cache enabled", slog.Duration("ttl", cfg.LayoutCacheTTL))
	}

	var snapshots services.SnapshotPublisher
	if cfg.R2Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(context.Background(), storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		snapshots = storage.NewSnapshotStore(uploader)
		logger.Info("Cloudflare R2 snapshot publishing enabled")
	}

	wsHub := realtime.NewHub(logger)
	go wsHub.Run()
	defer wsHub.Stop()

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	txRunner := services.NewSQLTxRunner(dbConn, logger)

	authService := services.NewAuthService(userRepo)
	teamService := services.NewTeamService(teamRepo, userRepo)
	leagueService := services.NewLeagueService(leagueRepo, eventRepo)
	eventService := services.NewEventService(eventRepo, participantRepo, layoutCache, wsHub, logger)
	participantService := services.NewParticipantService(participantRepo, eventRepo, teamRepo, layoutCache, logger)
	seedingService := services.NewSeedingService(participantRepo, eventRepo, txRunner, layoutCache, wsHub, cfg.Layout, logger)
	bracketService := services.NewBracketService(eventRepo, participantRepo, matchRepo, txRunner, layoutCache, snapshots, wsHub, cfg.Layout, logger)
	matchService := services.NewMatchService(matchRepo, eventRepo, participantRepo, txRunner, layoutCache, wsHub, logger)
	dashboardService := services.NewDashboardService(userRepo, eventRepo, participantRepo, matchRepo)

	h := api.Handlers{
		Auth:        handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Events:      handlers.NewEventHandler(eventService),
		Leagues:     handlers.NewLeagueHandler(leagueService),
		Teams:       handlers.NewTeamHandler(teamService),
		Participant: handlers.NewParticipantHandler(participantService),
		Seeding:     handlers.NewSeedingHandler(seedingService),
		Brackets:    handlers.NewBracketHandler(bracketService),
		Matches:     handlers.NewMatchHandler(matchService),
		Dashboard:   handlers.NewDashboardHandler(dashboardService),
		Formats:     handlers.NewFormatHandler(),
		WebSocket:   handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins, logger),
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, h, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		PreviewLimiter: middleware.NewIPRateLimiter(cfg.PreviewRateLimit, int(cfg.PreviewRateLimit)*2),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
