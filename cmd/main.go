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

	"github.com/clubmatch/tournament-engine/config"
	"github.com/clubmatch/tournament-engine/db"
	"github.com/clubmatch/tournament-engine/handlers"
	"github.com/clubmatch/tournament-engine/live"
	"github.com/clubmatch/tournament-engine/repositories"
	"github.com/clubmatch/tournament-engine/routes"
	"github.com/clubmatch/tournament-engine/services"
	"github.com/clubmatch/tournament-engine/storage"
	"github.com/go-chi/chi/v5"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Logo storage is optional; without R2 settings the engine runs
	// with uploads disabled.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewR2Uploader(context.Background(), storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized")
	} else {
		logger.Info("object storage not configured, logo uploads disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	poolRepo := repositories.NewPostgresPoolRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	bracketRepo := repositories.NewPostgresBracketRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	organizerRepo := repositories.NewPostgresOrganizerRepository(dbConn)

	locks := services.NewTournamentLocks()
	authService := services.NewAuthService(organizerRepo, cfg.JWTSecretKey, cfg.TokenTTL)
	playerService := services.NewPlayerService(playerRepo)
	tournamentService := services.NewTournamentService(
		dbConn,
		tournamentRepo,
		playerRepo,
		teamRepo,
		poolRepo,
		matchRepo,
		bracketRepo,
		uploader,
		hub,
		locks,
		logger,
	)
	matchService := services.NewMatchService(
		dbConn,
		tournamentRepo,
		matchRepo,
		poolRepo,
		teamRepo,
		bracketRepo,
		hub,
		locks,
		logger,
	)

	authHandler := handlers.NewAuthHandler(authService, logger)
	playerHandler := handlers.NewPlayerHandler(playerService, logger)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, logger)
	matchHandler := handlers.NewMatchHandler(matchService, logger)
	webSocketHandler := handlers.NewWebSocketHandler(hub, tournamentService, logger)

	router := chi.NewRouter()
	routes.Setup(
		router,
		cfg.JWTSecretKey,
		cfg.CORSAllowedOrigins,
		authHandler,
		playerHandler,
		tournamentHandler,
		matchHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
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
