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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/velmark/archery-federation/brackets"
	"github.com/velmark/archery-federation/config"
	"github.com/velmark/archery-federation/db"
	"github.com/velmark/archery-federation/handlers"
	"github.com/velmark/archery-federation/repositories"
	api "github.com/velmark/archery-federation/routes"
	"github.com/velmark/archery-federation/services"
	"github.com/velmark/archery-federation/storage"
)

const schedulerInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

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
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize file uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("file uploader initialized")

	wsHub := brackets.NewHub()
	go wsHub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	clubRepo := repositories.NewPostgresClubRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	categoryRepo := repositories.NewPostgresCategoryRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	certificateRepo := repositories.NewPostgresCertificateRepository(dbConn)
	transactor := repositories.NewTransactor(dbConn)
	logger.Info("repositories initialized")

	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, clubRepo, uploader)
	clubService := services.NewClubService(clubRepo, userRepo, uploader)
	eventService := services.NewEventService(eventRepo, userRepo, categoryRepo, uploader, emailService, logger)
	categoryService := services.NewCategoryService(dbConn, categoryRepo, eventRepo, userRepo)
	categoryDraftService := services.NewCategoryDraftService(transactor, categoryRepo, eventRepo, userRepo)
	registrationService := services.NewRegistrationService(registrationRepo, categoryRepo, eventRepo, userRepo, uploader, emailService, logger)
	bracketService := services.NewBracketService(
		transactor,
		matchRepo,
		registrationRepo,
		categoryRepo,
		eventRepo,
		userRepo,
		brackets.NewSingleEliminationGenerator(),
		wsHub,
		logger,
	)
	matchService := services.NewMatchService(transactor, matchRepo, eventRepo, userRepo, wsHub, logger)
	certificateService := services.NewCertificateService(certificateRepo, eventRepo, userRepo, uploader)
	logger.Info("services initialized")

	// Scheduler advancing event statuses by their date boundaries.
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("event status scheduler started", slog.Duration("interval", schedulerInterval))

		if err := eventService.AutoUpdateStatusesByDates(context.Background()); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := eventService.AutoUpdateStatusesByDates(context.Background()); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	userHandler := handlers.NewUserHandler(userService)
	clubHandler := handlers.NewClubHandler(clubService)
	eventHandler := handlers.NewEventHandler(eventService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	categoryDraftHandler := handlers.NewCategoryDraftHandler(categoryDraftService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	matchHandler := handlers.NewMatchHandler(bracketService, matchService)
	certificateHandler := handlers.NewCertificateHandler(certificateService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("http handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authHandler,
		userHandler,
		clubHandler,
		eventHandler,
		categoryHandler,
		categoryDraftHandler,
		registrationHandler,
		matchHandler,
		certificateHandler,
		webSocketHandler,
		cfg.JWTSecretKey,
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

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
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
