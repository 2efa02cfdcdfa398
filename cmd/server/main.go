package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prudhvinik1/fastcarsales/internal/config"
	"github.com/prudhvinik1/fastcarsales/internal/database"
	"github.com/prudhvinik1/fastcarsales/internal/handlers"
	"github.com/prudhvinik1/fastcarsales/internal/logger"
	"github.com/prudhvinik1/fastcarsales/internal/repositories"
	"github.com/prudhvinik1/fastcarsales/internal/scanner"
	"github.com/prudhvinik1/fastcarsales/internal/services"
	"github.com/prudhvinik1/fastcarsales/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg := logger.New(cfg.Environment, cfg.LogLevel)

	// Initialize database connections
	postgresPool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to create postgres pool")
	}
	defer postgresPool.Close()

	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		logg.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to create redis client")
	}
	defer redisClient.Close()

	// Object storage and malware scanning
	minioClient, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to create minio client")
	}
	profileStore, err := storage.NewClient(ctx, minioClient, cfg.Storage.ProfileBucket)
	if err != nil {
		logg.Fatal().Err(err).Str("bucket", cfg.Storage.ProfileBucket).Msg("failed to prepare bucket")
	}

	clam := scanner.New(cfg.Scanner.Address, cfg.Scanner.Timeout)
	if err := clam.Ping(ctx); err != nil {
		// Uploads fail with 503 until clamd comes up.
		logg.Warn().Err(err).Str("address", cfg.Scanner.Address).Msg("malware scanner unreachable")
	}

	// Repositories and services
	accounts := repositories.NewPostgresAccountRepository(postgresPool)
	profiles := repositories.NewPostgresProfileRepository(postgresPool)
	applications := repositories.NewPostgresSellerApplicationRepository(postgresPool)
	refreshTokens := repositories.NewRedisRefreshTokenRepository(redisClient)
	txRunner := repositories.NewPostgresTxRunner(postgresPool)

	tokens := services.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	userService := services.NewUserService(accounts, txRunner, cfg.BcryptCost, logg)
	authService := services.NewAuthService(userService, refreshTokens, tokens, cfg.CookieSecure, logg)

	storageService, err := services.NewStorageService(
		profileStore, clam, cfg.Upload, cfg.Storage.PublicURL, cfg.Storage.PresignExpiry, logg,
	)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to create storage service")
	}
	profileService := services.NewProfileService(profiles, storageService, logg)
	applicationService := services.NewSellerApplicationService(applications, txRunner, userService, logg)

	h := handlers.New(authService, userService, profileService, applicationService, handlers.Options{
		CORSOrigins:   cfg.CORSOrigins,
		AccessTTL:     cfg.JWT.AccessTTL,
		MaxUploadSize: cfg.Upload.MaxSize,
		Checks: map[string]handlers.HealthCheck{
			"postgres": postgresPool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	}, logg)

	// Start Server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logg.Info().Msg("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logg.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	logg.Info().Str("port", cfg.ServerPort).Str("environment", cfg.Environment).Msg("starting server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Fatal().Err(err).Msg("server error")
	}

	logg.Info().Msg("server stopped gracefully")
}
