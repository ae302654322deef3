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

	"github.com/Dosada05/chess-statistics/config"
	"github.com/Dosada05/chess-statistics/db"
	"github.com/Dosada05/chess-statistics/handlers"
	"github.com/Dosada05/chess-statistics/logging"
	"github.com/Dosada05/chess-statistics/repositories"
	api "github.com/Dosada05/chess-statistics/routes"
	"github.com/Dosada05/chess-statistics/services"
	"github.com/Dosada05/chess-statistics/storage"
)

const shutdownTimeout = 15 * time.Second

// @title Chess Statistics API
// @version 1.0
// @description API для учёта шахматистов, их партий и статистики.
// @securityDefinitions.basic BasicAuth
func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger, logCloser, err := logging.New(cfg)
	if err != nil {
		slog.Error("failed to initialize logger", slog.Any("error", err))
		os.Exit(1)
	}
	defer logCloser.Close()
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("api_prefix", cfg.APIPrefix))
	if !cfg.AuthConfigured() {
		logger.Warn("AUTH_USERNAME/AUTH_PASSWORD are not set, protected routes will answer 500")
	}

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 30*time.Second)
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
	logger.Info("database connection established", slog.String("driver", db.DriverName(cfg.DatabaseURL)))

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = db.Migrate(migrateCtx, dbConn)
	cancelMigrate()
	if err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация хранилища аватаров
	uploader, err := newUploader(cfg)
	if err != nil {
		logger.Error("failed to initialize avatar storage", slog.Any("error", err))
		os.Exit(1)
	}

	// Репозитории, сервисы, обработчики
	playerRepo := repositories.NewPlayerRepository(dbConn)
	gameRepo := repositories.NewGameRepository(dbConn)

	playerService := services.NewPlayerService(playerRepo, gameRepo, uploader)
	gameService := services.NewGameService(gameRepo, playerRepo)

	playerHandler := handlers.NewPlayerHandler(playerService)
	gameHandler := handlers.NewGameHandler(gameService)
	healthHandler := handlers.NewHealthHandler(dbConn)

	router := chi.NewRouter()
	api.SetupRoutes(router, cfg, logger, playerHandler, gameHandler, healthHandler)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
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
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
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

func newUploader(cfg *config.Config) (storage.FileUploader, error) {
	if cfg.S3Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		uploader, err := storage.NewS3Uploader(ctx, storage.S3UploaderConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			BucketName:      cfg.S3Bucket,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("S3 avatar storage initialized", slog.String("bucket", cfg.S3Bucket))
		return uploader, nil
	}

	uploader, err := storage.NewLocalUploader(cfg.UploadDir, cfg.PublicBaseURL+cfg.APIPrefix)
	if err != nil {
		return nil, err
	}
	slog.Info("local avatar storage initialized", slog.String("dir", cfg.UploadDir))
	return uploader, nil
}
