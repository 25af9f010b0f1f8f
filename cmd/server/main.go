package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/colefield/airwave/internal/config"
	"github.com/colefield/airwave/internal/db"
	"github.com/colefield/airwave/internal/logger"
	"github.com/colefield/airwave/internal/schedule"
	"github.com/colefield/airwave/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", false)
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create data directory")
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to get sql.DB for migrations")
	}
	if err := db.RunMigrations(sqlDB, "file://./migrations"); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	srv := server.New(cfg, database)

	if cfg.Schedule.SeedFile != "" {
		seedChannels(srv.Schedules(), cfg.Schedule.SeedFile)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Log.Fatal().Err(err).Msg("Server failed")
	case sig := <-quit:
		logger.Log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// seedChannels imports channel definitions from a YAML file. Seeding failures
// are logged but do not abort startup.
func seedChannels(schedules *schedule.Service, path string) {
	seed, err := schedule.LoadSeedFile(path)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("seed_file", path).
			Msg("Failed to load seed file")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := schedules.Import(ctx, seed); err != nil {
		logger.Log.Error().
			Err(err).
			Str("seed_file", path).
			Msg("Failed to import seed channels")
		return
	}

	logger.Log.Info().
		Str("seed_file", path).
		Int("channels", len(seed.Channels)).
		Msg("Seed import complete")
}
