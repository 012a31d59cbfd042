package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medibook/hospital-management/internal/availability"
	"github.com/medibook/hospital-management/internal/config"
	"github.com/medibook/hospital-management/internal/db"
)

// The purge worker removes availability slots whose date has passed. It runs
// once at startup and then on every tick until it receives a shutdown signal.
func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("config load error")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("worker", "availability-purge").Logger()
	logger.Info().Dur("interval", cfg.PurgeInterval).Msg("purge worker starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()

	store := availability.NewStore(availability.NewPgRepository(pgPool), logger)

	runOnce(rootCtx, store, logger)

	ticker := time.NewTicker(cfg.PurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			logger.Info().Msg("purge worker stopped")
			return
		case <-ticker.C:
			runOnce(rootCtx, store, logger)
		}
	}
}

func runOnce(ctx context.Context, store *availability.Store, logger zerolog.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deleted, err := store.PurgeExpired(runCtx)
	if err != nil {
		logger.Error().Err(err).Msg("purge run failed")
		return
	}
	logger.Debug().Int64("deleted", deleted).Msg("purge run complete")
}
