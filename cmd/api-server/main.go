package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medibook/hospital-management/internal/api"
	"github.com/medibook/hospital-management/internal/appointment"
	"github.com/medibook/hospital-management/internal/auth"
	"github.com/medibook/hospital-management/internal/availability"
	"github.com/medibook/hospital-management/internal/config"
	"github.com/medibook/hospital-management/internal/db"
	"github.com/medibook/hospital-management/internal/directory"
	redisclient "github.com/medibook/hospital-management/internal/redis"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("config load error")
	}

	logger := newLogger(cfg)
	logger.Info().
		Str("env", cfg.Env).
		Str("http_port", cfg.HTTPPort).
		Msg("api-server starting up")

	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET is required")
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	logger.Info().Msg("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing redis")
		}
	}()
	logger.Info().Msg("connected to Redis")

	// Wire services
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(auth.NewPgRepository(pgPool), tokens, logger)

	dirSvc := directory.NewService(directory.NewPgRepository(pgPool), logger)

	availStore := availability.NewStore(availability.NewPgRepository(pgPool), logger)

	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
	apptSvc := appointment.NewService(appointment.NewPgRepository(pgPool), availStore, locker, logger)

	limiter := redisclient.NewFixedWindowLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow)

	router := api.NewRouter(api.RouterConfig{
		Auth:         authSvc,
		Directory:    dirSvc,
		Availability: availStore,
		Appointments: apptSvc,
		Limiter:      limiter,
		PgPool:       pgPool,
		Redis:        rdb,
		Logger:       logger,
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("api-server stopped")
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.Env == "dev" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	}
	return logger
}
