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
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacompressor/internal/config"
	"github.com/yokitheyo/mediacompressor/internal/domain"
	httpHandler "github.com/yokitheyo/mediacompressor/internal/handler/http"
	infradatabase "github.com/yokitheyo/mediacompressor/internal/infrastructure/database"
	"github.com/yokitheyo/mediacompressor/internal/infrastructure/processor"
	"github.com/yokitheyo/mediacompressor/internal/infrastructure/storage"
	"github.com/yokitheyo/mediacompressor/internal/repository/postgres"
	"github.com/yokitheyo/mediacompressor/internal/retry"
	"github.com/yokitheyo/mediacompressor/internal/usecase"
	"github.com/yokitheyo/mediacompressor/internal/worker"
)

func main() {
	zlog.Init()
	zlog.Logger.Info().Msg("Starting Media Compressor Worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to load config")
	}
	setLogLevel(cfg.Logging.Level)

	// Storage
	store, err := storage.New(&cfg.Storage)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	imageProcessor := processor.NewImageProcessor(&cfg.Processing)

	// Job ledger
	var (
		database *dbpg.DB
		jobs     domain.JobRepository
	)
	if cfg.Database.Enabled {
		database, err = infradatabase.Connect(ctx, &cfg.Database)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to connect to database after all retries")
		}
		if cfg.Migrations.Enabled {
			zlog.Logger.Info().Msg("Running database migrations...")
			if err := infradatabase.RunMigrations(database); err != nil {
				zlog.Logger.Fatal().Err(err).Msg("Migrations failed")
			}
		}
		jobs = postgres.NewJobRepository(database, retry.DefaultStrategy)
	} else {
		zlog.Logger.Info().Msg("Job ledger disabled")
	}
	defer infradatabase.Close(database)

	// Ops server
	var srv *http.Server
	if cfg.Server.Enabled {
		srv = &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      httpHandler.NewRouter(usecase.NewJobUsecase(jobs)),
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		}
		go func() {
			zlog.Logger.Info().Str("addr", cfg.Server.Addr).Msg("Starting ops HTTP server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zlog.Logger.Error().Err(err).Msg("ops HTTP server failed")
			}
		}()
	}

	// Workers
	pool := worker.NewPool(cfg, store, imageProcessor, jobs)
	done := make(chan error, 1)
	go func() {
		done <- pool.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		zlog.Logger.Info().Msg("Shutdown signal received")
	case err := <-done:
		if err != nil {
			zlog.Logger.Error().Err(err).Msg("worker pool exited")
		}
		stop()
		done <- err
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zlog.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
		}
		cancel()
	}

	timeout := time.Duration(cfg.Worker.ShutdownTimeoutSec) * time.Second
	select {
	case <-done:
		zlog.Logger.Info().Msg("Worker shutdown complete")
	case <-time.After(timeout):
		zlog.Logger.Error().Dur("timeout", timeout).Msg("workers did not drain in time, exiting")
		infradatabase.Close(database)
		os.Exit(1)
	}
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		zlog.Logger.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
