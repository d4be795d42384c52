package database

import (
	"context"
	"fmt"
	"time"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacompressor/internal/config"
)

// Connect opens the ledger database, pinging the master until it answers or
// the configured attempts run out.
func Connect(ctx context.Context, cfg *config.DatabaseConfig) (*dbpg.DB, error) {
	retries := max(cfg.ConnectRetries, 1)
	delay := time.Duration(max(cfg.ConnectRetryDelaySec, 1)) * time.Second

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeSec) * time.Second,
	}
	slaves := cfg.ReplicaDSNs()

	var lastErr error
	for i := 1; i <= retries; i++ {
		db, err := open(ctx, cfg.DSN, slaves, opts)
		if err == nil {
			zlog.Logger.Info().Int("attempt", i).Msg("Database connection established successfully")
			return db, nil
		}
		lastErr = err
		zlog.Logger.Warn().Err(err).Msgf("Database connection attempt %d/%d failed", i, retries)

		if i == retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d retries: %w", retries, lastErr)
}

func open(ctx context.Context, dsn string, slaves []string, opts *dbpg.Options) (*dbpg.DB, error) {
	db, err := dbpg.New(dsn, slaves, opts)
	if err != nil {
		return nil, err
	}
	if db.Master == nil {
		return nil, fmt.Errorf("database.Master is nil")
	}
	if err := db.Master.PingContext(ctx); err != nil {
		Close(db)
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

func Close(db *dbpg.DB) {
	if db == nil {
		return
	}
	if db.Master != nil {
		if err := db.Master.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("closing db master failed")
		}
	}
	for i, s := range db.Slaves {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil {
			zlog.Logger.Error().Err(err).Int("slave_index", i).Msg("closing db slave failed")
		}
	}
}
