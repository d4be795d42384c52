package database

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

//go:embed migrations/*.sql
var migrations embed.FS

func RunMigrations(db *dbpg.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db.Master, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, err := goose.GetDBVersion(db.Master)
	if err == nil {
		zlog.Logger.Info().Int64("version", version).Msg("database migrations applied")
	}
	return nil
}
