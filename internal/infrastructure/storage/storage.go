package storage

import (
	"fmt"

	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacompressor/internal/config"
	"github.com/yokitheyo/mediacompressor/internal/domain"
)

// ErrObjectNotFound is returned by Fetch when the key does not exist.
var ErrObjectNotFound = domain.ErrObjectNotFound

func New(cfg *config.StorageConfig) (domain.ObjectStorage, error) {
	switch cfg.Type {
	case "local":
		zlog.Logger.Info().Str("path", cfg.LocalPath).Msg("Initializing local storage")
		return NewLocalStorage(cfg)
	case "s3":
		zlog.Logger.Info().Str("endpoint", cfg.Endpoint()).Str("bucket", cfg.S3Bucket).Msg("Initializing S3 storage")
		return NewS3Storage(cfg)
	default:
		zlog.Logger.Error().Str("type", cfg.Type).Msg("Unsupported storage type, use 'local' or 's3'")
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
