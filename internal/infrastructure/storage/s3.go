package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacompressor/internal/config"
)

type s3Storage struct {
	client   *minio.Client
	bucket   string
	partSize uint64
}

func NewS3Storage(cfg *config.StorageConfig) (*s3Storage, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	creds := credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, "")
	client, err := minio.New(cfg.Endpoint(), &minio.Options{
		Creds:  creds,
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize s3 client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.S3Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check s3 bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.S3Bucket, minio.MakeBucketOptions{Region: cfg.S3Region}); err != nil {
			zlog.Logger.Warn().Err(err).Str("bucket", cfg.S3Bucket).Msg("unable to create bucket, ensure it exists and credentials are correct")
		} else {
			zlog.Logger.Info().Str("bucket", cfg.S3Bucket).Msg("created s3 bucket")
		}
	}

	return &s3Storage{
		client:   client,
		bucket:   cfg.S3Bucket,
		partSize: uint64(cfg.PartSizeMB) * 1024 * 1024,
	}, nil
}

func (s *s3Storage) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		zlog.Logger.Error().Err(err).Str("object", key).Msg("failed to get object")
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}

	// GetObject is lazy; Stat surfaces a missing key.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		zlog.Logger.Error().Err(err).Str("object", key).Msg("object inaccessible")
		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}

	return obj, nil
}

func (s *s3Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if r == nil {
		return fmt.Errorf("reader is nil")
	}

	opts := minio.PutObjectOptions{ContentType: contentType}
	if size < 0 {
		opts.PartSize = s.partSize
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, opts)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("object", key).Msg("failed to put object to s3")
		return fmt.Errorf("put object %s: %w", key, err)
	}

	zlog.Logger.Debug().
		Str("object", key).
		Str("content_type", contentType).
		Int64("bytes", info.Size).
		Msg("object saved to s3")
	return nil
}
