package domain

import (
	"context"
	"io"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks

// ObjectStorage is the gateway to the single media bucket.
type ObjectStorage interface {
	// Fetch fails with ErrObjectNotFound when key does not exist.
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
	// Put stores r under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

type Compressor interface {
	Compress(format Format, data []byte) (*CompressedImage, error)
}

type CompletionPublisher interface {
	PublishCompleted(ctx context.Context, event CompletionEvent) error
}

type MediaCompressor interface {
	Process(ctx context.Context, event UploadEvent) (Outcome, error)
}

type JobService interface {
	GetJob(ctx context.Context, mediaID string) (*CompressionJob, error)
}
