package domain

import "context"

//go:generate mockgen -source=repository.go -destination=../mocks/mock_repository.go -package=mocks

type JobRepository interface {
	// Start upserts the job as processing and bumps its attempt counter.
	Start(ctx context.Context, job *CompressionJob) error
	Finish(ctx context.Context, job *CompressionJob) error
	FindByMediaID(ctx context.Context, mediaID string) (*CompressionJob, error)
}
