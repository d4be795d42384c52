package usecase

import (
	"context"

	"github.com/yokitheyo/mediacompressor/internal/domain"
)

type JobUsecase struct {
	repo domain.JobRepository
}

// NewJobUsecase accepts a nil repo; lookups then fail with domain.ErrLedgerDisabled.
func NewJobUsecase(repo domain.JobRepository) *JobUsecase {
	return &JobUsecase{repo: repo}
}

func (u *JobUsecase) GetJob(ctx context.Context, mediaID string) (*domain.CompressionJob, error) {
	if u.repo == nil {
		return nil, domain.ErrLedgerDisabled
	}
	return u.repo.FindByMediaID(ctx, mediaID)
}
