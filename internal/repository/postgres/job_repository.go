package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacompressor/internal/domain"
)

type jobRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewJobRepository(db *dbpg.DB, strategy retry.Strategy) domain.JobRepository {
	return &jobRepository{
		db:       db,
		strategy: strategy,
	}
}

func (r *jobRepository) Start(ctx context.Context, job *domain.CompressionJob) error {
	query := `
		INSERT INTO compression_jobs (
			media_id, external_id_full, external_id_compressed, content_type,
			status, attempts, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, 1, $6, $7)
		ON CONFLICT (media_id) DO UPDATE
		SET external_id_full = EXCLUDED.external_id_full,
		    external_id_compressed = EXCLUDED.external_id_compressed,
		    content_type = EXCLUDED.content_type,
		    status = EXCLUDED.status,
		    attempts = compression_jobs.attempts + 1,
		    error_message = NULL,
		    updated_at = NOW()
	`

	_, err := r.db.ExecWithRetry(ctx, r.strategy, query,
		job.MediaID,
		job.ExternalIDFull,
		job.ExternalIDCompressed,
		job.ContentType,
		job.Status,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("media_id", job.MediaID).Msg("failed to start job")
		return fmt.Errorf("start job: %w", err)
	}
	return nil
}

func (r *jobRepository) Finish(ctx context.Context, job *domain.CompressionJob) error {
	query := `
		UPDATE compression_jobs
		SET status = $2,
		    outcome = $3,
		    output_content_type = $4,
		    original_size = $5,
		    compressed_size = $6,
		    width = $7,
		    height = $8,
		    error_message = $9,
		    completed_at = $10,
		    updated_at = NOW()
		WHERE media_id = $1
	`

	result, err := r.db.ExecWithRetry(ctx, r.strategy, query,
		job.MediaID,
		job.Status,
		nullString(job.Outcome),
		nullString(job.OutputContentType),
		nullInt64(job.OriginalSize),
		nullInt64(job.CompressedSize),
		nullInt64(int64(job.Width)),
		nullInt64(int64(job.Height)),
		nullString(job.ErrorMessage),
		job.CompletedAt,
	)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("media_id", job.MediaID).Msg("failed to finish job")
		return fmt.Errorf("finish job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *jobRepository) FindByMediaID(ctx context.Context, mediaID string) (*domain.CompressionJob, error) {
	query := `
		SELECT media_id, external_id_full, external_id_compressed, content_type,
		       output_content_type, status, outcome, attempts, original_size,
		       compressed_size, width, height, error_message,
		       created_at, updated_at, completed_at
		FROM compression_jobs
		WHERE media_id = $1
	`

	var job domain.CompressionJob
	var outputType, outcome, errorMsg sql.NullString
	var originalSize, compressedSize, width, height sql.NullInt64
	var completedAt sql.NullTime

	err := r.db.Master.QueryRowContext(ctx, query, mediaID).Scan(
		&job.MediaID,
		&job.ExternalIDFull,
		&job.ExternalIDCompressed,
		&job.ContentType,
		&outputType,
		&job.Status,
		&outcome,
		&job.Attempts,
		&originalSize,
		&compressedSize,
		&width,
		&height,
		&errorMsg,
		&job.CreatedAt,
		&job.UpdatedAt,
		&completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		zlog.Logger.Error().Err(err).Str("media_id", mediaID).Msg("failed to find job")
		return nil, fmt.Errorf("find job: %w", err)
	}

	job.OutputContentType = outputType.String
	job.Outcome = outcome.String
	job.ErrorMessage = errorMsg.String
	job.OriginalSize = originalSize.Int64
	job.CompressedSize = compressedSize.Int64
	job.Width = int(width.Int64)
	job.Height = int(height.Int64)
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}

	return &job, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64(i int64) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: i, Valid: true}
}
