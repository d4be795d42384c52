package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wb-go/wbf/dbpg"

	"github.com/yokitheyo/mediacompressor/internal/domain"
	infradatabase "github.com/yokitheyo/mediacompressor/internal/infrastructure/database"
	"github.com/yokitheyo/mediacompressor/internal/repository/postgres"
	"github.com/yokitheyo/mediacompressor/internal/retry"
)

func setupTestDB(t *testing.T) *dbpg.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("media"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := dbpg.New(dsn, nil, &dbpg.Options{MaxOpenConns: 2})
	require.NoError(t, err)
	t.Cleanup(func() { infradatabase.Close(db) })

	require.NoError(t, infradatabase.RunMigrations(db))
	return db
}

func TestJobRepositoryLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewJobRepository(db, retry.DefaultStrategy)
	ctx := context.Background()

	event := domain.UploadEvent{
		MediaID:              domain.NewNumericMediaID(101),
		ExternalIDFull:       "full-101",
		ExternalIDCompressed: "cmp-101",
		ContentType:          "image/png",
	}

	job := domain.NewCompressionJob(event)
	job.MarkAsProcessing()
	require.NoError(t, repo.Start(ctx, job))

	job.MarkAsFailed("media 101: fetch: object not found")
	require.NoError(t, repo.Finish(ctx, job))

	got, err := repo.FindByMediaID(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, domain.JobFailed, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, "media 101: fetch: object not found", got.ErrorMessage)
	assert.Nil(t, got.CompletedAt)

	retried := domain.NewCompressionJob(event)
	retried.MarkAsProcessing()
	require.NoError(t, repo.Start(ctx, retried))
	retried.MarkAsDone(domain.Outcome{
		Kind:           domain.OutcomeCompressed,
		ContentType:    "image/png",
		OriginalSize:   2_500_000,
		CompressedSize: 700_000,
		Width:          1920,
		Height:         1440,
	})
	require.NoError(t, repo.Finish(ctx, retried))

	got, err = repo.FindByMediaID(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, got.Status)
	assert.Equal(t, 2, got.Attempts)
	assert.Equal(t, "compressed", got.Outcome)
	assert.Equal(t, int64(700_000), got.CompressedSize)
	assert.Equal(t, 1920, got.Width)
	assert.Empty(t, got.ErrorMessage)
	assert.NotNil(t, got.CompletedAt)
}

func TestJobRepositoryNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewJobRepository(db, retry.DefaultStrategy)

	_, err := repo.FindByMediaID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	err = repo.Finish(context.Background(), &domain.CompressionJob{MediaID: "missing", Status: domain.JobFailed})
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}
