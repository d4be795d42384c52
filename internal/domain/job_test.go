package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompressionJobLifecycle(t *testing.T) {
	job := NewCompressionJob(UploadEvent{
		MediaID:              NewNumericMediaID(5),
		ExternalIDFull:       "f",
		ExternalIDCompressed: "c",
		ContentType:          "image/heic",
	})
	assert.Equal(t, JobPending, job.Status)
	assert.Equal(t, "5", job.MediaID)

	job.MarkAsProcessing()
	job.MarkAsFailed("fetch: object not found")
	assert.Equal(t, JobFailed, job.Status)
	assert.False(t, job.IsFinished())

	job.MarkAsProcessing()
	assert.Equal(t, 2, job.Attempts)

	job.MarkAsDone(Outcome{Kind: OutcomeCompressed, ContentType: "image/jpeg", OriginalSize: 3000000, CompressedSize: 400000, Width: 1920, Height: 1440})
	assert.Equal(t, JobCompleted, job.Status)
	assert.Equal(t, "image/jpeg", job.OutputContentType)
	assert.Empty(t, job.ErrorMessage)
	assert.NotNil(t, job.CompletedAt)
	assert.True(t, job.IsFinished())
}

func TestCompressionJobSkipped(t *testing.T) {
	job := NewCompressionJob(UploadEvent{MediaID: NewMediaID("x"), ContentType: "application/unknown"})
	job.MarkAsDone(Outcome{Kind: OutcomeUnrecognized})
	assert.Equal(t, JobSkipped, job.Status)
}

func TestOutcomeBytesSaved(t *testing.T) {
	assert.Equal(t, int64(600), Outcome{Kind: OutcomeCompressed, OriginalSize: 1000, CompressedSize: 400}.BytesSaved())
	assert.Zero(t, Outcome{Kind: OutcomeCompressed, OriginalSize: 400, CompressedSize: 1000}.BytesSaved())
	assert.Zero(t, Outcome{Kind: OutcomePassedThrough, OriginalSize: 1000, CompressedSize: 1000}.BytesSaved())
}

func TestProcessingErrorUnwraps(t *testing.T) {
	err := NewProcessingError(NewNumericMediaID(9), StageFetch, ErrObjectNotFound)
	assert.True(t, errors.Is(err, ErrObjectNotFound))
	assert.Equal(t, "media 9: fetch: object not found", err.Error())
}
