package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacompressor/internal/domain"
	"github.com/yokitheyo/mediacompressor/internal/metrics"
)

// CompressionUsecase runs one upload event through fetch, compress, upload and
// announce. Each worker owns its own instance because the publisher is not shared.
type CompressionUsecase struct {
	storage    domain.ObjectStorage
	compressor domain.Compressor
	publisher  domain.CompletionPublisher
	jobs       domain.JobRepository
	threshold  int64
}

// NewCompressionUsecase wires the pipeline. jobs may be nil when the ledger is disabled.
func NewCompressionUsecase(
	storage domain.ObjectStorage,
	compressor domain.Compressor,
	publisher domain.CompletionPublisher,
	jobs domain.JobRepository,
	threshold int64,
) *CompressionUsecase {
	return &CompressionUsecase{
		storage:    storage,
		compressor: compressor,
		publisher:  publisher,
		jobs:       jobs,
		threshold:  threshold,
	}
}

func (u *CompressionUsecase) Process(ctx context.Context, event domain.UploadEvent) (domain.Outcome, error) {
	start := time.Now()
	log := zlog.Logger.With().
		Str("media_id", event.MediaID.String()).
		Str("content_type", event.ContentType).
		Str("external_id_full", event.ExternalIDFull).
		Logger()

	job := domain.NewCompressionJob(event)
	u.startJob(ctx, job, log)

	outcome, err := u.run(ctx, event, log)
	if err != nil {
		var perr *domain.ProcessingError
		if !errors.As(err, &perr) {
			perr = domain.NewProcessingError(event.MediaID, domain.StageDecode, err)
		}
		perr.MediaID = event.MediaID

		job.MarkAsFailed(perr.Error())
		u.finishJob(ctx, job, log)
		metrics.Outcomes.WithLabelValues("failed", event.Format.String()).Inc()
		log.Error().Err(perr.Err).Str("stage", string(perr.Stage)).Msg("image processing failed")
		return domain.Outcome{}, perr
	}

	job.MarkAsDone(outcome)
	u.finishJob(ctx, job, log)

	metrics.Outcomes.WithLabelValues(string(outcome.Kind), event.Format.String()).Inc()
	metrics.ProcessingSeconds.WithLabelValues(event.Format.String()).Observe(time.Since(start).Seconds())
	metrics.BytesSaved.Add(float64(outcome.BytesSaved()))

	log.Info().
		Str("outcome", string(outcome.Kind)).
		Str("external_id_compressed", event.ExternalIDCompressed).
		Int64("original_size", outcome.OriginalSize).
		Int64("compressed_size", outcome.CompressedSize).
		Int("width", outcome.Width).
		Int("height", outcome.Height).
		Dur("took", time.Since(start)).
		Msg("image handled")

	return outcome, nil
}

func (u *CompressionUsecase) run(ctx context.Context, event domain.UploadEvent, log zerolog.Logger) (domain.Outcome, error) {
	outcome := domain.Outcome{
		MediaID:     event.MediaID,
		Format:      event.Format,
		ContentType: event.ContentType,
	}

	if !event.Format.Recognized() {
		log.Warn().Msg("unrecognized content type, nothing to compress")
		outcome.Kind = domain.OutcomeUnrecognized
		return outcome, nil
	}

	blob, err := u.fetch(ctx, event)
	if err != nil {
		return outcome, err
	}
	outcome.OriginalSize = blob.Size()

	if blob.DetectedType != "" && domain.FormatFromContentType(blob.DetectedType) != event.Format {
		log.Warn().Str("detected_type", blob.DetectedType).Msg("declared content type does not match the stored bytes")
	}

	if blob.Size() < u.threshold {
		log.Debug().Int64("size", blob.Size()).Int64("threshold", u.threshold).Msg("below size threshold, passing through")
		if err := u.put(ctx, event, blob.Data, event.ContentType); err != nil {
			return outcome, err
		}
		outcome.Kind = domain.OutcomePassedThrough
		outcome.CompressedSize = blob.Size()
		u.announce(ctx, event, log)
		return outcome, nil
	}

	compressed, err := u.compressor.Compress(blob.Format, blob.Data)
	if err != nil {
		return outcome, err
	}

	if err := u.put(ctx, event, compressed.Data, compressed.ContentType); err != nil {
		return outcome, err
	}

	outcome.Kind = domain.OutcomeCompressed
	outcome.ContentType = compressed.ContentType
	outcome.CompressedSize = int64(len(compressed.Data))
	outcome.Width = compressed.Width
	outcome.Height = compressed.Height
	u.announce(ctx, event, log)
	return outcome, nil
}

func (u *CompressionUsecase) fetch(ctx context.Context, event domain.UploadEvent) (*domain.ImageBlob, error) {
	rc, err := u.storage.Fetch(ctx, event.ExternalIDFull)
	if err != nil {
		return nil, domain.NewProcessingError(event.MediaID, domain.StageFetch, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, domain.NewProcessingError(event.MediaID, domain.StageFetch, fmt.Errorf("read %s: %w", event.ExternalIDFull, err))
	}

	return &domain.ImageBlob{
		Data:         data,
		Format:       event.Format,
		DeclaredType: event.ContentType,
		DetectedType: mimetype.Detect(data).String(),
	}, nil
}

func (u *CompressionUsecase) put(ctx context.Context, event domain.UploadEvent, data []byte, contentType string) error {
	err := u.storage.Put(ctx, event.ExternalIDCompressed, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return domain.NewProcessingError(event.MediaID, domain.StageUpload, err)
	}
	return nil
}

// announce publishes the completion event. Failures are logged and dropped:
// the object is already stored, so the delivery is still acknowledged.
func (u *CompressionUsecase) announce(ctx context.Context, event domain.UploadEvent, log zerolog.Logger) {
	err := u.publisher.PublishCompleted(ctx, domain.CompletionEvent{
		MediaID:              event.MediaID,
		ExternalIDCompressed: event.ExternalIDCompressed,
	})
	if err != nil {
		metrics.PublishFailures.Inc()
		log.Error().Err(err).Msg("failed to publish completion event")
	}
}

func (u *CompressionUsecase) startJob(ctx context.Context, job *domain.CompressionJob, log zerolog.Logger) {
	if u.jobs == nil {
		return
	}
	job.MarkAsProcessing()
	if err := u.jobs.Start(ctx, job); err != nil {
		log.Warn().Err(err).Msg("failed to record job start")
	}
}

func (u *CompressionUsecase) finishJob(ctx context.Context, job *domain.CompressionJob, log zerolog.Logger) {
	if u.jobs == nil {
		return
	}
	if err := u.jobs.Finish(ctx, job); err != nil {
		log.Warn().Err(err).Str("status", string(job.Status)).Msg("failed to record job result")
	}
}
