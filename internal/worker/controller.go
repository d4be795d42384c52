package worker

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacompressor/internal/domain"
	"github.com/yokitheyo/mediacompressor/internal/dto"
	"github.com/yokitheyo/mediacompressor/internal/infrastructure/rabbitmq"
	"github.com/yokitheyo/mediacompressor/internal/metrics"
)

// Decision is how a delivery was settled with the broker.
type Decision string

const (
	DecisionAck        Decision = "ack"
	DecisionRetry      Decision = "retry"
	DecisionDeadLetter Decision = "dead_letter"
	DecisionRequeue    Decision = "requeue"
)

type RetryPublisher interface {
	PublishRetry(ctx context.Context, d amqp.Delivery, attempt int) error
}

// Controller turns pipeline results into exactly one ack or nack per delivery.
type Controller struct {
	workerID       int
	compressor     domain.MediaCompressor
	retries        RetryPublisher
	maxAttempts    int
	processTimeout time.Duration
}

func NewController(workerID int, compressor domain.MediaCompressor, retries RetryPublisher, maxAttempts int, processTimeout time.Duration) *Controller {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Controller{
		workerID:       workerID,
		compressor:     compressor,
		retries:        retries,
		maxAttempts:    maxAttempts,
		processTimeout: processTimeout,
	}
}

// HandleDelivery adapts Handle to rabbitmq.MessageHandler.
func (c *Controller) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	c.Handle(ctx, d)
}

// Handle processes a delivery and settles it. The pipeline runs on a context
// detached from ctx so a shutdown lets the in-flight image finish.
func (c *Controller) Handle(ctx context.Context, d amqp.Delivery) Decision {
	log := zlog.Logger.With().
		Int("worker_id", c.workerID).
		Uint64("delivery_tag", d.DeliveryTag).
		Bool("redelivered", d.Redelivered).
		Logger()

	event, err := dto.ParseUploadEvent(d.Body)
	if err != nil {
		log.Error().Err(err).Bytes("body", truncate(d.Body, 512)).Msg("dropping malformed event")
		return c.settle(d, DecisionAck, log)
	}
	log = log.With().Str("media_id", event.MediaID.String()).Logger()

	pctx := context.WithoutCancel(ctx)
	if c.processTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(pctx, c.processTimeout)
		defer cancel()
	}

	_, err = c.compressor.Process(pctx, event)
	if err == nil {
		return c.settle(d, DecisionAck, log)
	}

	var perr *domain.ProcessingError
	if !errors.As(err, &perr) {
		log.Error().Err(err).Msg("unexpected pipeline error")
	}

	if ctx.Err() != nil {
		log.Warn().Err(err).Msg("shutting down, returning delivery to the queue")
		return c.settle(d, DecisionRequeue, log)
	}

	attempt := rabbitmq.RetryCount(d.Headers) + 1
	if attempt >= c.maxAttempts {
		log.Error().Err(err).Int("attempt", attempt).Msg("attempts exhausted, dead-lettering")
		return c.settle(d, DecisionDeadLetter, log)
	}

	if err := c.retries.PublishRetry(pctx, d, attempt); err != nil {
		log.Error().Err(err).Int("attempt", attempt).Msg("failed to schedule retry, requeueing")
		return c.settle(d, DecisionRequeue, log)
	}
	log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", c.maxAttempts).Msg("processing failed, retry scheduled")
	return c.settle(d, DecisionRetry, log)
}

func (c *Controller) settle(d amqp.Delivery, decision Decision, log zerolog.Logger) Decision {
	var err error
	switch decision {
	case DecisionAck, DecisionRetry:
		err = d.Ack(false)
	case DecisionDeadLetter:
		err = d.Nack(false, false)
	case DecisionRequeue:
		err = d.Nack(false, true)
	}
	if err != nil {
		log.Error().Err(err).Str("decision", string(decision)).Msg("failed to settle delivery")
	}
	metrics.Deliveries.WithLabelValues(string(decision)).Inc()
	return decision
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
