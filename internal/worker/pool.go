package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/wb-go/wbf/zlog"
	"golang.org/x/sync/errgroup"

	"github.com/yokitheyo/mediacompressor/internal/config"
	"github.com/yokitheyo/mediacompressor/internal/domain"
	"github.com/yokitheyo/mediacompressor/internal/infrastructure/rabbitmq"
	"github.com/yokitheyo/mediacompressor/internal/usecase"
)

// Pool runs cfg.Worker.Count independent workers. Each one owns its broker
// connections; storage, compressor and ledger are shared.
type Pool struct {
	cfg        *config.Config
	storage    domain.ObjectStorage
	compressor domain.Compressor
	jobs       domain.JobRepository
}

func NewPool(cfg *config.Config, storage domain.ObjectStorage, compressor domain.Compressor, jobs domain.JobRepository) *Pool {
	return &Pool{
		cfg:        cfg,
		storage:    storage,
		compressor: compressor,
		jobs:       jobs,
	}
}

// Run blocks until ctx is done and every worker has drained.
func (p *Pool) Run(ctx context.Context) error {
	if d := time.Duration(p.cfg.Worker.StartupDelaySec) * time.Second; d > 0 {
		zlog.Logger.Info().Dur("delay", d).Msg("waiting before starting workers")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(d):
		}
	}

	topology := rabbitmq.NewTopology(&p.cfg.RabbitMQ, time.Duration(p.cfg.Worker.RetryDelaySec)*time.Second)

	var g errgroup.Group
	for i := 1; i <= p.cfg.Worker.Count; i++ {
		id := i
		g.Go(func() error {
			return p.runWorker(ctx, id, topology)
		})
	}

	zlog.Logger.Info().Int("workers", p.cfg.Worker.Count).Msg("worker pool started")
	return g.Wait()
}

func (p *Pool) runWorker(ctx context.Context, id int, topology rabbitmq.Topology) error {
	name := fmt.Sprintf("media-compressor-%d", id)

	publisher := rabbitmq.NewPublisher(&p.cfg.RabbitMQ, name+"-publisher")
	defer func() {
		if err := publisher.Close(); err != nil {
			zlog.Logger.Warn().Err(err).Int("worker_id", id).Msg("failed to close publisher")
		}
	}()

	pipeline := usecase.NewCompressionUsecase(p.storage, p.compressor, publisher, p.jobs, p.cfg.Processing.SizeThresholdBytes)
	controller := NewController(
		id,
		pipeline,
		publisher,
		p.cfg.Worker.MaxAttempts,
		time.Duration(p.cfg.Worker.ProcessTimeoutSec)*time.Second,
	)

	consumer := rabbitmq.NewConsumer(&p.cfg.RabbitMQ, topology, p.cfg.Worker.Prefetch, name, controller.HandleDelivery)
	if err := consumer.Start(ctx); err != nil {
		zlog.Logger.Error().Err(err).Int("worker_id", id).Msg("worker stopped with error")
		return fmt.Errorf("worker %d: %w", id, err)
	}
	return nil
}
