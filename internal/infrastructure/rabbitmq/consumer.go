package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacompressor/internal/config"
)

var errConnectionLost = errors.New("delivery channel closed")

// MessageHandler settles a delivery. It must ack or nack exactly once.
type MessageHandler func(ctx context.Context, d amqp.Delivery)

// Consumer runs one worker's consume loop over its own connection.
type Consumer struct {
	name     string
	cfg      *config.RabbitMQConfig
	topology Topology
	prefetch int
	handler  MessageHandler
}

func NewConsumer(cfg *config.RabbitMQConfig, topology Topology, prefetch int, name string, handler MessageHandler) *Consumer {
	return &Consumer{
		name:     name,
		cfg:      cfg,
		topology: topology,
		prefetch: prefetch,
		handler:  handler,
	}
}

// Start consumes until ctx is done, reconnecting whenever the connection drops.
func (c *Consumer) Start(ctx context.Context) error {
	for {
		conn, err := Connect(ctx, c.cfg, c.name)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		err = c.consume(ctx, conn)
		if !conn.IsClosed() {
			_ = conn.Close()
		}

		if ctx.Err() != nil {
			zlog.Logger.Info().Str("consumer", c.name).Msg("RabbitMQ consumer stopped")
			return nil
		}
		zlog.Logger.Warn().Err(err).Str("consumer", c.name).Msg("RabbitMQ consumer interrupted, reconnecting")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(c.cfg.ReconnectDelaySec) * time.Second):
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() {
		if !ch.IsClosed() {
			_ = ch.Close()
		}
	}()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	if err := c.topology.Declare(ch); err != nil {
		return err
	}

	tag := fmt.Sprintf("%s-%s", c.name, uuid.NewString()[:8])
	deliveries, err := ch.Consume(c.topology.Queue, tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.topology.Queue, err)
	}

	zlog.Logger.Info().
		Str("consumer", tag).
		Str("queue", c.topology.Queue).
		Int("prefetch", c.prefetch).
		Msg("RabbitMQ consumer started")

	for {
		select {
		case <-ctx.Done():
			if err := ch.Cancel(tag, false); err != nil {
				zlog.Logger.Warn().Err(err).Str("consumer", tag).Msg("failed to cancel consumer")
			}
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errConnectionLost
			}
			c.handler(ctx, d)
		}
	}
}
