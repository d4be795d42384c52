package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	retry "github.com/sethvargo/go-retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacompressor/internal/config"
	"github.com/yokitheyo/mediacompressor/internal/metrics"
)

const heartbeat = 10 * time.Second

func dial(url, name string) (*amqp.Connection, error) {
	props := amqp.NewConnectionProperties()
	props.SetClientConnectionName(name)
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat:  heartbeat,
		Locale:     "en_US",
		Properties: props,
	})
}

// Connect dials the broker until it succeeds or ctx is done, waiting a fixed
// delay between attempts.
func Connect(ctx context.Context, cfg *config.RabbitMQConfig, name string) (*amqp.Connection, error) {
	delay := time.Duration(cfg.ReconnectDelaySec) * time.Second
	if delay <= 0 {
		delay = 10 * time.Second
	}

	var conn *amqp.Connection
	attempt := 0
	err := retry.Do(ctx, retry.NewConstant(delay), func(ctx context.Context) error {
		attempt++
		c, err := dial(cfg.URL(), name)
		if err != nil {
			metrics.BrokerReconnects.Inc()
			zlog.Logger.Warn().
				Err(err).
				Str("connection", name).
				Int("attempt", attempt).
				Dur("retry_in", delay).
				Msg("rabbitmq connection failed, retrying")
			return retry.RetryableError(err)
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	zlog.Logger.Info().Str("connection", name).Int("attempt", attempt).Msg("rabbitmq connection established")
	return conn, nil
}
