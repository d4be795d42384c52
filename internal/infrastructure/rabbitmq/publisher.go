package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacompressor/internal/config"
	"github.com/yokitheyo/mediacompressor/internal/domain"
	"github.com/yokitheyo/mediacompressor/internal/dto"
)

// RetryCountHeader carries the number of times a delivery has been retried.
const RetryCountHeader = "x-retry-count"

// Publisher owns a dedicated connection and channel. Both are opened on first
// use and re-opened whenever they are found closed.
type Publisher struct {
	mu         sync.Mutex
	url        string
	name       string
	exchange   string
	routingKey string
	retryQueue string

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(cfg *config.RabbitMQConfig, name string) *Publisher {
	return &Publisher{
		url:        cfg.URL(),
		name:       name,
		exchange:   cfg.Exchange,
		routingKey: cfg.CompressedRoutingKey,
		retryQueue: cfg.RetryQueue,
	}
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := dial(p.url, p.name)
		if err != nil {
			return nil, fmt.Errorf("dial: %w", err)
		}
		p.conn = conn
		zlog.Logger.Info().Str("connection", p.name).Msg("publisher connection opened")
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p.ch = ch
	return ch, nil
}

func (p *Publisher) publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	if err := ch.PublishWithContext(ctx, exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("publish to %q/%s: %w", exchange, key, err)
	}
	return nil
}

// PublishCompleted announces that the compressed object is available.
func (p *Publisher) PublishCompleted(ctx context.Context, event domain.CompletionEvent) error {
	msg, err := CompletedPublishing(event)
	if err != nil {
		return err
	}
	return p.publish(ctx, p.exchange, p.routingKey, msg)
}

// PublishRetry sends a copy of d to the retry queue with its attempt counter set.
func (p *Publisher) PublishRetry(ctx context.Context, d amqp.Delivery, attempt int) error {
	return p.publish(ctx, "", p.retryQueue, RetryPublishing(d, attempt))
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil && !p.ch.IsClosed() {
		_ = p.ch.Close()
	}
	p.ch = nil
	if p.conn != nil && !p.conn.IsClosed() {
		if err := p.conn.Close(); err != nil {
			return err
		}
	}
	p.conn = nil
	return nil
}

func CompletedPublishing(event domain.CompletionEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(dto.NewMediaCompressedMessage(event))
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal completion event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         body,
	}, nil
}

func RetryPublishing(d amqp.Delivery, attempt int) amqp.Publishing {
	headers := amqp.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers[RetryCountHeader] = int32(attempt)

	messageID := d.MessageId
	if messageID == "" {
		messageID = uuid.NewString()
	}

	return amqp.Publishing{
		Headers:         headers,
		ContentType:     d.ContentType,
		ContentEncoding: d.ContentEncoding,
		DeliveryMode:    amqp.Persistent,
		CorrelationId:   d.CorrelationId,
		MessageId:       messageID,
		Timestamp:       time.Now(),
		Type:            d.Type,
		AppId:           d.AppId,
		Body:            d.Body,
	}
}

// RetryCount reads RetryCountHeader, tolerating every integer width the
// broker may hand back.
func RetryCount(headers amqp.Table) int {
	switch v := headers[RetryCountHeader].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
