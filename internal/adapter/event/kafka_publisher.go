package event

import (
	"context"
	"encoding/json"
	"fmt"

	"vendor-settlement-service/config"
	"vendor-settlement-service/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher implements ports.EventPublisher using segmentio/kafka-go.
// Messages are keyed by vendor ID so events for one vendor stay ordered
// within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    zerolog.Logger
}

// NewKafkaPublisher creates a publisher for the settlement event topic.
func NewKafkaPublisher(cfg config.KafkaConfig, log zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.Topic,
			Balancer: &kafka.LeastBytes{},
		},
		log: log,
	}
}

// PublishWithdrawalEvent publishes a withdrawal lifecycle event.
func (p *KafkaPublisher) PublishWithdrawalEvent(ctx context.Context, evt ports.WithdrawalEvent) error {
	msg, err := encodeWithdrawalEvent(evt)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write withdrawal event: %w", err)
	}

	p.log.Debug().
		Str("type", evt.Type).
		Str("request_id", evt.RequestID.String()).
		Msg("withdrawal event published")
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func encodeWithdrawalEvent(evt ports.WithdrawalEvent) (kafka.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal withdrawal event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(evt.VendorID.String()),
		Value: value,
		Time:  evt.OccurredAt,
	}, nil
}

// NoopPublisher is used when the event stream is disabled in config.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that discards all events.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// PublishWithdrawalEvent discards the event.
func (p *NoopPublisher) PublishWithdrawalEvent(context.Context, ports.WithdrawalEvent) error {
	return nil
}
