// Package kafka publishes order status events for downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"fooddelivery/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

var _ ports.OrderEventPublisher = (*Publisher)(nil)

type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// StatusChangedPayload is the JSON body of an order status event.
type StatusChangedPayload struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	DriverID   *string   `json:"driver_id,omitempty"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewPublisher writes asynchronously: PublishStatusChanged returns once the message is
// queued and delivery failures are only logged.
func NewPublisher(cfg Config, logger *slog.Logger) *Publisher {
	logger = logger.With(slog.String("component", "kafka_publisher"))
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("failed to deliver order events",
					slog.Int("count", len(messages)), slog.Any("error", err))
			}
		},
	}
	return newPublisher(writer, logger)
}

func newPublisher(writer messageWriter, logger *slog.Logger) *Publisher {
	return &Publisher{writer: writer, logger: logger}
}

func (p *Publisher) PublishStatusChanged(ctx context.Context, event ports.OrderStatusChanged) error {
	payload := StatusChangedPayload{
		OrderID:    event.OrderID.String(),
		CustomerID: event.CustomerID.String(),
		From:       event.From.String(),
		To:         event.To.String(),
		OccurredAt: event.OccurredAt.UTC(),
	}
	if event.DriverID != nil {
		driverID := event.DriverID.String()
		payload.DriverID = &driverID
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	// keyed by order so that all events of one order land on one partition, in order
	msg := kafka.Message{
		Key:   []byte(payload.OrderID),
		Value: value,
		Time:  payload.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.status_changed")},
		},
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write order event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
