package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/segmentio/kafka-go"
)

const ChannelKafka = "kafka"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ReorderEvent is the Kafka payload for a reorder request.
type ReorderEvent struct {
	domain.ReorderRequest
	RequestedAt time.Time `json:"requested_at"`
}

// KafkaNotifier publishes reorder requests for a downstream purchasing
// system to pick up.
type KafkaNotifier struct {
	topic  string
	writer messageWriter
	now    func() time.Time
}

func NewKafkaNotifier(cfg config.NotifyConfig) (*KafkaNotifier, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if cfg.KafkaTopic == "" {
		return nil, fmt.Errorf("reorder topic is required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  1,
		WriteTimeout: 10 * time.Second,
	}

	return &KafkaNotifier{topic: cfg.KafkaTopic, writer: writer, now: time.Now}, nil
}

func (n *KafkaNotifier) Channel() string { return ChannelKafka }

func (n *KafkaNotifier) Send(ctx context.Context, req domain.ReorderRequest) error {
	msg, err := n.buildMessage(req)
	if err != nil {
		return err
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish reorder for %s failed: %w", req.Product, err)
	}
	return nil
}

func (n *KafkaNotifier) buildMessage(req domain.ReorderRequest) (kafka.Message, error) {
	now := n.now()
	payload, err := json.Marshal(ReorderEvent{ReorderRequest: req, RequestedAt: now.UTC()})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal reorder event: %w", err)
	}
	return kafka.Message{
		Topic: n.topic,
		Key:   []byte(req.Product),
		Value: payload,
		Time:  now,
	}, nil
}

// Close flushes and closes the underlying writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

var _ Notifier = (*KafkaNotifier)(nil)
