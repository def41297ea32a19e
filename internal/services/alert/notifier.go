package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes alerts as JSON to the alert topic.
type KafkaNotifier struct {
	writer messageWriter
	topic  string
}

// NewKafkaNotifier builds a synchronous writer. A non-positive batchTimeout
// uses 5ms so a single alert is not held back by kafka-go's one second default.
func NewKafkaNotifier(brokers []string, topic string, batchTimeout time.Duration) (*KafkaNotifier, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("alert topic must not be empty")
	}
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if batchTimeout <= 0 {
		batchTimeout = 5 * time.Millisecond
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: batchTimeout,
	}
	return &KafkaNotifier{writer: w, topic: topic}, nil
}

func (n *KafkaNotifier) Notify(ctx context.Context, a Alert) error {
	value, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}
	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(a.NameOrig),
		Value: value,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("publish alert to %s: %w", n.topic, err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// LogNotifier writes alerts to the log. Used when ALERT_TOPIC=log.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(_ context.Context, a Alert) error {
	n.Log.Warn("fraud_alert",
		slog.String("transaction_id", a.TransactionID),
		slog.String("name_orig", a.NameOrig),
		slog.Float64("probability", a.Probability),
		slog.String("text", a.Text))
	return nil
}
