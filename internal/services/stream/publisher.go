package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fraudguard/internal/models"

	"github.com/segmentio/kafka-go"
)

var errPublisherNilWriter = errors.New("publisher requires a writer")

// DefaultBatchTimeout bounds how long a synchronous write waits for its
// batch to fill. kafka-go's own default is one second.
const DefaultBatchTimeout = 5 * time.Millisecond

// Publisher forwards approved transactions for scoring.
type Publisher interface {
	Publish(ctx context.Context, tx *models.Transaction) error
}

// PublisherConfig holds the Kafka topic settings for the transaction stream.
type PublisherConfig struct {
	Brokers      []string
	Topic        string
	Timeout      time.Duration
	BatchTimeout time.Duration
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per transaction, keyed by originator so
// every transaction of one originator lands on the same partition.
type KafkaPublisher struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
	log     *slog.Logger
}

func NewKafkaPublisher(cfg PublisherConfig, log *slog.Logger) (*KafkaPublisher, error) {
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, fmt.Errorf("transaction topic must not be empty")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = DefaultBatchTimeout
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.Timeout,
		BatchTimeout: cfg.BatchTimeout,
	}
	return newKafkaPublisherWithWriter(cfg, log, w)
}

func newKafkaPublisherWithWriter(cfg PublisherConfig, log *slog.Logger, w messageWriter) (*KafkaPublisher, error) {
	if w == nil {
		return nil, errPublisherNilWriter
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &KafkaPublisher{
		writer:  w,
		topic:   cfg.Topic,
		timeout: cfg.Timeout,
		log:     log.With(slog.String("component", "stream_publisher")),
	}, nil
}

// Publish returns nil only once the broker acknowledged the message.
func (p *KafkaPublisher) Publish(ctx context.Context, tx *models.Transaction) error {
	rec, err := EncodeRecord(tx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(rec.PartitionKey),
		Value: []byte(rec.Data),
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("publish_failed",
			slog.String("topic", p.topic),
			slog.String("name_orig", tx.NameOrig),
			slog.Any("err", err))
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	p.log.Debug("publish_ok", slog.String("topic", p.topic), slog.String("name_orig", tx.NameOrig))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
