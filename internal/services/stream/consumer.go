package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// BatchHandler processes one batch. It must not fail the batch as a whole;
// the consumer commits once it returns.
type BatchHandler func(ctx context.Context, records []Record)

// ConsumerConfig holds the consumer-group settings for the cold path.
type ConsumerConfig struct {
	Brokers   []string
	Topic     string
	GroupID   string
	BatchSize int
	BatchWait time.Duration
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// BatchConsumer groups stream messages into batches and commits offsets only
// after the handler has seen the whole batch, so delivery is at-least-once.
type BatchConsumer struct {
	reader    messageReader
	handler   BatchHandler
	batchSize int
	batchWait time.Duration
	log       *slog.Logger
}

func NewBatchConsumer(cfg ConsumerConfig, handler BatchHandler, log *slog.Logger) (*BatchConsumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	if cfg.Topic == "" || cfg.GroupID == "" {
		return nil, fmt.Errorf("topic and consumer group are required")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		GroupTopics: []string{cfg.Topic},
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return newBatchConsumerWithReader(cfg, reader, handler, log)
}

func newBatchConsumerWithReader(cfg ConsumerConfig, r messageReader, handler BatchHandler, log *slog.Logger) (*BatchConsumer, error) {
	if handler == nil {
		return nil, errors.New("batch handler must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchWait <= 0 {
		cfg.BatchWait = time.Second
	}
	return &BatchConsumer{
		reader:    r,
		handler:   handler,
		batchSize: cfg.BatchSize,
		batchWait: cfg.BatchWait,
		log:       log.With(slog.String("component", "batch_consumer")),
	}, nil
}

// Run consumes until ctx is cancelled. A batch cut short by shutdown is left
// uncommitted and will be redelivered.
func (c *BatchConsumer) Run(ctx context.Context) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.log.Error("reader_close", slog.Any("err", err))
		}
	}()
	c.log.Info("consumer_start", slog.Int("batch_size", c.batchSize), slog.Duration("batch_wait", c.batchWait))

	backoff := time.Second
	for {
		msgs, err := c.nextBatch(ctx)
		if ctx.Err() != nil {
			c.log.Info("consumer_stop", slog.String("reason", "shutdown"), slog.Int("uncommitted", len(msgs)))
			return nil
		}
		if err != nil {
			c.log.Error("fetch_err", slog.Any("err", err))
			select {
			case <-time.After(backoff):
				if backoff < 10*time.Second {
					backoff *= 2
				}
			case <-ctx.Done():
				c.log.Info("consumer_stop", slog.String("reason", "shutdown"))
				return nil
			}
		}
		if len(msgs) == 0 {
			continue
		}
		backoff = time.Second

		records := make([]Record, len(msgs))
		for i, m := range msgs {
			records[i] = FromMessage(m)
		}
		c.handler(ctx, records)

		if err := c.reader.CommitMessages(ctx, msgs...); err != nil {
			c.log.Error("commit_err", slog.Int("batch", len(msgs)), slog.Any("err", err))
			continue
		}
		c.log.Debug("batch_committed", slog.Int("batch", len(msgs)))
	}
}

// nextBatch blocks for the first message, then gathers more until the batch
// is full or batchWait has passed since the first one arrived.
func (c *BatchConsumer) nextBatch(ctx context.Context) ([]kafka.Message, error) {
	first, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}
	batch := []kafka.Message{first}

	waitCtx, cancel := context.WithTimeout(ctx, c.batchWait)
	defer cancel()
	for len(batch) < c.batchSize {
		msg, err := c.reader.FetchMessage(waitCtx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return batch, nil
			}
			// deliver what we have; the error surfaces on the next fetch
			c.log.Warn("fetch_partial_batch", slog.Int("batch", len(batch)), slog.Any("err", err))
			return batch, nil
		}
		batch = append(batch, msg)
	}
	return batch, nil
}
