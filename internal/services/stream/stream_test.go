package stream

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fraudguard/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleTx() *models.Transaction {
	return &models.Transaction{
		Type:           models.TransactionTypeCashOut,
		NameOrig:       "C1",
		NameDest:       "M1",
		Amount:         decimal.RequireFromString("181.5"),
		OldBalanceOrg:  decimal.NewFromInt(181),
		NewBalanceOrig: decimal.Zero,
		OldBalanceDest: decimal.Zero,
		NewBalanceDest: decimal.Zero,
		Step:           1,
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	rec, err := EncodeRecord(sampleTx())
	require.NoError(t, err)
	assert.Equal(t, "C1", rec.PartitionKey)

	got, err := rec.Decode()
	require.NoError(t, err)
	assert.Equal(t, "C1", got.NameOrig)
	assert.Equal(t, models.TransactionTypeCashOut, got.Type)
	assert.True(t, decimal.RequireFromString("181.5").Equal(got.Amount))
	assert.Equal(t, 1, got.Step)
}

func TestRecord_DecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not base64", "%%%"},
		{"not json", base64.StdEncoding.EncodeToString([]byte("hello"))},
		{"missing fields", base64.StdEncoding.EncodeToString([]byte(`{"type":"PAYMENT"}`))},
		{"amount out of range", base64.StdEncoding.EncodeToString([]byte(`{"type":"PAYMENT","nameOrig":"C1","nameDest":"M1","amount":1e50000000,"oldbalanceOrg":1,"newbalanceOrig":1,"oldbalanceDest":1,"newbalanceDest":1}`))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Record{SequenceNumber: "0-7", Data: tt.data}.Decode()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "0-7")
		})
	}
}

func TestFromMessage(t *testing.T) {
	rec := FromMessage(kafka.Message{Key: []byte("C1"), Value: []byte("abc"), Partition: 2, Offset: 41})
	assert.Equal(t, Record{PartitionKey: "C1", SequenceNumber: "2-41", Data: "abc"}, rec)
}

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p, err := newKafkaPublisherWithWriter(PublisherConfig{Topic: "fraud-transactions"}, discardLogger(), w)
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), sampleTx()))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "C1", string(w.msgs[0].Key))
	got, err := FromMessage(w.msgs[0]).Decode()
	require.NoError(t, err)
	assert.Equal(t, "M1", got.NameDest)
}

func TestKafkaPublisher_PublishFailure(t *testing.T) {
	cause := errors.New("leader not available")
	p, err := newKafkaPublisherWithWriter(PublisherConfig{Topic: "t"}, discardLogger(), &fakeWriter{err: cause})
	require.NoError(t, err)

	err = p.Publish(context.Background(), sampleTx())
	assert.ErrorIs(t, err, cause)
}

func TestNewKafkaPublisher_Validation(t *testing.T) {
	_, err := NewKafkaPublisher(PublisherConfig{Brokers: []string{"b:9092"}}, discardLogger())
	assert.Error(t, err)
	_, err = NewKafkaPublisher(PublisherConfig{Topic: "t"}, discardLogger())
	assert.Error(t, err)
	_, err = newKafkaPublisherWithWriter(PublisherConfig{Topic: "t"}, discardLogger(), nil)
	assert.ErrorIs(t, err, errPublisherNilWriter)
}

func TestNewKafkaPublisher_FlushesSingleMessagesQuickly(t *testing.T) {
	p, err := NewKafkaPublisher(PublisherConfig{Brokers: []string{"b:9092"}, Topic: "t"}, discardLogger())
	require.NoError(t, err)
	w := p.writer.(*kafka.Writer)
	assert.Equal(t, DefaultBatchTimeout, w.BatchTimeout)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	assert.False(t, w.Async)
	require.NoError(t, p.Close())

	p, err = NewKafkaPublisher(PublisherConfig{Brokers: []string{"b:9092"}, Topic: "t", BatchTimeout: 50 * time.Millisecond}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, p.writer.(*kafka.Writer).BatchTimeout)
	require.NoError(t, p.Close())
}

type fakeReader struct {
	msgs chan kafka.Message

	mu        sync.Mutex
	committed []kafka.Message
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{msgs: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		r.msgs <- m
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func TestBatchConsumer_BatchesAndCommitsAfterHandler(t *testing.T) {
	var msgs []kafka.Message
	for i := 0; i < 5; i++ {
		msgs = append(msgs, kafka.Message{Key: []byte("C1"), Offset: int64(i)})
	}
	reader := newFakeReader(msgs...)

	type seen struct {
		size            int
		committedBefore int
	}
	batches := make(chan seen, 10)
	handler := func(_ context.Context, records []Record) {
		batches <- seen{size: len(records), committedBefore: reader.committedCount()}
	}

	c, err := newBatchConsumerWithReader(ConsumerConfig{BatchSize: 2, BatchWait: 20 * time.Millisecond}, reader, handler, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	var got []seen
	for len(got) < 3 {
		select {
		case b := <-batches:
			got = append(got, b)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for batches")
		}
	}
	assert.Eventually(t, func() bool { return reader.committedCount() == 5 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []seen{{2, 0}, {2, 2}, {1, 4}}, got)
	assert.True(t, reader.closed)
}

func TestBatchConsumer_ShutdownLeavesBatchUncommitted(t *testing.T) {
	reader := newFakeReader()
	called := false
	c, err := newBatchConsumerWithReader(ConsumerConfig{}, reader, func(context.Context, []Record) { called = true }, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, c.Run(ctx))
	assert.False(t, called)
	assert.Zero(t, reader.committedCount())
}
