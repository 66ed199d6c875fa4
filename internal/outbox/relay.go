package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Store is the persistence the relay drains.
type Store interface {
	ListPending(ctx context.Context, limit int) ([]Entry, error)
	MarkPublished(ctx context.Context, entryID uuid.UUID, publishedAt time.Time) error
	CountPending(ctx context.Context) (int, error)
}

// Producer is the Kafka slice the relay needs; *kgo.Client satisfies it.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

const batchSize = 100

// Relay polls the outbox and publishes pending entries to Kafka. Publish
// failures back off exponentially; entries stay pending until delivery
// succeeds, so duplicates are possible and consumers dedupe on entry ID.
type Relay struct {
	store    Store
	producer Producer
	topic    string
	poll     time.Duration
	pending  prometheus.Gauge
	logger   *slog.Logger
}

// Option configures the Relay.
type Option func(*Relay)

// WithLogger sets the relay logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.logger = logger }
}

// WithPendingGauge publishes the pending-entry count after each sweep.
func WithPendingGauge(g prometheus.Gauge) Option {
	return func(r *Relay) { r.pending = g }
}

func NewRelay(store Store, producer Producer, topic string, poll time.Duration, opts ...Option) *Relay {
	r := &Relay{
		store:    store,
		producer: producer,
		topic:    topic,
		poll:     poll,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run polls until the context is canceled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.sweep(ctx); err != nil {
				r.logger.ErrorContext(ctx, "outbox sweep failed", "error", err)
			}
		}
	}
}

func (r *Relay) sweep(ctx context.Context) error {
	entries, err := r.store.ListPending(ctx, batchSize)
	if err != nil {
		return fmt.Errorf("list pending: %w", err)
	}
	for _, entry := range entries {
		if err := r.publish(ctx, entry); err != nil {
			return fmt.Errorf("publish entry %s: %w", entry.ID, err)
		}
		if err := r.store.MarkPublished(ctx, entry.ID, time.Now()); err != nil {
			return fmt.Errorf("mark published %s: %w", entry.ID, err)
		}
	}
	if r.pending != nil {
		if n, err := r.store.CountPending(ctx); err == nil {
			r.pending.Set(float64(n))
		}
	}
	return nil
}

func (r *Relay) publish(ctx context.Context, entry Entry) error {
	record := &kgo.Record{
		Topic: r.topic,
		// Key by aggregate so one group's events stay ordered in a partition.
		Key:   []byte(entry.AggregateID),
		Value: entry.Payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(entry.EventType)},
			{Key: "entry_id", Value: []byte(entry.ID.String())},
		},
	}

	policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	return backoff.Retry(func() error {
		return r.producer.ProduceSync(ctx, record).FirstErr()
	}, policy)
}
