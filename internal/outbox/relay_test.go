package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type fakeProducer struct {
	records  []*kgo.Record
	failures int
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	if f.failures > 0 {
		f.failures--
		return kgo.ProduceResults{{Err: errors.New("broker unavailable")}}
	}
	f.records = append(f.records, rs...)
	results := make(kgo.ProduceResults, len(rs))
	for i, r := range rs {
		results[i] = kgo.ProduceResult{Record: r}
	}
	return results
}

func TestRelaySweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	producer := &fakeProducer{}
	relay := NewRelay(store, producer, "ronda.lifecycle", time.Second)

	require.NoError(t, store.Insert(ctx, Entry{
		AggregateType: "group",
		AggregateID:   "group-1",
		EventType:     "cycle_started",
		Payload:       []byte(`{"round":1}`),
	}))
	require.NoError(t, store.Insert(ctx, Entry{
		AggregateType: "group",
		AggregateID:   "group-1",
		EventType:     "round_advanced",
		Payload:       []byte(`{"round":2}`),
	}))

	require.NoError(t, relay.sweep(ctx))

	require.Len(t, producer.records, 2)
	assert.Equal(t, "ronda.lifecycle", producer.records[0].Topic)
	assert.Equal(t, []byte("group-1"), producer.records[0].Key)

	pending, err := store.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRelayRetriesThenDelivers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	producer := &fakeProducer{failures: 2}
	relay := NewRelay(store, producer, "ronda.lifecycle", time.Second)

	require.NoError(t, store.Insert(ctx, Entry{
		AggregateType: "group",
		AggregateID:   "group-2",
		EventType:     "cycle_completed",
		Payload:       []byte(`{}`),
	}))

	require.NoError(t, relay.sweep(ctx))
	require.Len(t, producer.records, 1)

	n, err := store.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRelayKeepsEntryPendingOnFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	store := NewMemoryStore()
	producer := &fakeProducer{failures: 1 << 20}
	relay := NewRelay(store, producer, "ronda.lifecycle", time.Second)

	require.NoError(t, store.Insert(context.Background(), Entry{
		AggregateType: "group",
		AggregateID:   "group-3",
		EventType:     "cycle_started",
		Payload:       []byte(`{}`),
	}))

	err := relay.sweep(ctx)
	require.Error(t, err)

	n, err := store.CountPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n, "undelivered entry must stay pending")
}
