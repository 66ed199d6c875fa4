package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ronda/internal/audit"
	"ronda/internal/audit/store/memory"
	id "ronda/pkg/domain"
)

type failingStore struct{ memory.InMemoryStore }

func (f *failingStore) Append(context.Context, audit.Event) error {
	return errors.New("disk full")
}

func TestPublisherRoutesComplianceSynchronously(t *testing.T) {
	ctx := context.Background()
	store := memory.NewInMemoryStore()
	inbox := make(chan audit.Event, 4)
	publisher := audit.NewPublisher(store, inbox)

	member := id.NewMemberID()
	err := publisher.Emit(ctx, audit.Event{
		MemberID:        member,
		Action:          string(audit.ActionJoinBlocked),
		Decision:        "blocked",
		Reason:          "coordinator account frozen",
		Acknowledgments: []string{"ack:general"},
	})
	require.NoError(t, err)

	// Persisted without a worker running: the write was synchronous.
	events, err := publisher.List(ctx, member)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Empty(t, inbox)
}

func TestPublisherComplianceFailsClosed(t *testing.T) {
	inbox := make(chan audit.Event, 4)
	publisher := audit.NewPublisher(&failingStore{}, inbox)

	err := publisher.Emit(context.Background(), audit.Event{
		MemberID: id.NewMemberID(),
		Action:   string(audit.ActionMemberSanctioned),
	})
	require.Error(t, err)
}

func TestPublisherBuffersOperationsEvents(t *testing.T) {
	ctx := context.Background()
	store := memory.NewInMemoryStore()
	inbox := make(chan audit.Event, 1)
	publisher := audit.NewPublisher(store, inbox)

	grp := id.NewGroupID()
	require.NoError(t, publisher.Emit(ctx, audit.Event{
		GroupID: grp,
		Action:  string(audit.ActionCycleStarted),
	}))

	// Not persisted until a worker drains the inbox.
	events, err := publisher.ListGroup(ctx, grp)
	require.NoError(t, err)
	assert.Empty(t, events)

	buffered := <-inbox
	assert.Equal(t, audit.CategoryOperations, buffered.Category)
}

func TestPublisherDropsWhenInboxFull(t *testing.T) {
	ctx := context.Background()
	store := memory.NewInMemoryStore()
	inbox := make(chan audit.Event, 1)
	publisher := audit.NewPublisher(store, inbox)

	grp := id.NewGroupID()
	require.NoError(t, publisher.Emit(ctx, audit.Event{GroupID: grp, Action: string(audit.ActionRoundAdvanced)}))
	// Full buffer: the event is dropped, never an error.
	require.NoError(t, publisher.Emit(ctx, audit.Event{GroupID: grp, Action: string(audit.ActionRoundAdvanced)}))
	assert.Len(t, inbox, 1)
}

func TestWorkerDrainsInbox(t *testing.T) {
	store := memory.NewInMemoryStore()
	inbox := make(chan audit.Event, 4)
	worker := audit.NewWorker(store, inbox, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	grp := id.NewGroupID()
	inbox <- audit.Event{GroupID: grp, Action: string(audit.ActionCycleStarted), Category: audit.CategoryOperations}

	require.Eventually(t, func() bool {
		events, err := store.ListByGroup(context.Background(), grp)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
