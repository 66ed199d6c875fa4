package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "ronda/pkg/domain"
)

type recordingSink struct {
	mu       sync.Mutex
	sent     []Notification
	failures int
}

func (s *recordingSink) Send(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("carrier timeout")
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *recordingSink) delivered() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification(nil), s.sent...)
}

func TestDispatcherDelivers(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	n := Notification{MemberID: id.NewMemberID(), Kind: KindPaymentDue, Message: "round 2 due"}
	d.Enqueue(ctx, n)

	require.Eventually(t, func() bool {
		return len(sink.delivered()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, n, sink.delivered()[0])
}

func TestDispatcherRetriesTransientFailures(t *testing.T) {
	sink := &recordingSink{failures: 2}
	d := NewDispatcher(sink, 8, WithMaxElapsed(2*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	d.Enqueue(ctx, Notification{MemberID: id.NewMemberID(), Kind: KindCycleStarted})

	require.Eventually(t, func() bool {
		return len(sink.delivered()) == 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, 1)

	ctx := context.Background()
	// No worker running: the second enqueue finds the buffer full and the
	// call still returns immediately.
	d.Enqueue(ctx, Notification{Kind: KindRiskWarning})
	d.Enqueue(ctx, Notification{Kind: KindRiskWarning})
	assert.Len(t, d.queue, 1)
}
