package payments

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "ronda/pkg/domain"
)

type flakyGateway struct {
	mu       sync.Mutex
	failures int
	charges  int
}

func (g *flakyGateway) Charge(_ context.Context, _ ChargeRequest) (ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failures > 0 {
		g.failures--
		return ChargeResult{}, errors.New("gateway timeout")
	}
	g.charges++
	return ChargeResult{TransactionID: "txn-reconciled"}, nil
}

type recordingConfirmer struct {
	mu        sync.Mutex
	confirmed []string
}

func (c *recordingConfirmer) ConfirmPayment(_ context.Context, _ id.CycleID, _ int, _ id.MembershipID, transactionID string, _ time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmed = append(c.confirmed, transactionID)
	return nil
}

func (c *recordingConfirmer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.confirmed)
}

func TestReconcilerConfirmsAfterRetries(t *testing.T) {
	gateway := &flakyGateway{failures: 2}
	confirmer := &recordingConfirmer{}
	r := NewReconciler(gateway, confirmer, nil, 8, WithMaxElapsed(2*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	r.Enqueue(ctx, ChargeRequest{
		CycleID:      id.NewCycleID(),
		Round:        1,
		MembershipID: id.NewMembershipID(),
		Amount:       1000,
	})

	require.Eventually(t, func() bool {
		return confirmer.count() == 1
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "txn-reconciled", confirmer.confirmed[0])
}

func TestReconcilerReportsExhaustedCharges(t *testing.T) {
	gateway := &flakyGateway{failures: 1 << 20}
	confirmer := &recordingConfirmer{}

	var mu sync.Mutex
	var failed []ChargeRequest
	onFailure := func(_ context.Context, req ChargeRequest, _ error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, req)
	}
	r := NewReconciler(gateway, confirmer, onFailure, 8, WithMaxElapsed(100*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	req := ChargeRequest{CycleID: id.NewCycleID(), Round: 2, MembershipID: id.NewMembershipID(), Amount: 500}
	r.Enqueue(ctx, req)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(failed) == 1
	}, 5*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, req, failed[0])
	assert.Zero(t, confirmer.count())
}

type conflictingConfirmer struct {
	mu        sync.Mutex
	conflicts int
	attempts  int
	confirmed int
}

func (c *conflictingConfirmer) ConfirmPayment(_ context.Context, _ id.CycleID, _ int, _ id.MembershipID, _ string, _ time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts++
	if c.conflicts > 0 {
		c.conflicts--
		return errors.New("version conflict")
	}
	c.confirmed++
	return nil
}

func (c *conflictingConfirmer) counts() (attempts, confirmed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts, c.confirmed
}

func TestReconcilerRetriesConfirmationConflicts(t *testing.T) {
	gateway := &flakyGateway{}
	confirmer := &conflictingConfirmer{conflicts: 2}

	var failures int32
	onFailure := func(context.Context, ChargeRequest, error) { atomic.AddInt32(&failures, 1) }
	r := NewReconciler(gateway, confirmer, onFailure, 8, WithMaxElapsed(10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	r.Enqueue(ctx, ChargeRequest{CycleID: id.NewCycleID(), Round: 1, MembershipID: id.NewMembershipID(), Amount: 1000})

	require.Eventually(t, func() bool {
		_, confirmed := confirmer.counts()
		return confirmed == 1
	}, 10*time.Second, 20*time.Millisecond)

	attempts, _ := confirmer.counts()
	assert.Equal(t, 3, attempts)
	assert.Zero(t, atomic.LoadInt32(&failures))
}

func TestReconcilerReportsStrandedConfirmations(t *testing.T) {
	gateway := &flakyGateway{}
	confirmer := &conflictingConfirmer{conflicts: 1 << 20}

	var mu sync.Mutex
	var failed []ChargeRequest
	onFailure := func(_ context.Context, req ChargeRequest, _ error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, req)
	}
	r := NewReconciler(gateway, confirmer, onFailure, 8, WithMaxElapsed(100*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	req := ChargeRequest{CycleID: id.NewCycleID(), Round: 3, MembershipID: id.NewMembershipID(), Amount: 250}
	r.Enqueue(ctx, req)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(failed) == 1
	}, 5*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, req, failed[0])
}

func TestStaticGatewayIdempotent(t *testing.T) {
	g := NewStaticGateway()
	req := ChargeRequest{CycleID: id.NewCycleID(), Round: 1, MembershipID: id.NewMembershipID(), Amount: 100}

	first, err := g.Charge(context.Background(), req)
	require.NoError(t, err)
	second, err := g.Charge(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.TransactionID, second.TransactionID)
}
