// Package notify delivers best-effort member notifications. Delivery never
// blocks or fails a lifecycle operation: the audit trail is the durable
// record, notifications are advisory.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	id "ronda/pkg/domain"
)

// Kind labels what a notification is about.
type Kind string

const (
	KindJoinApproved   Kind = "join_approved"
	KindRiskWarning    Kind = "risk_warning"
	KindCycleStarted   Kind = "cycle_started"
	KindPaymentDue     Kind = "payment_due"
	KindPayoutReceived Kind = "payout_received"
	KindRoundAdvanced  Kind = "round_advanced"
	KindCycleCompleted Kind = "cycle_completed"
	KindMemberDeparted Kind = "member_departed"
	KindGroupPaused    Kind = "group_paused"
)

// Notification is one message to one member.
type Notification struct {
	MemberID id.MemberID
	GroupID  id.GroupID
	Kind     Kind
	Message  string
}

// Sink is the delivery channel (SMS, push, in-app). Implementations must be
// safe for concurrent use.
type Sink interface {
	Send(ctx context.Context, n Notification) error
}

// Dispatcher fans notifications out to a sink asynchronously. Transient
// sink failures are retried with exponential backoff; when retries are
// exhausted the notification is dropped with a logged warning.
type Dispatcher struct {
	sink       Sink
	queue      chan Notification
	maxElapsed time.Duration
	logger     *slog.Logger
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithMaxElapsed bounds the total retry window per notification.
func WithMaxElapsed(max time.Duration) Option {
	return func(d *Dispatcher) { d.maxElapsed = max }
}

func NewDispatcher(sink Sink, buffer int, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sink:       sink,
		queue:      make(chan Notification, buffer),
		maxElapsed: 30 * time.Second,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Enqueue hands a notification to the dispatcher. When the buffer is full
// the notification is dropped immediately rather than blocking the caller.
func (d *Dispatcher) Enqueue(ctx context.Context, n Notification) {
	select {
	case d.queue <- n:
	default:
		d.logger.WarnContext(ctx, "notification queue full, dropping",
			"kind", n.Kind,
			"member_id", n.MemberID,
		)
	}
}

// Run delivers queued notifications until the context is canceled.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-d.queue:
			d.deliver(ctx, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n Notification) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = d.maxElapsed

	err := backoff.Retry(func() error {
		return d.sink.Send(ctx, n)
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		d.logger.WarnContext(ctx, "notification dropped after retries",
			"kind", n.Kind,
			"member_id", n.MemberID,
			"error", err,
		)
	}
}

// LogSink writes notifications to the process log. It is the development
// and test delivery channel; production deployments plug in SMS or push.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink builds a sink over the given logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(ctx context.Context, n Notification) error {
	s.logger.InfoContext(ctx, "notification",
		"kind", n.Kind,
		"member_id", n.MemberID,
		"group_id", n.GroupID,
		"message", n.Message,
	)
	return nil
}
