package audit

import (
	"context"
	"log/slog"
	"time"

	id "ronda/pkg/domain"
)

// Store is the append-only persistence behind the publisher.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByMember(ctx context.Context, memberID id.MemberID) ([]Event, error)
	ListByGroup(ctx context.Context, groupID id.GroupID) ([]Event, error)
}

// Publisher routes events by category: compliance events are persisted
// synchronously and fail the calling operation on error; security and
// operations events go through the async inbox and are dropped with a
// logged warning when the buffer is full.
type Publisher struct {
	store  Store
	inbox  chan<- Event
	logger *slog.Logger
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets the publisher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// NewPublisher wires a store for synchronous compliance writes and an inbox
// channel drained by a Worker for everything else.
func NewPublisher(store Store, inbox chan<- Event, opts ...Option) *Publisher {
	p := &Publisher{store: store, inbox: inbox, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit records an event. The category is always derived from the action so
// callers cannot downgrade a compliance event by mislabeling it.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Category = Action(event.Action).Category()

	if event.Category == CategoryCompliance {
		return p.store.Append(ctx, event)
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", event.Action,
			"category", event.Category,
		)
	}
	return nil
}

// List returns the trail for one member.
func (p *Publisher) List(ctx context.Context, memberID id.MemberID) ([]Event, error) {
	return p.store.ListByMember(ctx, memberID)
}

// ListGroup returns the trail for one group.
func (p *Publisher) ListGroup(ctx context.Context, groupID id.GroupID) ([]Event, error) {
	return p.store.ListByGroup(ctx, groupID)
}
