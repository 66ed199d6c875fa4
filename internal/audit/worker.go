package audit

import (
	"context"
	"log/slog"
)

// Worker drains the async inbox and persists events. Persistence failures
// for security and operations events are logged, not escalated; the inbox
// keeps draining.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "persist audit event",
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}
