package audit

import (
	"context"
	"log/slog"
)

// Sink receives a copy of every persisted event (e.g. a Kafka topic). Sink
// failures are logged, never propagated.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Worker drains the publisher's channel and persists events. It runs as a
// background goroutine managed by main's errgroup.
type Worker struct {
	store  Store
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

// NewWorker wires a worker to a store, an optional sink, and the inbox.
func NewWorker(store Store, sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, sink: sink, inbox: inbox, logger: logger}
}

// Run consumes until ctx is cancelled. Append failures are logged and the
// event is dropped; the worker keeps running so a store hiccup does not stall
// the whole trail.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit append failed",
					"action", string(event.Action),
					"error", err,
				)
				continue
			}
			if w.sink != nil {
				if err := w.sink.Publish(ctx, event); err != nil {
					w.logger.WarnContext(ctx, "audit sink publish failed",
						"action", string(event.Action),
						"error", err,
					)
				}
			}
		}
	}
}
