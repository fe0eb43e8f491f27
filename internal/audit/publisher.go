package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var droppedEvents = promauto.NewCounter(prometheus.CounterOpts{
	Name: "rollcall_audit_events_dropped_total",
	Help: "Audit events dropped because the buffer was full",
})

// Publisher accepts audit events from services and hands them to the worker
// through a buffered channel. Emit never blocks and never returns an error:
// an audit outage must not take down nomination or voting, so overflow is
// counted, logged, and dropped.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewPublisher builds a publisher with the given buffer size.
func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Publisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Inbox exposes the event channel for the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Emit queues an audit event. Missing ID/timestamp are filled in here so
// call sites stay one line. CAST_VOTE payloads are scrubbed of any candidate
// reference before they leave the process: ballot secrecy is enforced at the
// emission point, not by caller discipline.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Action == ActionCastVote {
		event.Payload = scrubBallotPayload(event.Payload)
	}

	select {
	case p.inbox <- event:
	default:
		droppedEvents.Inc()
		p.logger.ErrorContext(ctx, "audit buffer full, event dropped",
			"action", string(event.Action),
			"entity", event.Entity,
		)
	}
}

// scrubBallotPayload removes keys that could reveal a voter's choice.
func scrubBallotPayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	clean := make(map[string]any, len(payload))
	for k, v := range payload {
		switch k {
		case "candidate_id", "candidateId", "candidate", "choice":
			continue
		}
		clean[k] = v
	}
	return clean
}
