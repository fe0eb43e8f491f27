package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmitFillsDefaults(t *testing.T) {
	publisher := NewPublisher(4, discardLogger())
	publisher.Emit(context.Background(), Event{
		ActorType: ActorUser,
		Action:    ActionLogin,
		Entity:    "account",
	})

	event := <-publisher.Inbox()
	assert.NotZero(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEmitScrubsBallotPayload(t *testing.T) {
	publisher := NewPublisher(4, discardLogger())

	// Even a misbehaving caller that includes the choice must not leak it.
	publisher.Emit(context.Background(), Event{
		ActorType: ActorVoter,
		Action:    ActionCastVote,
		Entity:    "vote",
		Payload: map[string]any{
			"position_id":  "pos-1",
			"candidate_id": "cand-1",
			"candidateId":  "cand-1",
			"candidate":    "cand-1",
			"choice":       "cand-1",
		},
		Timestamp: time.Now(),
	})

	event := <-publisher.Inbox()
	require.Contains(t, event.Payload, "position_id")
	assert.NotContains(t, event.Payload, "candidate_id")
	assert.NotContains(t, event.Payload, "candidateId")
	assert.NotContains(t, event.Payload, "candidate")
	assert.NotContains(t, event.Payload, "choice")
}

func TestEmitNeverBlocks(t *testing.T) {
	publisher := NewPublisher(1, discardLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			publisher.Emit(context.Background(), Event{Action: ActionLogin, Entity: "account"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a full buffer")
	}
}

func TestWorkerPersistsAndForwards(t *testing.T) {
	store := NewMemoryStore()
	sink := &captureSink{}
	publisher := NewPublisher(8, discardLogger())
	worker := NewWorker(store, sink, publisher.Inbox(), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		_ = worker.Run(ctx)
	}()

	publisher.Emit(ctx, Event{Action: ActionRegister, Entity: "account"})

	require.Eventually(t, func() bool {
		events, err := store.ListRecent(context.Background(), 10)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-workerDone

	assert.Len(t, sink.events, 1)
	assert.Equal(t, ActionRegister, sink.events[0].Action)
}

type captureSink struct {
	events []Event
}

func (c *captureSink) Publish(_ context.Context, event Event) error {
	c.events = append(c.events, event)
	return nil
}
