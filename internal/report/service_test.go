package report

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/audit"
	"rollcall/internal/ballot"
	ballotmetrics "rollcall/internal/ballot/metrics"
	"rollcall/internal/election"
	"rollcall/internal/nomination"
	"rollcall/internal/voterroll"
	id "rollcall/pkg/domain"
	"rollcall/pkg/requestcontext"
)

func TestTurnoutAndAuditTrail(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	roll := voterroll.NewMemoryStore()
	positions := election.NewMemoryStore()
	candidates := nomination.NewMemoryStore()
	votes := ballot.NewMemoryStore()
	auditStore := audit.NewMemoryStore()
	publisher := audit.NewPublisher(64, logger)

	position := &election.Position{
		ID:     id.NewPositionID(),
		Name:   "President",
		Seats:  1,
		Voting: id.Window{Opens: now.Add(-time.Hour), Closes: now.Add(time.Hour)},
	}
	require.NoError(t, positions.Create(ctx, position))

	candidate := &nomination.Candidate{
		ID:           id.NewCandidateID(),
		UserID:       id.NewUserID(),
		PositionID:   position.ID,
		Slogan:       "Forward",
		ManifestoRef: "m.pdf",
		Status:       nomination.StatusApproved,
	}
	require.NoError(t, candidates.Create(ctx, candidate))

	ballots := ballot.NewService(votes, roll, positions, candidates, publisher, ballotmetrics.NewWith(prometheus.NewRegistry()), logger)
	service := NewService(ballots, roll, auditStore)

	// Three on the roll, one barred, one of the eligible pair votes.
	voters := []*voterroll.Voter{
		{ID: id.NewVoterID(), RegNo: "A/1", Name: "A", Constituency: "Science", Status: voterroll.StatusEligible},
		{ID: id.NewVoterID(), RegNo: "A/2", Name: "B", Constituency: "Science", Status: voterroll.StatusEligible},
		{ID: id.NewVoterID(), RegNo: "A/3", Name: "C", Constituency: "Science", Status: voterroll.StatusIneligible},
	}
	for _, v := range voters {
		require.NoError(t, roll.Create(ctx, v))
	}
	_, err := ballots.CastVote(ctx, voters[0].ID, position.ID, candidate.ID)
	require.NoError(t, err)

	turnout, err := service.Turnout(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, turnout.VotesCast)
	assert.Equal(t, 2, turnout.Eligible, "ineligible voters do not count toward the denominator")
	assert.Equal(t, 1, turnout.Voted)

	require.NoError(t, auditStore.Append(ctx, audit.Event{Action: audit.ActionCastVote, Entity: "vote", Timestamp: now}))
	events, err := service.AuditTrail(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	rows, err := service.Tally(ctx, position.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Votes)
}
