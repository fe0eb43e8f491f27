package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/ballot"
	"rollcall/internal/voterroll"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/testutil"
)

type stubService struct {
	vote *ballot.Vote
	err  error

	gotVoter     id.VoterID
	gotPosition  id.PositionID
	gotCandidate id.CandidateID
}

func (s *stubService) CastVote(_ context.Context, voterID id.VoterID, positionID id.PositionID, candidateID id.CandidateID) (*ballot.Vote, error) {
	s.gotVoter, s.gotPosition, s.gotCandidate = voterID, positionID, candidateID
	return s.vote, s.err
}

func newTestRouter(t *testing.T, service Service, roll RollResolver) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(service, roll, logger).Register(r)
	return r
}

func TestHandleCast(t *testing.T) {
	voter := &voterroll.Voter{ID: id.NewVoterID(), RegNo: "SCI/2023/010", Status: voterroll.StatusEligible}
	roll := voterroll.NewMemoryStore()
	require.NoError(t, roll.Create(context.Background(), voter))

	positionID := id.NewPositionID()
	candidateID := id.NewCandidateID()
	vote := &ballot.Vote{
		ID:          id.NewVoteID(),
		VoterID:     voter.ID,
		PositionID:  positionID,
		CandidateID: candidateID,
		CastAt:      time.Now(),
	}

	t.Run("resolves the voter by reg number", func(t *testing.T) {
		svc := &stubService{vote: vote}
		rr := testutil.DoRequest(newTestRouter(t, svc, roll), testutil.NewJSONRequest(t, http.MethodPost, "/votes", map[string]string{
			"regNo":       voter.RegNo,
			"positionId":  positionID.String(),
			"candidateId": candidateID.String(),
		}))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.Equal(t, voter.ID, svc.gotVoter)

		// The receipt must not echo the candidate back.
		body := rr.Body.String()
		assert.NotContains(t, body, candidateID.String())
	})

	t.Run("accepts an explicit voter ID", func(t *testing.T) {
		svc := &stubService{vote: vote}
		rr := testutil.DoRequest(newTestRouter(t, svc, roll), testutil.NewJSONRequest(t, http.MethodPost, "/votes", map[string]string{
			"voterId":     voter.ID.String(),
			"positionId":  positionID.String(),
			"candidateId": candidateID.String(),
		}))
		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, voter.ID, svc.gotVoter)
	})

	t.Run("requires a voter identifier", func(t *testing.T) {
		rr := testutil.DoRequest(newTestRouter(t, &stubService{vote: vote}, roll), testutil.NewJSONRequest(t, http.MethodPost, "/votes", map[string]string{
			"positionId":  positionID.String(),
			"candidateId": candidateID.String(),
		}))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown reg number is not found", func(t *testing.T) {
		rr := testutil.DoRequest(newTestRouter(t, &stubService{vote: vote}, roll), testutil.NewJSONRequest(t, http.MethodPost, "/votes", map[string]string{
			"regNo":       "GHOST/0000",
			"positionId":  positionID.String(),
			"candidateId": candidateID.String(),
		}))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("maps already_voted to 409", func(t *testing.T) {
		svc := &stubService{err: dErrors.New(dErrors.CodeAlreadyVoted, "a vote has already been cast for this position")}
		rr := testutil.DoRequest(newTestRouter(t, svc, roll), testutil.NewJSONRequest(t, http.MethodPost, "/votes", map[string]string{
			"voterId":     voter.ID.String(),
			"positionId":  positionID.String(),
			"candidateId": candidateID.String(),
		}))
		assert.Equal(t, http.StatusConflict, rr.Code)
		errBody := testutil.UnmarshalErrorResponse(t, rr)
		assert.Equal(t, "already_voted", errBody["error"])
	})
}
