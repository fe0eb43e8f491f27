package ballot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rollcall/internal/audit"
	"rollcall/internal/ballot/metrics"
	"rollcall/internal/election"
	"rollcall/internal/nomination"
	"rollcall/internal/voterroll"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

// PositionDirectory is the slice of the position registry this engine needs.
type PositionDirectory interface {
	Find(ctx context.Context, positionID id.PositionID) (*election.Position, error)
}

// CandidateDirectory resolves candidates for the approval gate.
type CandidateDirectory interface {
	Find(ctx context.Context, candidateID id.CandidateID) (*nomination.Candidate, error)
}

// Roll is the slice of the voter ledger this engine needs.
type Roll interface {
	Find(ctx context.Context, voterID id.VoterID) (*voterroll.Voter, error)
	MarkVoted(ctx context.Context, voterID id.VoterID) error
}

// Service is the ballot casting engine. One operation, atomic per
// (voter, position) pair: the vote insert carries the uniqueness invariant,
// so two concurrent casts for the same voter and position produce exactly
// one vote and one already-voted failure.
type Service struct {
	votes      Store
	roll       Roll
	positions  PositionDirectory
	candidates CandidateDirectory
	audit      *audit.Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewService wires the ballot engine.
func NewService(votes Store, roll Roll, positions PositionDirectory, candidates CandidateDirectory, publisher *audit.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		votes:      votes,
		roll:       roll,
		positions:  positions,
		candidates: candidates,
		audit:      publisher,
		metrics:    m,
		logger:     logger,
	}
}

// CastVote records one ballot. Preconditions are checked in order and the
// first failure wins:
//
//	(a) the voter exists and is not INELIGIBLE
//	(b) the position exists, is open to the voter's constituency, and the
//	    voting window contains now
//	(c) the candidate exists, stands for this position, and is APPROVED
//	(d) no vote exists yet for (voter, position) - enforced at insert
//
// A VOTED ledger status alone does not block a ballot for a different
// position; the per-pair uniqueness in (d) is the binding invariant.
func (s *Service) CastVote(ctx context.Context, voterID id.VoterID, positionID id.PositionID, candidateID id.CandidateID) (*Vote, error) {
	start := time.Now()
	defer func() {
		s.metrics.CastTime.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	voter, err := s.roll.Find(ctx, voterID)
	if err != nil {
		s.metrics.Rejections.WithLabelValues("voter_not_found").Inc()
		return nil, dErrors.Wrap(dErrors.CodeNotFound, "voter not found on the roll", err)
	}
	if !voter.MayVote() {
		s.metrics.Rejections.WithLabelValues("ineligible").Inc()
		return nil, dErrors.New(dErrors.CodeVoterIneligible, "voter is not eligible to vote")
	}

	position, err := s.positions.Find(ctx, positionID)
	if err != nil {
		s.metrics.Rejections.WithLabelValues("position_not_found").Inc()
		return nil, dErrors.Wrap(dErrors.CodeNotFound, "position not found", err)
	}
	if !position.OpenTo(voter.Constituency) {
		s.metrics.Rejections.WithLabelValues("constituency").Inc()
		return nil, dErrors.New(dErrors.CodeForbidden, "position is not open to this voter's constituency")
	}
	now := requestcontext.Now(ctx)
	if !position.Voting.Contains(now) {
		s.metrics.Rejections.WithLabelValues("window_closed").Inc()
		return nil, dErrors.New(dErrors.CodeVotingClosed, "voting is closed for this position")
	}

	candidate, err := s.candidates.Find(ctx, candidateID)
	if err != nil {
		s.metrics.Rejections.WithLabelValues("candidate_not_found").Inc()
		return nil, dErrors.Wrap(dErrors.CodeNotFound, "candidate not found", err)
	}
	if candidate.PositionID != positionID {
		s.metrics.Rejections.WithLabelValues("wrong_position").Inc()
		return nil, dErrors.New(dErrors.CodeBadRequest, "candidate is not standing for this position")
	}
	if candidate.Status != nomination.StatusApproved {
		s.metrics.Rejections.WithLabelValues("not_approved").Inc()
		return nil, dErrors.New(dErrors.CodeCandidateNotApproved, "candidate has not been approved")
	}

	vote := &Vote{
		ID:          id.NewVoteID(),
		VoterID:     voterID,
		PositionID:  positionID,
		CandidateID: candidateID,
		CastAt:      now,
	}
	if err := s.votes.Create(ctx, vote); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.Rejections.WithLabelValues("already_voted").Inc()
			return nil, dErrors.New(dErrors.CodeAlreadyVoted, "a vote has already been cast for this position")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to record vote", err)
	}

	// Ledger bookkeeping. The vote is already durable; a failed status flip
	// must not unwind it.
	if err := s.roll.MarkVoted(ctx, voterID); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark voter as voted",
			"voter_id", voterID.String(),
			"error", err,
		)
	}

	s.metrics.VotesCast.Inc()
	// Ballot secrecy: the audit payload records that this voter voted for
	// this position, never the candidate chosen. The publisher scrubs
	// CAST_VOTE payloads as well; this call site simply never includes it.
	s.audit.Emit(ctx, audit.Event{
		ActorType: audit.ActorVoter,
		ActorID:   voterID.String(),
		Action:    audit.ActionCastVote,
		Entity:    "vote",
		EntityID:  vote.ID.String(),
		Payload:   map[string]any{"position_id": positionID.String()},
		Timestamp: now,
	})
	return vote, nil
}

// Tally returns vote counts per candidate for a position, highest first.
func (s *Service) Tally(ctx context.Context, positionID id.PositionID) ([]TallyRow, error) {
	if _, err := s.positions.Find(ctx, positionID); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeNotFound, "position not found", err)
	}
	rows, err := s.votes.Tally(ctx, positionID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to tally votes", err)
	}
	return rows, nil
}

// CountVotes returns the total number of recorded votes.
func (s *Service) CountVotes(ctx context.Context) (int, error) {
	count, err := s.votes.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInternal, "failed to count votes", err)
	}
	return count, nil
}
