package ballot

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"rollcall/internal/audit"
	"rollcall/internal/ballot/metrics"
	"rollcall/internal/election"
	"rollcall/internal/nomination"
	"rollcall/internal/voterroll"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/requestcontext"
)

type BallotServiceSuite struct {
	suite.Suite
	service    *Service
	votes      *MemoryStore
	roll       *voterroll.MemoryStore
	positions  *election.MemoryStore
	candidates *nomination.MemoryStore
	publisher  *audit.Publisher

	now       time.Time
	ctx       context.Context
	position  *election.Position
	candidate *nomination.Candidate
	voter     *voterroll.Voter
}

func TestBallotServiceSuite(t *testing.T) {
	suite.Run(t, new(BallotServiceSuite))
}

func (s *BallotServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.votes = NewMemoryStore()
	s.roll = voterroll.NewMemoryStore()
	s.positions = election.NewMemoryStore()
	s.candidates = nomination.NewMemoryStore()
	s.publisher = audit.NewPublisher(64, logger)
	s.service = NewService(s.votes, s.roll, s.positions, s.candidates, s.publisher, metrics.NewWith(prometheus.NewRegistry()), logger)

	s.now = time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	s.position = &election.Position{
		ID:    id.NewPositionID(),
		Name:  "President",
		Seats: 1,
		Nomination: id.Window{
			Opens:  s.now.Add(-96 * time.Hour),
			Closes: s.now.Add(-48 * time.Hour),
		},
		Voting: id.Window{
			Opens:  s.now.Add(-time.Hour),
			Closes: s.now.Add(time.Hour),
		},
	}
	s.Require().NoError(s.positions.Create(s.ctx, s.position))

	s.candidate = &nomination.Candidate{
		ID:           id.NewCandidateID(),
		UserID:       id.NewUserID(),
		PositionID:   s.position.ID,
		Slogan:       "Forward",
		ManifestoRef: "manifesto.pdf",
		Status:       nomination.StatusApproved,
		CreatedAt:    s.now.Add(-72 * time.Hour),
	}
	s.Require().NoError(s.candidates.Create(s.ctx, s.candidate))

	s.voter = &voterroll.Voter{
		ID:           id.NewVoterID(),
		RegNo:        "SCI/2023/010",
		Name:         "Ada O",
		Constituency: "Science",
		Status:       voterroll.StatusEligible,
	}
	s.Require().NoError(s.roll.Create(s.ctx, s.voter))
}

func (s *BallotServiceSuite) TestCastVote() {
	s.Run("records a vote and flips the ledger status", func() {
		vote, err := s.service.CastVote(s.ctx, s.voter.ID, s.position.ID, s.candidate.ID)
		s.Require().NoError(err)
		s.Equal(s.now, vote.CastAt)

		entry, err := s.roll.Find(s.ctx, s.voter.ID)
		s.Require().NoError(err)
		s.Equal(voterroll.StatusVoted, entry.Status)
	})

	s.Run("a second vote for the same position is rejected", func() {
		_, err := s.service.CastVote(s.ctx, s.voter.ID, s.position.ID, s.candidate.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyVoted))
	})

	s.Run("VOTED status does not block a different position", func() {
		other := &election.Position{
			ID:     id.NewPositionID(),
			Name:   "Secretary",
			Seats:  1,
			Voting: s.position.Voting,
		}
		s.Require().NoError(s.positions.Create(s.ctx, other))
		otherCandidate := &nomination.Candidate{
			ID:           id.NewCandidateID(),
			UserID:       id.NewUserID(),
			PositionID:   other.ID,
			Slogan:       "Count on me",
			ManifestoRef: "m.pdf",
			Status:       nomination.StatusApproved,
		}
		s.Require().NoError(s.candidates.Create(s.ctx, otherCandidate))

		_, err := s.service.CastVote(s.ctx, s.voter.ID, other.ID, otherCandidate.ID)
		s.Require().NoError(err)
	})
}

func (s *BallotServiceSuite) TestCastVotePreconditions() {
	s.Run("unknown voter", func() {
		_, err := s.service.CastVote(s.ctx, id.NewVoterID(), s.position.ID, s.candidate.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("ineligible voter", func() {
		barred := &voterroll.Voter{
			ID:           id.NewVoterID(),
			RegNo:        "SCI/2023/099",
			Name:         "Barred",
			Constituency: "Science",
			Status:       voterroll.StatusIneligible,
		}
		s.Require().NoError(s.roll.Create(s.ctx, barred))
		_, err := s.service.CastVote(s.ctx, barred.ID, s.position.ID, s.candidate.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeVoterIneligible))
	})

	s.Run("voting window closed", func() {
		late := requestcontext.WithTime(context.Background(), s.position.Voting.Closes.Add(time.Second))
		_, err := s.service.CastVote(late, s.voter.ID, s.position.ID, s.candidate.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeVotingClosed))
	})

	s.Run("constituency-scoped position rejects outsiders", func() {
		constituency := "Law"
		scoped := &election.Position{
			ID:           id.NewPositionID(),
			Name:         "Law Rep",
			Constituency: &constituency,
			Seats:        1,
			Voting:       s.position.Voting,
		}
		s.Require().NoError(s.positions.Create(s.ctx, scoped))
		_, err := s.service.CastVote(s.ctx, s.voter.ID, scoped.ID, s.candidate.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unapproved candidate", func() {
		pending := &nomination.Candidate{
			ID:           id.NewCandidateID(),
			UserID:       id.NewUserID(),
			PositionID:   s.position.ID,
			Slogan:       "Soon",
			ManifestoRef: "m.pdf",
			Status:       nomination.StatusSubmitted,
		}
		s.Require().NoError(s.candidates.Create(s.ctx, pending))
		_, err := s.service.CastVote(s.ctx, s.voter.ID, s.position.ID, pending.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeCandidateNotApproved))
	})

	s.Run("candidate standing for a different position", func() {
		other := &election.Position{
			ID:     id.NewPositionID(),
			Name:   "Treasurer",
			Seats:  1,
			Voting: s.position.Voting,
		}
		s.Require().NoError(s.positions.Create(s.ctx, other))
		_, err := s.service.CastVote(s.ctx, s.voter.ID, other.ID, s.candidate.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

// TestConcurrentCast races two casts for the same (voter, position) pair.
// Exactly one must win; the loser must see already_voted.
func (s *BallotServiceSuite) TestConcurrentCast() {
	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = s.service.CastVote(s.ctx, s.voter.ID, s.position.ID, s.candidate.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.True(dErrors.HasCode(err, dErrors.CodeAlreadyVoted))
		}
	}
	s.Equal(1, succeeded)

	rows, err := s.votes.Tally(s.ctx, s.position.ID)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(1, rows[0].Votes)
}

// TestAuditNeverRecordsChoice drains the audit inbox after a cast and checks
// the event carries the position but not the candidate.
func (s *BallotServiceSuite) TestAuditNeverRecordsChoice() {
	_, err := s.service.CastVote(s.ctx, s.voter.ID, s.position.ID, s.candidate.ID)
	s.Require().NoError(err)

	select {
	case event := <-s.publisher.Inbox():
		s.Equal(audit.ActionCastVote, event.Action)
		s.Equal(s.position.ID.String(), event.Payload["position_id"])
		for key := range event.Payload {
			s.NotContains(key, "candidate")
			s.NotContains(key, "choice")
		}
	default:
		s.Fail("expected a CAST_VOTE audit event")
	}
}

func (s *BallotServiceSuite) TestTally() {
	second := &nomination.Candidate{
		ID:           id.NewCandidateID(),
		UserID:       id.NewUserID(),
		PositionID:   s.position.ID,
		Slogan:       "Alternative",
		ManifestoRef: "m2.pdf",
		Status:       nomination.StatusApproved,
	}
	s.Require().NoError(s.candidates.Create(s.ctx, second))

	for i, choice := range []id.CandidateID{s.candidate.ID, s.candidate.ID, second.ID} {
		voter := &voterroll.Voter{
			ID:           id.NewVoterID(),
			RegNo:        "SCI/2023/10" + string(rune('1'+i)),
			Name:         "Voter",
			Constituency: "Science",
			Status:       voterroll.StatusEligible,
		}
		s.Require().NoError(s.roll.Create(s.ctx, voter))
		_, err := s.service.CastVote(s.ctx, voter.ID, s.position.ID, choice)
		s.Require().NoError(err)
	}

	rows, err := s.service.Tally(s.ctx, s.position.ID)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal(s.candidate.ID, rows[0].CandidateID)
	s.Equal(2, rows[0].Votes)
	s.Equal(1, rows[1].Votes)

	s.Run("tally for an unknown position fails", func() {
		_, err := s.service.Tally(s.ctx, id.NewPositionID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
