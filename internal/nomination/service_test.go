package nomination

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"rollcall/internal/audit"
	"rollcall/internal/election"
	"rollcall/internal/identity"
	"rollcall/internal/nomination/metrics"
	"rollcall/internal/voterroll"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/requestcontext"
)

type NominationServiceSuite struct {
	suite.Suite
	service   *Service
	store     *MemoryStore
	positions *election.MemoryStore
	users     *identity.MemoryStore
	roll      *voterroll.MemoryStore
	publisher *audit.Publisher

	now      time.Time
	ctx      context.Context
	position *election.Position
	user     *identity.User
}

func TestNominationServiceSuite(t *testing.T) {
	suite.Run(t, new(NominationServiceSuite))
}

func (s *NominationServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = NewMemoryStore()
	s.positions = election.NewMemoryStore()
	s.users = identity.NewMemoryStore()
	s.roll = voterroll.NewMemoryStore()
	s.publisher = audit.NewPublisher(64, logger)
	s.service = NewService(s.store, s.positions, s.users, s.roll, s.publisher, metrics.NewWith(prometheus.NewRegistry()))

	s.now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	s.position = &election.Position{
		ID:    id.NewPositionID(),
		Name:  "President",
		Seats: 1,
		Nomination: id.Window{
			Opens:  s.now.Add(-24 * time.Hour),
			Closes: s.now.Add(24 * time.Hour),
		},
		Voting: id.Window{
			Opens:  s.now.Add(48 * time.Hour),
			Closes: s.now.Add(72 * time.Hour),
		},
		CreatedAt: s.now.Add(-48 * time.Hour),
	}
	s.Require().NoError(s.positions.Create(s.ctx, s.position))

	s.user = &identity.User{
		ID:        id.NewUserID(),
		Email:     "jane@campus.edu",
		Name:      "Jane Doe",
		RegNo:     "ENG/2022/001",
		Role:      id.RoleCandidate,
		CreatedAt: s.now.Add(-time.Hour),
	}
	s.Require().NoError(s.users.Create(s.ctx, s.user))
}

func (s *NominationServiceSuite) submitInput() SubmitInput {
	return SubmitInput{
		PositionID:   s.position.ID,
		Slogan:       "Forward together",
		ManifestoRef: "manifesto/jane.pdf",
	}
}

func (s *NominationServiceSuite) TestSubmit() {
	s.Run("creates a SUBMITTED candidacy inside the window", func() {
		candidate, err := s.service.Submit(s.ctx, s.user.ID, s.submitInput())
		s.Require().NoError(err)
		s.Equal(StatusSubmitted, candidate.Status)
		s.Equal(s.user.ID, candidate.UserID)
		s.Equal(s.now, candidate.CreatedAt)
	})

	s.Run("rejects a second live candidacy for the same position", func() {
		_, err := s.service.Submit(s.ctx, s.user.ID, s.submitInput())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateNomination))
	})

	s.Run("allows resubmission after rejection", func() {
		mine, err := s.service.FindMine(s.ctx, s.user.ID)
		s.Require().NoError(err)
		officer := Actor{ID: id.NewUserID(), Role: id.RoleOfficer}
		_, err = s.service.Reject(s.ctx, officer, mine.ID, "incomplete manifesto")
		s.Require().NoError(err)

		candidate, err := s.service.Submit(s.ctx, s.user.ID, s.submitInput())
		s.Require().NoError(err)
		s.Equal(StatusSubmitted, candidate.Status)
	})
}

func (s *NominationServiceSuite) TestSubmitValidation() {
	s.Run("requires a slogan", func() {
		input := s.submitInput()
		input.Slogan = "   "
		_, err := s.service.Submit(s.ctx, s.user.ID, input)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("requires a manifesto", func() {
		input := s.submitInput()
		input.ManifestoRef = ""
		_, err := s.service.Submit(s.ctx, s.user.ID, input)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("rejects unknown positions", func() {
		input := s.submitInput()
		input.PositionID = id.NewPositionID()
		_, err := s.service.Submit(s.ctx, s.user.ID, input)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *NominationServiceSuite) TestSubmitWindow() {
	s.Run("rejects before the window opens", func() {
		early := requestcontext.WithTime(context.Background(), s.position.Nomination.Opens.Add(-time.Minute))
		_, err := s.service.Submit(early, s.user.ID, s.submitInput())
		s.True(dErrors.HasCode(err, dErrors.CodeWindowClosed))
	})

	s.Run("rejects after the window closes", func() {
		late := requestcontext.WithTime(context.Background(), s.position.Nomination.Closes.Add(time.Minute))
		_, err := s.service.Submit(late, s.user.ID, s.submitInput())
		s.True(dErrors.HasCode(err, dErrors.CodeWindowClosed))
	})

	s.Run("accepts exactly at the boundary", func() {
		boundary := requestcontext.WithTime(context.Background(), s.position.Nomination.Closes)
		candidate, err := s.service.Submit(boundary, s.user.ID, s.submitInput())
		s.Require().NoError(err)
		s.Equal(StatusSubmitted, candidate.Status)
	})
}

func (s *NominationServiceSuite) TestSubmitConstituency() {
	constituency := "Engineering"
	scoped := &election.Position{
		ID:           id.NewPositionID(),
		Name:         "Engineering Rep",
		Constituency: &constituency,
		Seats:        1,
		Nomination:   s.position.Nomination,
		Voting:       s.position.Voting,
		CreatedAt:    s.now.Add(-48 * time.Hour),
	}
	s.Require().NoError(s.positions.Create(s.ctx, scoped))

	input := s.submitInput()
	input.PositionID = scoped.ID

	s.Run("rejects users absent from the roll", func() {
		_, err := s.service.Submit(s.ctx, s.user.ID, input)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("rejects a mismatched constituency", func() {
		s.Require().NoError(s.roll.Create(s.ctx, &voterroll.Voter{
			ID:           id.NewVoterID(),
			RegNo:        s.user.RegNo,
			Name:         s.user.Name,
			Constituency: "Law",
			Status:       voterroll.StatusEligible,
		}))
		_, err := s.service.Submit(s.ctx, s.user.ID, input)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("accepts a matching constituency case-insensitively", func() {
		other := &identity.User{
			ID:    id.NewUserID(),
			Email: "bayo@campus.edu",
			Name:  "Bayo A",
			RegNo: "ENG/2022/002",
			Role:  id.RoleCandidate,
		}
		s.Require().NoError(s.users.Create(s.ctx, other))
		s.Require().NoError(s.roll.Create(s.ctx, &voterroll.Voter{
			ID:           id.NewVoterID(),
			RegNo:        other.RegNo,
			Name:         other.Name,
			Constituency: "engineering",
			Status:       voterroll.StatusEligible,
		}))
		candidate, err := s.service.Submit(s.ctx, other.ID, input)
		s.Require().NoError(err)
		s.Equal(scoped.ID, candidate.PositionID)
	})
}

func (s *NominationServiceSuite) TestDecisions() {
	officer := Actor{ID: id.NewUserID(), Role: id.RoleOfficer}

	s.Run("approve transitions SUBMITTED to APPROVED", func() {
		candidate, err := s.service.Submit(s.ctx, s.user.ID, s.submitInput())
		s.Require().NoError(err)

		decided, err := s.service.Approve(s.ctx, officer, candidate.ID)
		s.Require().NoError(err)
		s.Equal(StatusApproved, decided.Status)
	})

	s.Run("a second decision on the same candidate fails", func() {
		mine, err := s.service.FindMine(s.ctx, s.user.ID)
		s.Require().NoError(err)

		_, err = s.service.Reject(s.ctx, officer, mine.ID, "changed our minds")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))

		unchanged, err := s.service.Find(s.ctx, mine.ID)
		s.Require().NoError(err)
		s.Equal(StatusApproved, unchanged.Status)
	})

	s.Run("reject requires a reason", func() {
		_, err := s.service.Reject(s.ctx, officer, id.NewCandidateID(), "  ")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("candidates cannot decide", func() {
		actor := Actor{ID: s.user.ID, Role: id.RoleCandidate}
		_, err := s.service.Approve(s.ctx, actor, id.NewCandidateID())
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("deciding an unknown candidate returns not found", func() {
		_, err := s.service.Approve(s.ctx, officer, id.NewCandidateID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *NominationServiceSuite) TestRejectionStoresReason() {
	officer := Actor{ID: id.NewUserID(), Role: id.RoleAdmin}
	candidate, err := s.service.Submit(s.ctx, s.user.ID, s.submitInput())
	s.Require().NoError(err)

	rejected, err := s.service.Reject(s.ctx, officer, candidate.ID, "manifesto missing pages")
	s.Require().NoError(err)
	s.Equal(StatusRejected, rejected.Status)
	s.Require().NotNil(rejected.RejectionReason)
	s.Equal("manifesto missing pages", *rejected.RejectionReason)
}

func (s *NominationServiceSuite) TestUpdateProfile() {
	candidate, err := s.service.Submit(s.ctx, s.user.ID, s.submitInput())
	s.Require().NoError(err)
	newSlogan := "A better tomorrow"

	s.Run("owner can edit while SUBMITTED", func() {
		updated, err := s.service.UpdateProfile(s.ctx, s.user.ID, candidate.ID, ProfilePatch{Slogan: &newSlogan})
		s.Require().NoError(err)
		s.Equal(newSlogan, updated.Slogan)
		s.Equal(candidate.ManifestoRef, updated.ManifestoRef)
	})

	s.Run("non-owner cannot edit", func() {
		_, err := s.service.UpdateProfile(s.ctx, id.NewUserID(), candidate.ID, ProfilePatch{Slogan: &newSlogan})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("empty patch is rejected", func() {
		_, err := s.service.UpdateProfile(s.ctx, s.user.ID, candidate.ID, ProfilePatch{})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("edits are locked once decided", func() {
		officer := Actor{ID: id.NewUserID(), Role: id.RoleOfficer}
		_, err := s.service.Approve(s.ctx, officer, candidate.ID)
		s.Require().NoError(err)

		_, err = s.service.UpdateProfile(s.ctx, s.user.ID, candidate.ID, ProfilePatch{Slogan: &newSlogan})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})
}

func (s *NominationServiceSuite) TestListStatusFilter() {
	officer := Actor{ID: id.NewUserID(), Role: id.RoleOfficer}
	candidate, err := s.service.Submit(s.ctx, s.user.ID, s.submitInput())
	s.Require().NoError(err)
	_, err = s.service.Approve(s.ctx, officer, candidate.ID)
	s.Require().NoError(err)

	approved := StatusApproved
	list, err := s.service.List(s.ctx, &approved)
	s.Require().NoError(err)
	s.Len(list, 1)

	submitted := StatusSubmitted
	list, err = s.service.List(s.ctx, &submitted)
	s.Require().NoError(err)
	s.Empty(list)
}

func TestParseStatus(t *testing.T) {
	t.Run("accepts PENDING as an alias for SUBMITTED", func(t *testing.T) {
		status, ok := ParseStatus("PENDING")
		if !ok || status != StatusSubmitted {
			t.Fatalf("ParseStatus(PENDING) = %q, %v", status, ok)
		}
	})
	t.Run("rejects unknown values", func(t *testing.T) {
		if _, ok := ParseStatus("WITHDRAWN"); ok {
			t.Fatal("expected WITHDRAWN to be rejected")
		}
	})
}
