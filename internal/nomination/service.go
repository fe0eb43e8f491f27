package nomination

import (
	"context"
	"errors"
	"strings"

	"rollcall/internal/audit"
	"rollcall/internal/election"
	"rollcall/internal/identity"
	"rollcall/internal/nomination/metrics"
	"rollcall/internal/voterroll"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

// PositionDirectory is the slice of the position registry this service needs.
type PositionDirectory interface {
	Find(ctx context.Context, positionID id.PositionID) (*election.Position, error)
}

// UserDirectory resolves account records for constituency checks.
type UserDirectory interface {
	Find(ctx context.Context, userID id.UserID) (*identity.User, error)
}

// RollDirectory resolves voter-roll entries by registration number.
type RollDirectory interface {
	FindByRegNo(ctx context.Context, regNo string) (*voterroll.Voter, error)
}

// Actor identifies who is performing an operation. The role always arrives
// as an explicit argument; the service never reads ambient session state.
type Actor struct {
	ID   id.UserID
	Role id.Role
}

// Service is the candidate nomination state machine:
//
//	SUBMITTED -> APPROVED | REJECTED (terminal)
//
// All mutations are single atomic store operations, so the invariants hold
// under concurrent callers.
type Service struct {
	store     Store
	positions PositionDirectory
	users     UserDirectory
	roll      RollDirectory
	audit     *audit.Publisher
	metrics   *metrics.Metrics
}

// NewService wires the nomination state machine.
func NewService(store Store, positions PositionDirectory, users UserDirectory, roll RollDirectory, publisher *audit.Publisher, m *metrics.Metrics) *Service {
	return &Service{
		store:     store,
		positions: positions,
		users:     users,
		roll:      roll,
		audit:     publisher,
		metrics:   m,
	}
}

// SubmitInput carries a nomination submission.
type SubmitInput struct {
	PositionID   id.PositionID
	Slogan       string
	ManifestoRef string
	PhotoRef     *string
}

// Submit creates a SUBMITTED candidacy. Preconditions, first failure wins:
// required fields present; position exists; now inside the nomination
// window; position's constituency (if any) matches the submitter's
// voter-roll entry; no live candidacy for this user and position.
func (s *Service) Submit(ctx context.Context, user id.UserID, input SubmitInput) (*Candidate, error) {
	if strings.TrimSpace(input.Slogan) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "slogan must not be empty")
	}
	if strings.TrimSpace(input.ManifestoRef) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "manifesto is required")
	}

	position, err := s.positions.Find(ctx, input.PositionID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeNotFound, "position not found", err)
	}

	now := requestcontext.Now(ctx)
	if !position.Nomination.Contains(now) {
		s.metrics.Rejected.WithLabelValues("window_closed").Inc()
		return nil, dErrors.New(dErrors.CodeWindowClosed, "nomination window is closed for this position")
	}

	if position.Constituency != nil {
		if err := s.checkConstituency(ctx, user, *position.Constituency); err != nil {
			s.metrics.Rejected.WithLabelValues("constituency").Inc()
			return nil, err
		}
	}

	candidate := &Candidate{
		ID:           id.NewCandidateID(),
		UserID:       user,
		PositionID:   input.PositionID,
		Slogan:       strings.TrimSpace(input.Slogan),
		ManifestoRef: input.ManifestoRef,
		PhotoRef:     input.PhotoRef,
		Status:       StatusSubmitted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, candidate); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.Rejected.WithLabelValues("duplicate").Inc()
			return nil, dErrors.New(dErrors.CodeDuplicateNomination, "you already have a nomination for this position")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to create nomination", err)
	}

	s.metrics.Submitted.Inc()
	s.audit.Emit(ctx, audit.Event{
		ActorType: audit.ActorUser,
		ActorID:   user.String(),
		Action:    audit.ActionSubmitNomination,
		Entity:    "candidate",
		EntityID:  candidate.ID.String(),
		Payload:   map[string]any{"position_id": input.PositionID.String()},
		Timestamp: now,
	})
	return candidate, nil
}

// checkConstituency requires the submitting user's voter-roll entry to match
// the position's constituency. Users absent from the roll cannot stand for
// scoped positions.
func (s *Service) checkConstituency(ctx context.Context, userID id.UserID, constituency string) error {
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeForbidden, "account not found for constituency check", err)
	}
	if user.RegNo == "" {
		return dErrors.New(dErrors.CodeForbidden, "no registration number on record for this position's constituency")
	}
	entry, err := s.roll.FindByRegNo(ctx, user.RegNo)
	if err != nil {
		return dErrors.New(dErrors.CodeForbidden, "not on the voter roll for this position's constituency")
	}
	if !strings.EqualFold(entry.Constituency, constituency) {
		return dErrors.New(dErrors.CodeForbidden, "this position is restricted to the "+constituency+" constituency")
	}
	return nil
}

// Approve transitions a SUBMITTED candidate to APPROVED.
func (s *Service) Approve(ctx context.Context, actor Actor, candidateID id.CandidateID) (*Candidate, error) {
	return s.decide(ctx, actor, candidateID, StatusApproved, nil)
}

// Reject transitions a SUBMITTED candidate to REJECTED with a reason.
func (s *Service) Reject(ctx context.Context, actor Actor, candidateID id.CandidateID, reason string) (*Candidate, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "rejection reason must not be empty")
	}
	reason = strings.TrimSpace(reason)
	return s.decide(ctx, actor, candidateID, StatusRejected, &reason)
}

func (s *Service) decide(ctx context.Context, actor Actor, candidateID id.CandidateID, to Status, reason *string) (*Candidate, error) {
	if !actor.Role.CanDecideNominations() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only admins and officers may decide nominations")
	}

	candidate, err := s.store.Decide(ctx, candidateID, to, reason, requestcontext.Now(ctx))
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "candidate not found")
		case errors.Is(err, sentinel.ErrInvalidState):
			return nil, dErrors.New(dErrors.CodeInvalidState, "candidate has already been decided")
		default:
			return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to decide nomination", err)
		}
	}

	action := audit.ActionApproveNomination
	if to == StatusRejected {
		action = audit.ActionRejectNomination
	}
	s.metrics.Decisions.WithLabelValues(strings.ToLower(string(to))).Inc()
	s.audit.Emit(ctx, audit.Event{
		ActorType: audit.ActorUser,
		ActorID:   actor.ID.String(),
		Action:    action,
		Entity:    "candidate",
		EntityID:  candidateID.String(),
		Timestamp: requestcontext.Now(ctx),
	})
	return candidate, nil
}

// UpdateProfile applies owner edits to slogan/manifesto/photo. Edits are
// only permitted while the candidacy is still SUBMITTED; the legacy system
// allowed editing decided candidacies, which let an approved candidate swap
// their manifesto after review.
func (s *Service) UpdateProfile(ctx context.Context, user id.UserID, candidateID id.CandidateID, patch ProfilePatch) (*Candidate, error) {
	if patch.Empty() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "no changes supplied")
	}
	if patch.Slogan != nil && strings.TrimSpace(*patch.Slogan) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "slogan must not be empty")
	}

	existing, err := s.store.Find(ctx, candidateID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeNotFound, "candidate not found", err)
	}
	if existing.UserID != user {
		return nil, dErrors.New(dErrors.CodeForbidden, "you do not own this candidacy")
	}

	candidate, err := s.store.UpdateProfile(ctx, candidateID, patch, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return nil, dErrors.New(dErrors.CodeInvalidState, "candidacy can no longer be edited once decided")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to update candidate", err)
	}

	s.audit.Emit(ctx, audit.Event{
		ActorType: audit.ActorUser,
		ActorID:   user.String(),
		Action:    audit.ActionUpdateCandidate,
		Entity:    "candidate",
		EntityID:  candidateID.String(),
		Timestamp: requestcontext.Now(ctx),
	})
	return candidate, nil
}

// Find returns one candidate.
func (s *Service) Find(ctx context.Context, candidateID id.CandidateID) (*Candidate, error) {
	candidate, err := s.store.Find(ctx, candidateID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeNotFound, "candidate not found", err)
	}
	return candidate, nil
}

// FindMine returns the caller's most recent non-rejected candidacy.
func (s *Service) FindMine(ctx context.Context, user id.UserID) (*Candidate, error) {
	candidate, err := s.store.FindActiveByUser(ctx, user)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeNotFound, "no active candidacy", err)
	}
	return candidate, nil
}

// List returns candidates, optionally filtered by status.
func (s *Service) List(ctx context.Context, status *Status) ([]*Candidate, error) {
	candidates, err := s.store.List(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list candidates", err)
	}
	return candidates, nil
}
