// Package report derives read-only views from recorded state: tallies,
// turnout, and the audit trail. It owns no state of its own.
package report

import (
	"context"

	"rollcall/internal/audit"
	"rollcall/internal/ballot"
	"rollcall/internal/voterroll"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
)

// Ballots is the slice of the ballot engine reports read from.
type Ballots interface {
	Tally(ctx context.Context, positionID id.PositionID) ([]ballot.TallyRow, error)
	CountVotes(ctx context.Context) (int, error)
}

// Roll exposes ledger counts for turnout.
type Roll interface {
	CountByStatus(ctx context.Context, status voterroll.Status) (int, error)
}

// Service aggregates reporting reads.
type Service struct {
	ballots    Ballots
	roll       Roll
	auditTrail audit.Store
}

// NewService wires the reporting views.
func NewService(ballots Ballots, roll Roll, auditTrail audit.Store) *Service {
	return &Service{ballots: ballots, roll: roll, auditTrail: auditTrail}
}

// Turnout summarizes participation.
type Turnout struct {
	VotesCast int `json:"votesCast"`
	Eligible  int `json:"eligible"`
	Voted     int `json:"voted"`
}

// Turnout returns overall participation counts.
func (s *Service) Turnout(ctx context.Context) (*Turnout, error) {
	votes, err := s.ballots.CountVotes(ctx)
	if err != nil {
		return nil, err
	}
	eligible, err := s.roll.CountByStatus(ctx, voterroll.StatusEligible)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to count eligible voters", err)
	}
	voted, err := s.roll.CountByStatus(ctx, voterroll.StatusVoted)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to count voted voters", err)
	}
	return &Turnout{VotesCast: votes, Eligible: eligible + voted, Voted: voted}, nil
}

// Tally returns per-candidate counts for one position, highest first.
func (s *Service) Tally(ctx context.Context, positionID id.PositionID) ([]ballot.TallyRow, error) {
	return s.ballots.Tally(ctx, positionID)
}

// AuditTrail returns recent audit entries, newest first.
func (s *Service) AuditTrail(ctx context.Context, limit int) ([]audit.Event, error) {
	events, err := s.auditTrail.ListRecent(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list audit entries", err)
	}
	return events, nil
}
