package nomination

import (
	"context"
	"time"

	id "rollcall/pkg/domain"
)

// Store is the persistence contract for candidates.
//
// Error contract:
// - Create returns sentinel.ErrConflict when the user already holds a
//   non-rejected candidacy for the position. The store enforces this at
//   insert, so two concurrent submissions cannot both land.
// - Find* return sentinel.ErrNotFound for unknown IDs.
// - Decide and UpdateProfile return sentinel.ErrInvalidState when the
//   candidate is no longer SUBMITTED; the check-and-set is atomic.
type Store interface {
	Create(ctx context.Context, candidate *Candidate) error
	Find(ctx context.Context, candidateID id.CandidateID) (*Candidate, error)
	FindActiveByUser(ctx context.Context, userID id.UserID) (*Candidate, error)
	List(ctx context.Context, status *Status) ([]*Candidate, error)
	ListApprovedByPosition(ctx context.Context, positionID id.PositionID) ([]*Candidate, error)
	Decide(ctx context.Context, candidateID id.CandidateID, to Status, reason *string, decidedAt time.Time) (*Candidate, error)
	UpdateProfile(ctx context.Context, candidateID id.CandidateID, patch ProfilePatch, updatedAt time.Time) (*Candidate, error)
}
