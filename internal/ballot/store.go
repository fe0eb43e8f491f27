package ballot

import (
	"context"

	id "rollcall/pkg/domain"
)

// Store is the persistence contract for votes.
//
// Error contract: Create returns sentinel.ErrConflict when a vote already
// exists for the (voter, position) pair. That check happens at insert, not as
// a separate read, which is what closes the race between two concurrent cast
// attempts for the same voter.
type Store interface {
	Create(ctx context.Context, vote *Vote) error
	Tally(ctx context.Context, positionID id.PositionID) ([]TallyRow, error)
	Count(ctx context.Context) (int, error)
}
