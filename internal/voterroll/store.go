package voterroll

import (
	"context"

	id "rollcall/pkg/domain"
)

// Store is the persistence contract for the eligible-voter ledger.
//
// Error contract: Create returns sentinel.ErrConflict for a duplicate
// registration number; Find* return sentinel.ErrNotFound.
type Store interface {
	Create(ctx context.Context, voter *Voter) error
	Find(ctx context.Context, voterID id.VoterID) (*Voter, error)
	FindByRegNo(ctx context.Context, regNo string) (*Voter, error)
	List(ctx context.Context, offset, limit int) ([]*Voter, int, error)
	MarkVoted(ctx context.Context, voterID id.VoterID) error
	CountByStatus(ctx context.Context, status Status) (int, error)
}
