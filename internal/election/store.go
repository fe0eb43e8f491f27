package election

import (
	"context"

	id "rollcall/pkg/domain"
)

// Store is the persistence contract for positions.
//
// Error contract: Find returns sentinel.ErrNotFound (wrapped) for unknown
// IDs; infrastructure failures come back wrapped with context.
type Store interface {
	Create(ctx context.Context, position *Position) error
	Find(ctx context.Context, positionID id.PositionID) (*Position, error)
	List(ctx context.Context) ([]*Position, error)
}
