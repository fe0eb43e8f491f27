package audit

import "context"

// Store is the append-only persistence contract for audit events. No update
// or delete operations exist on purpose.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
