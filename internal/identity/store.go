package identity

import (
	"context"

	id "rollcall/pkg/domain"
)

// Store is the persistence contract for user accounts.
//
// Error contract: Find* return sentinel.ErrNotFound for unknown users;
// Create returns sentinel.ErrConflict when the email is taken.
type Store interface {
	Create(ctx context.Context, user *User) error
	Find(ctx context.Context, userID id.UserID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
