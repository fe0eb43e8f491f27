package identity

import (
	"time"

	id "rollcall/pkg/domain"
)

// User is an authenticated account: administrators, returning officers, and
// candidates. Eligible voters live in the voter roll, not here; a voter only
// gets a User when they also hold one of these roles.
type User struct {
	ID           id.UserID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	RegNo        string    `json:"reg_no,omitempty"`
	Program      string    `json:"program,omitempty"`
	PasswordHash string    `json:"-"`
	Role         id.Role   `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
