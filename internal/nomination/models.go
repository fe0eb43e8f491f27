package nomination

import (
	"time"

	id "rollcall/pkg/domain"
)

// Status is the candidate lifecycle state. SUBMITTED is the only initial
// state; APPROVED and REJECTED are terminal.
type Status string

const (
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
)

// ParseStatus validates a status string from transport. "PENDING" survives as
// a compatibility alias for SUBMITTED: older clients still send it in list
// filters. The alias never reaches storage.
func ParseStatus(raw string) (Status, bool) {
	switch raw {
	case "PENDING":
		return StatusSubmitted, true
	case string(StatusSubmitted), string(StatusApproved), string(StatusRejected):
		return Status(raw), true
	}
	return "", false
}

// Decided reports whether the status is terminal.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}

// Candidate is one user's nomination for one position. Content fields
// (slogan, manifesto, photo) belong to the owning user; status belongs to
// the returning officers. Candidates are never deleted, only transitioned.
type Candidate struct {
	ID              id.CandidateID `json:"id"`
	UserID          id.UserID      `json:"user_id"`
	PositionID      id.PositionID  `json:"position_id"`
	Slogan          string         `json:"slogan"`
	ManifestoRef    string         `json:"manifesto_ref"`
	PhotoRef        *string        `json:"photo_ref,omitempty"`
	Status          Status         `json:"status"`
	RejectionReason *string        `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// ProfilePatch carries the owner-editable fields of a candidacy. Nil means
// leave unchanged. Status is deliberately absent.
type ProfilePatch struct {
	Slogan       *string
	ManifestoRef *string
	PhotoRef     *string
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Slogan == nil && p.ManifestoRef == nil && p.PhotoRef == nil
}
