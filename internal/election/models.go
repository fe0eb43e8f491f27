package election

import (
	"time"

	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
)

// Position is an election seat voters elect someone into. A nil Constituency
// means the position is open to all voters.
type Position struct {
	ID           id.PositionID `json:"id"`
	Name         string        `json:"name"`
	Constituency *string       `json:"constituency"`
	Seats        int           `json:"seats"`
	Nomination   id.Window     `json:"nomination"`
	Voting       id.Window     `json:"voting"`
	CreatedAt    time.Time     `json:"created_at"`
}

// OpenTo reports whether the position accepts participants from the given
// constituency. An unscoped position accepts everyone.
func (p *Position) OpenTo(constituency string) bool {
	return p.Constituency == nil || *p.Constituency == constituency
}

// Validate enforces the window-ordering rules applied at creation. Nomination
// and voting windows may overlap (elections commonly open both at once), but
// each window must be internally ordered and voting may not close before
// nominations have had a chance to open.
func (p *Position) Validate() error {
	if p.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "position name must not be empty")
	}
	if p.Seats < 1 {
		return dErrors.New(dErrors.CodeBadRequest, "position must have at least one seat")
	}
	if !p.Nomination.Ordered() {
		return dErrors.New(dErrors.CodeBadRequest, "nomination window closes before it opens")
	}
	if !p.Voting.Ordered() {
		return dErrors.New(dErrors.CodeBadRequest, "voting window closes before it opens")
	}
	if p.Voting.Closes.Before(p.Nomination.Opens) {
		return dErrors.New(dErrors.CodeBadRequest, "voting closes before nominations open")
	}
	return nil
}
