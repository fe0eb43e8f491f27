package voterroll

import id "rollcall/pkg/domain"

// Status tracks a ledger entry's voting state. VOTED is bookkeeping; the
// binding one-vote invariant lives on the vote table's (voter, position)
// uniqueness, so VOTED does not block voting for a different position.
type Status string

const (
	StatusEligible   Status = "ELIGIBLE"
	StatusVoted      Status = "VOTED"
	StatusIneligible Status = "INELIGIBLE"
)

// Voter is one row of the eligible-voter ledger. Entries are created by bulk
// import or seed and never deleted during an active election.
type Voter struct {
	ID           id.VoterID `json:"id"`
	RegNo        string     `json:"reg_no"`
	Name         string     `json:"name"`
	Constituency string     `json:"constituency"`
	Email        string     `json:"email"`
	Status       Status     `json:"status"`
}

// MayVote reports whether the ledger entry permits casting any ballot.
func (v *Voter) MayVote() bool {
	return v.Status != StatusIneligible
}
