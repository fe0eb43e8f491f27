package ballot

import (
	"time"

	id "rollcall/pkg/domain"
)

// Vote is one cast ballot. Votes are immutable once created; no update or
// delete path exists anywhere in the system.
type Vote struct {
	ID          id.VoteID      `json:"id"`
	VoterID     id.VoterID     `json:"voter_id"`
	PositionID  id.PositionID  `json:"position_id"`
	CandidateID id.CandidateID `json:"candidate_id"`
	CastAt      time.Time      `json:"cast_at"`
}

// TallyRow is one candidate's vote count for a position.
type TallyRow struct {
	CandidateID id.CandidateID `json:"candidate_id"`
	Votes       int            `json:"votes"`
}
