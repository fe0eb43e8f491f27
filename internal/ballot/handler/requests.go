package handler

import "time"

type castRequest struct {
	VoterID     string `json:"voterId"`
	RegNo       string `json:"regNo"`
	PositionID  string `json:"positionId"`
	CandidateID string `json:"candidateId"`
}

// castResponse deliberately omits the candidate: the receipt confirms that a
// ballot was recorded, not what it said.
type castResponse struct {
	ID         string    `json:"id"`
	PositionID string    `json:"positionId"`
	CastAt     time.Time `json:"castAt"`
}
