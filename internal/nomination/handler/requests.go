package handler

import (
	"time"

	"rollcall/internal/nomination"
)

type submitRequest struct {
	PositionID   string  `json:"positionId"`
	Slogan       string  `json:"slogan"`
	ManifestoRef string  `json:"manifesto"`
	PhotoRef     *string `json:"photo"`
}

type updateRequest struct {
	Slogan       *string `json:"slogan"`
	ManifestoRef *string `json:"manifesto"`
	PhotoRef     *string `json:"photo"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type candidateResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	PositionID      string    `json:"positionId"`
	Slogan          string    `json:"slogan"`
	ManifestoRef    string    `json:"manifesto"`
	PhotoRef        *string   `json:"photo,omitempty"`
	Status          string    `json:"status"`
	RejectionReason *string   `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type candidateListResponse struct {
	Candidates []candidateResponse `json:"candidates"`
}

func fromCandidate(c *nomination.Candidate) candidateResponse {
	return candidateResponse{
		ID:              c.ID.String(),
		UserID:          c.UserID.String(),
		PositionID:      c.PositionID.String(),
		Slogan:          c.Slogan,
		ManifestoRef:    c.ManifestoRef,
		PhotoRef:        c.PhotoRef,
		Status:          string(c.Status),
		RejectionReason: c.RejectionReason,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func fromCandidates(candidates []*nomination.Candidate) []candidateResponse {
	out := make([]candidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, fromCandidate(c))
	}
	return out
}
