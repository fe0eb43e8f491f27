package handler

import (
	"time"

	"rollcall/internal/election"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
)

type windowPayload struct {
	Opens  time.Time `json:"opens"`
	Closes time.Time `json:"closes"`
}

type createPositionRequest struct {
	Name         string        `json:"name"`
	Constituency *string       `json:"constituency"`
	Seats        int           `json:"seats"`
	Nomination   windowPayload `json:"nomination"`
	Voting       windowPayload `json:"voting"`
}

func (req createPositionRequest) toInput() (election.CreateInput, error) {
	if req.Nomination.Opens.IsZero() || req.Nomination.Closes.IsZero() {
		return election.CreateInput{}, dErrors.New(dErrors.CodeBadRequest, "nomination window must have opens and closes")
	}
	if req.Voting.Opens.IsZero() || req.Voting.Closes.IsZero() {
		return election.CreateInput{}, dErrors.New(dErrors.CodeBadRequest, "voting window must have opens and closes")
	}
	return election.CreateInput{
		Name:         req.Name,
		Constituency: req.Constituency,
		Seats:        req.Seats,
		Nomination:   id.Window{Opens: req.Nomination.Opens, Closes: req.Nomination.Closes},
		Voting:       id.Window{Opens: req.Voting.Opens, Closes: req.Voting.Closes},
	}, nil
}

type bulkCreateRequest struct {
	Positions []createPositionRequest `json:"positions"`
}

type positionResponse struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Constituency *string       `json:"constituency,omitempty"`
	Seats        int           `json:"seats"`
	Nomination   windowPayload `json:"nomination"`
	Voting       windowPayload `json:"voting"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type listResponse struct {
	Positions []positionResponse `json:"positions"`
}

type bulkCreateResponse struct {
	Created   []positionResponse `json:"created"`
	Count     int                `json:"count"`
	Requested int                `json:"requested"`
}

func fromPosition(p *election.Position) positionResponse {
	return positionResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Constituency: p.Constituency,
		Seats:        p.Seats,
		Nomination:   windowPayload{Opens: p.Nomination.Opens, Closes: p.Nomination.Closes},
		Voting:       windowPayload{Opens: p.Voting.Opens, Closes: p.Voting.Closes},
		CreatedAt:    p.CreatedAt,
	}
}

func fromPositions(positions []*election.Position) []positionResponse {
	out := make([]positionResponse, 0, len(positions))
	for _, p := range positions {
		out = append(out, fromPosition(p))
	}
	return out
}
