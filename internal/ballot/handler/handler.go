package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/ballot"
	"rollcall/internal/voterroll"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/requestcontext"
)

// Service defines the ballot operation the handler exposes.
type Service interface {
	CastVote(ctx context.Context, voterID id.VoterID, positionID id.PositionID, candidateID id.CandidateID) (*ballot.Vote, error)
}

// RollResolver maps registration numbers to ledger entries. Polling clients
// identify voters by reg number, not by internal ID.
type RollResolver interface {
	FindByRegNo(ctx context.Context, regNo string) (*voterroll.Voter, error)
}

// Handler wires the vote endpoint to the ballot engine.
type Handler struct {
	service Service
	roll    RollResolver
	logger  *slog.Logger
}

// New constructs a ballot handler.
func New(service Service, roll RollResolver, logger *slog.Logger) *Handler {
	return &Handler{service: service, roll: roll, logger: logger}
}

// Register mounts the vote endpoint.
func (h *Handler) Register(r chi.Router) {
	r.Post("/votes", h.HandleCast)
}

// HandleCast handles POST /votes. The body carries either the voter's ledger
// ID or their registration number.
func (h *Handler) HandleCast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[castRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	voterID, err := h.resolveVoter(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	positionID, err := id.ParsePositionID(req.PositionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	candidateID, err := id.ParseCandidateID(req.CandidateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	vote, err := h.service.CastVote(ctx, voterID, positionID, candidateID)
	if err != nil {
		// The candidate choice never appears in logs, same as the audit trail.
		h.logger.WarnContext(ctx, "vote rejected",
			"request_id", requestID,
			"position_id", req.PositionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "vote recorded",
		"request_id", requestID,
		"vote_id", vote.ID,
		"position_id", req.PositionID,
	)
	httputil.WriteJSON(w, http.StatusCreated, castResponse{
		ID:         vote.ID.String(),
		PositionID: vote.PositionID.String(),
		CastAt:     vote.CastAt,
	})
}

func (h *Handler) resolveVoter(ctx context.Context, req castRequest) (id.VoterID, error) {
	switch {
	case req.VoterID != "":
		return id.ParseVoterID(req.VoterID)
	case req.RegNo != "":
		voter, err := h.roll.FindByRegNo(ctx, req.RegNo)
		if err != nil {
			return id.VoterID{}, dErrors.Wrap(dErrors.CodeNotFound, "voter not found on the roll", err)
		}
		return voter.ID, nil
	default:
		return id.VoterID{}, dErrors.New(dErrors.CodeBadRequest, "voterId or regNo is required")
	}
}
