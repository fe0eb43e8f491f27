package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/nomination"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/requestcontext"
)

// Service defines the nomination operations the handler exposes.
type Service interface {
	Submit(ctx context.Context, user id.UserID, input nomination.SubmitInput) (*nomination.Candidate, error)
	Approve(ctx context.Context, actor nomination.Actor, candidateID id.CandidateID) (*nomination.Candidate, error)
	Reject(ctx context.Context, actor nomination.Actor, candidateID id.CandidateID, reason string) (*nomination.Candidate, error)
	UpdateProfile(ctx context.Context, user id.UserID, candidateID id.CandidateID, patch nomination.ProfilePatch) (*nomination.Candidate, error)
	Find(ctx context.Context, candidateID id.CandidateID) (*nomination.Candidate, error)
	FindMine(ctx context.Context, user id.UserID) (*nomination.Candidate, error)
	List(ctx context.Context, status *nomination.Status) ([]*nomination.Candidate, error)
}

// Handler wires candidate endpoints to the nomination service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a nomination handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterProtected mounts endpoints available to any authenticated user.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/candidates", h.HandleSubmit)
	r.Get("/candidates", h.HandleList)
	r.Get("/candidates/my", h.HandleMine)
	r.Get("/candidates/{candidateID}", h.HandleGet)
	r.Put("/candidates/{candidateID}", h.HandleUpdate)
}

// RegisterDecisions mounts the approve/reject endpoints. The role gate is
// applied by the router; the service re-checks it as defence in depth.
func (h *Handler) RegisterDecisions(r chi.Router) {
	r.Patch("/candidates/{candidateID}/approve", h.HandleApprove)
	r.Patch("/candidates/{candidateID}/reject", h.HandleReject)
}

// HandleSubmit handles POST /candidates.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[submitRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	positionID, err := id.ParsePositionID(req.PositionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	candidate, err := h.service.Submit(ctx, requestcontext.UserID(ctx), nomination.SubmitInput{
		PositionID:   positionID,
		Slogan:       req.Slogan,
		ManifestoRef: req.ManifestoRef,
		PhotoRef:     req.PhotoRef,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "nomination submission failed",
			"request_id", requestID,
			"position_id", req.PositionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "nomination submitted",
		"request_id", requestID,
		"candidate_id", candidate.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, fromCandidate(candidate))
}

// HandleList handles GET /candidates with an optional ?status= filter.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var status *nomination.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := nomination.ParseStatus(raw)
		if !ok {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unknown status filter: "+raw))
			return
		}
		status = &parsed
	}

	candidates, err := h.service.List(r.Context(), status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, candidateListResponse{Candidates: fromCandidates(candidates)})
}

// HandleMine handles GET /candidates/my.
func (h *Handler) HandleMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidate, err := h.service.FindMine(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromCandidate(candidate))
}

// HandleGet handles GET /candidates/{candidateID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	candidateID, err := id.ParseCandidateID(chi.URLParam(r, "candidateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	candidate, err := h.service.Find(r.Context(), candidateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromCandidate(candidate))
}

// HandleUpdate handles PUT /candidates/{candidateID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	candidateID, err := id.ParseCandidateID(chi.URLParam(r, "candidateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[updateRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	candidate, err := h.service.UpdateProfile(ctx, requestcontext.UserID(ctx), candidateID, nomination.ProfilePatch{
		Slogan:       req.Slogan,
		ManifestoRef: req.ManifestoRef,
		PhotoRef:     req.PhotoRef,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "candidate update failed",
			"request_id", requestID,
			"candidate_id", candidateID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromCandidate(candidate))
}

// HandleApprove handles PATCH /candidates/{candidateID}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, func(ctx context.Context, actor nomination.Actor, candidateID id.CandidateID) (*nomination.Candidate, error) {
		return h.service.Approve(ctx, actor, candidateID)
	})
}

// HandleReject handles PATCH /candidates/{candidateID}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[rejectRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	h.decide(w, r, func(ctx context.Context, actor nomination.Actor, candidateID id.CandidateID) (*nomination.Candidate, error) {
		return h.service.Reject(ctx, actor, candidateID, req.Reason)
	})
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, op func(context.Context, nomination.Actor, id.CandidateID) (*nomination.Candidate, error)) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	candidateID, err := id.ParseCandidateID(chi.URLParam(r, "candidateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	actor := nomination.Actor{
		ID:   requestcontext.UserID(ctx),
		Role: requestcontext.Role(ctx),
	}

	candidate, err := op(ctx, actor, candidateID)
	if err != nil {
		h.logger.WarnContext(ctx, "nomination decision failed",
			"request_id", requestID,
			"candidate_id", candidateID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "nomination decided",
		"request_id", requestID,
		"candidate_id", candidateID,
		"status", candidate.Status,
	)
	httputil.WriteJSON(w, http.StatusOK, fromCandidate(candidate))
}
