package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/election"
	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/requestcontext"
)

// Service defines the position-registry operations the handler exposes.
type Service interface {
	Create(ctx context.Context, actorID id.UserID, input election.CreateInput) (*election.Position, error)
	CreateBulk(ctx context.Context, actorID id.UserID, inputs []election.CreateInput) ([]*election.Position, error)
	Find(ctx context.Context, positionID id.PositionID) (*election.Position, error)
	List(ctx context.Context) ([]*election.Position, error)
}

// Handler wires position endpoints to the election service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an election handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRead mounts the read-only position endpoints.
func (h *Handler) RegisterRead(r chi.Router) {
	r.Get("/positions", h.HandleList)
	r.Get("/positions/{positionID}", h.HandleGet)
}

// RegisterAdmin mounts the position-creation endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/positions", h.HandleCreate)
	r.Post("/positions/bulk", h.HandleCreateBulk)
}

// HandleCreate handles POST /positions.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[createPositionRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	input, err := req.toInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	position, err := h.service.Create(ctx, requestcontext.UserID(ctx), input)
	if err != nil {
		h.logger.WarnContext(ctx, "position creation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "position created",
		"request_id", requestID,
		"position_id", position.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, fromPosition(position))
}

// HandleCreateBulk handles POST /positions/bulk.
func (h *Handler) HandleCreateBulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[bulkCreateRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	inputs := make([]election.CreateInput, 0, len(req.Positions))
	for _, p := range req.Positions {
		input, err := p.toInput()
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		inputs = append(inputs, input)
	}

	created, err := h.service.CreateBulk(ctx, requestcontext.UserID(ctx), inputs)
	if err != nil {
		// Partial progress is reported alongside the failure so the caller
		// can see which positions made it in.
		h.logger.WarnContext(ctx, "bulk position creation stopped",
			"request_id", requestID,
			"created", len(created),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, bulkCreateResponse{
		Created:   fromPositions(created),
		Count:     len(created),
		Requested: len(req.Positions),
	})
}

// HandleList handles GET /positions.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	positions, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Positions: fromPositions(positions)})
}

// HandleGet handles GET /positions/{positionID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	positionID, err := id.ParsePositionID(chi.URLParam(r, "positionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	position, err := h.service.Find(r.Context(), positionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromPosition(position))
}
