package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/audit"
	"rollcall/internal/ballot"
	"rollcall/internal/report"
	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/httputil"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

// Service defines the reporting reads the handler exposes.
type Service interface {
	Tally(ctx context.Context, positionID id.PositionID) ([]ballot.TallyRow, error)
	Turnout(ctx context.Context) (*report.Turnout, error)
	AuditTrail(ctx context.Context, limit int) ([]audit.Event, error)
}

// Handler wires reporting endpoints to the report service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a report handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the reporting endpoints behind the admin/officer gate.
func (h *Handler) Register(r chi.Router) {
	r.Get("/reports/tally/{positionID}", h.HandleTally)
	r.Get("/reports/turnout", h.HandleTurnout)
	r.Get("/reports/audit", h.HandleAuditTrail)
}

// HandleTally handles GET /reports/tally/{positionID}.
func (h *Handler) HandleTally(w http.ResponseWriter, r *http.Request) {
	positionID, err := id.ParsePositionID(chi.URLParam(r, "positionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rows, err := h.service.Tally(r.Context(), positionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tallyResponse{
		PositionID: positionID.String(),
		Rows:       fromTally(rows),
	})
}

// HandleTurnout handles GET /reports/turnout.
func (h *Handler) HandleTurnout(w http.ResponseWriter, r *http.Request) {
	turnout, err := h.service.Turnout(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, turnout)
}

// HandleAuditTrail handles GET /reports/audit with an optional ?limit=.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxAuditLimit)
		}
	}
	events, err := h.service.AuditTrail(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, auditResponse{Events: fromEvents(events)})
}

type tallyRowResponse struct {
	CandidateID string `json:"candidateId"`
	Votes       int    `json:"votes"`
}

type tallyResponse struct {
	PositionID string             `json:"positionId"`
	Rows       []tallyRowResponse `json:"rows"`
}

func fromTally(rows []ballot.TallyRow) []tallyRowResponse {
	out := make([]tallyRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, tallyRowResponse{CandidateID: row.CandidateID.String(), Votes: row.Votes})
	}
	return out
}

type auditEventResponse struct {
	ID        string         `json:"id"`
	ActorType string         `json:"actorType"`
	ActorID   string         `json:"actorId,omitempty"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entityId,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type auditResponse struct {
	Events []auditEventResponse `json:"events"`
}

func fromEvents(events []audit.Event) []auditEventResponse {
	out := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, auditEventResponse{
			ID:        e.ID.String(),
			ActorType: e.ActorType,
			ActorID:   e.ActorID,
			Action:    string(e.Action),
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			Payload:   e.Payload,
			Timestamp: e.Timestamp,
		})
	}
	return out
}
