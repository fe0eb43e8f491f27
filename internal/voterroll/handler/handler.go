package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/voterroll"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/requestcontext"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
	maxImportBytes  = 8 << 20
)

// Importer loads ledger entries from CSV.
type Importer interface {
	Import(ctx context.Context, actorID id.UserID, r io.Reader) (*voterroll.ImportResult, error)
}

// Handler wires voter-ledger endpoints to the roll store and importer.
type Handler struct {
	store    voterroll.Store
	importer Importer
	logger   *slog.Logger
}

// New constructs a voter-roll handler.
func New(store voterroll.Store, importer Importer, logger *slog.Logger) *Handler {
	return &Handler{store: store, importer: importer, logger: logger}
}

// Register mounts the ledger endpoints. All of them sit behind the
// admin/officer role gate applied by the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/voters/import", h.HandleImport)
	r.Get("/voters", h.HandleList)
	r.Get("/voters/{regNo}", h.HandleGet)
}

// HandleImport handles POST /voters/import. The body is the raw CSV, or a
// multipart form with a "file" part.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, err := h.importBody(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer body.Close()

	result, err := h.importer.Import(ctx, requestcontext.UserID(ctx), io.LimitReader(body, maxImportBytes))
	if err != nil {
		h.logger.WarnContext(ctx, "voter import failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "voter import finished",
		"request_id", requestID,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) importBody(r *http.Request) (io.ReadCloser, error) {
	if file, _, err := r.FormFile("file"); err == nil {
		return file, nil
	}
	if r.Body == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "empty request body")
	}
	return r.Body, nil
}

// HandleList handles GET /voters with ?page= and ?limit=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultPageSize)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	voters, total, err := h.store.List(r.Context(), (page-1)*limit, limit)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "failed to list voters", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{
		Voters: fromVoters(voters),
		Total:  total,
		Page:   page,
		Limit:  limit,
	})
}

// HandleGet handles GET /voters/{regNo}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	voter, err := h.store.FindByRegNo(r.Context(), chi.URLParam(r, "regNo"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeNotFound, "voter not found", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromVoter(voter))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
