// Package httputil holds the JSON response helpers shared by all handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "rollcall/pkg/domain-errors"
)

// errorResponse is the wire shape for every error the API returns.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON renders v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders err using its domain-error code. Internal errors omit
// the description so infrastructure details never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(err)

	resp := errorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		var coded *dErrors.Error
		if errors.As(err, &coded) {
			resp.ErrorDescription = coded.Description
		}
	}
	WriteJSON(w, status, resp)
}

// Decode parses a JSON request body into T, returning a coded error on
// malformed input. Unknown fields are rejected to catch client typos early.
func Decode[T any](r *http.Request) (T, error) {
	var payload T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return payload, dErrors.Wrap(dErrors.CodeBadRequest, "invalid JSON body", err)
	}
	return payload, nil
}

// DecodeAndPrepare decodes the body and writes the error response itself,
// letting handlers stay a two-line early return.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, requestID string) (T, bool) {
	payload, err := Decode[T](r)
	if err != nil {
		logger.WarnContext(r.Context(), "request body rejected",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		var zero T
		return zero, false
	}
	return payload, true
}
