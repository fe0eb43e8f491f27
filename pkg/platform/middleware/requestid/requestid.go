// Package requestid assigns a correlation ID to every request so log lines
// and audit entries from one call can be stitched together.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"rollcall/pkg/requestcontext"
)

const headerName = "X-Request-ID"

// Middleware honors an inbound X-Request-ID or generates one, echoes it on
// the response, and stores it in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(headerName)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(headerName, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
