// Package requestmeta stamps each listener request with a request ID and a
// request-scoped time so handlers and the services they call agree on both.
package requestmeta

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"bazar/pkg/requestcontext"
)

// HeaderRequestID is echoed on responses and forwarded to the backend.
const HeaderRequestID = "X-Request-ID"

// Middleware captures the current time and a request ID at the start of the request.
// An inbound X-Request-ID is reused so a browser-side trace can be followed.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
