package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bazar/pkg/platform/middleware/requestmeta"
)

// NewRouter wires the redirect listener. metricsHandler is mounted at
// /metrics when non-nil; callbackLimiter guards /auth/callback when non-nil.
func NewRouter(h *Handler, metricsHandler http.Handler, callbackLimiter func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestmeta.Middleware)

	if callbackLimiter != nil {
		h.Register(r, callbackLimiter)
	} else {
		h.Register(r)
	}
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
	r.NotFound(h.HandleLanding)
	return r
}
