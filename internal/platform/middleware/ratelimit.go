// Package middleware holds listener middleware shared across routes.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	dErrors "bazar/pkg/domain-errors"
	"bazar/pkg/platform/httputil"
)

// RateLimitConfig bounds requests per client IP.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Logger   *slog.Logger
}

// RateLimit returns an IP-based limiter. A non-positive Requests disables it.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Requests <= 0 {
		return NoRateLimit()
	}
	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Logger != nil {
				cfg.Logger.WarnContext(r.Context(), "rate limit exceeded",
					"ip", r.RemoteAddr,
					"path", r.URL.Path,
				)
			}
			httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:            string(dErrors.CodeConflict),
				ErrorDescription: "too many requests, please try again later",
			})
		}),
	)
}

// NoRateLimit is a pass-through middleware.
func NoRateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return next
	}
}
