package httptransport

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	orderModels "bazar/internal/order/models"
	dErrors "bazar/pkg/domain-errors"
	"bazar/pkg/platform/httputil"
	"bazar/pkg/requestcontext"
)

// Shop is the storefront surface the listener drives.
type Shop interface {
	CompleteSignIn(ctx context.Context, code, state string) (string, error)
	PaymentReturned(ctx context.Context, outcome orderModels.Outcome)
}

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler receives the browser redirects that end sign-in and payment.
type Handler struct {
	shop   Shop
	logger *slog.Logger
	checks []HealthChecker
}

func New(shop Shop, logger *slog.Logger, checks ...HealthChecker) *Handler {
	return &Handler{shop: shop, logger: logger, checks: checks}
}

// Register mounts the redirect endpoints on the router. callbackMiddleware
// wraps only the sign-in callback.
func (h *Handler) Register(r chi.Router, callbackMiddleware ...func(http.Handler) http.Handler) {
	r.With(callbackMiddleware...).Get("/auth/callback", h.HandleCallback)
	r.Get(orderModels.SuccessPath, h.HandlePaymentReturn)
	r.Get(orderModels.FailurePath, h.HandlePaymentReturn)
	r.Get("/healthz", h.HandleHealth)
}

// HandleCallback handles GET /auth/callback from the identity provider.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()
	q := r.URL.Query()

	if providerErr := q.Get("error"); providerErr != "" {
		h.logger.WarnContext(ctx, "identity provider returned an error",
			"request_id", requestID,
			"error", providerErr,
			"error_description", q.Get("error_description"),
		)
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error:            providerErr,
			ErrorDescription: q.Get("error_description"),
		})
		return
	}

	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid callback parameters"))
		return
	}

	path, err := h.shop.CompleteSignIn(ctx, code, state)
	if err != nil {
		h.logger.ErrorContext(ctx, "sign-in callback failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sign-in completed",
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	http.Redirect(w, r, safeLocalPath(path), http.StatusFound)
}

// HandlePaymentReturn handles GET /payment/success and /payment/failure.
func (h *Handler) HandlePaymentReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	outcome, err := orderModels.ParseOutcome(r.URL.Path, r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.shop.PaymentReturned(ctx, outcome)

	status := http.StatusOK
	if !outcome.Succeeded() {
		status = http.StatusPaymentRequired
	}
	writePage(w, status, paymentMessage(outcome))
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	for _, c := range h.checks {
		if err := c.Health(r.Context()); err != nil {
			h.logger.WarnContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleLanding serves any other path, which is where sign-in lands the browser.
func (h *Handler) HandleLanding(w http.ResponseWriter, _ *http.Request) {
	writePage(w, http.StatusOK, "You are signed in. You can close this tab and return to the storefront.")
}

func paymentMessage(o orderModels.Outcome) string {
	var b strings.Builder
	if o.Succeeded() {
		b.WriteString("Payment successful.")
	} else {
		b.WriteString("Payment failed. Please try again or contact support.")
	}
	if o.OrderID != "" {
		fmt.Fprintf(&b, " Order %s.", o.OrderID)
	}
	b.WriteString(" You can close this tab and return to the storefront.")
	return b.String()
}

func writePage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintln(w, msg)
}

// safeLocalPath keeps redirects on this listener.
func safeLocalPath(path string) string {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.Contains(path, "\\") {
		return "/"
	}
	return path
}
