package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the storefront client.
type Metrics struct {
	APIRequests       *prometheus.CounterVec
	APILatency        *prometheus.HistogramVec
	TokenRefreshes    *prometheus.CounterVec
	LoginsStarted     prometheus.Counter
	CallbacksHandled  *prometheus.CounterVec
	StateMismatches   prometheus.Counter
	CartOperations    *prometheus.CounterVec
	DroppedOperations *prometheus.CounterVec
	TokenStoreLatency *prometheus.HistogramVec
}

// New creates and registers all metrics with reg. Pass prometheus.NewRegistry()
// in tests so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		APIRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bazar_api_requests_total",
			Help: "Backend API calls by method, route and status class",
		}, []string{"method", "route", "status"}),
		APILatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bazar_api_request_duration_seconds",
			Help:    "Backend API call latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		TokenRefreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bazar_token_refreshes_total",
			Help: "Token refresh attempts by outcome",
		}, []string{"outcome"}),
		LoginsStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "bazar_logins_started_total",
			Help: "Sign-in redirects issued",
		}),
		CallbacksHandled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bazar_auth_callbacks_total",
			Help: "Authorization callbacks by outcome",
		}, []string{"outcome"}),
		StateMismatches: f.NewCounter(prometheus.CounterOpts{
			Name: "bazar_auth_state_mismatches_total",
			Help: "Callbacks whose state did not match the pending handshake",
		}),
		CartOperations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bazar_cart_operations_total",
			Help: "Cart operations by kind and outcome",
		}, []string{"operation", "outcome"}),
		DroppedOperations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bazar_cart_operations_dropped_total",
			Help: "Cart operations dropped because the same control was already in flight",
		}, []string{"operation"}),
		TokenStoreLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bazar_token_store_duration_seconds",
			Help:    "Token store operation latency",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}, []string{"operation"}),
	}
}

// ObserveAPIRequest records one backend call.
func (m *Metrics) ObserveAPIRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.APIRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.APILatency.WithLabelValues(method, route).Observe(seconds)
}

// IncrementRefresh counts one refresh attempt.
func (m *Metrics) IncrementRefresh(ok bool) {
	if m == nil {
		return
	}
	m.TokenRefreshes.WithLabelValues(outcome(ok)).Inc()
}

// IncrementLoginsStarted counts one sign-in redirect.
func (m *Metrics) IncrementLoginsStarted() {
	if m == nil {
		return
	}
	m.LoginsStarted.Inc()
}

// IncrementCallback counts one handled callback.
func (m *Metrics) IncrementCallback(ok bool) {
	if m == nil {
		return
	}
	m.CallbacksHandled.WithLabelValues(outcome(ok)).Inc()
}

// IncrementStateMismatch counts one advisory state mismatch.
func (m *Metrics) IncrementStateMismatch() {
	if m == nil {
		return
	}
	m.StateMismatches.Inc()
}

// IncrementCartOperation counts one completed cart operation.
func (m *Metrics) IncrementCartOperation(op string, ok bool) {
	if m == nil {
		return
	}
	m.CartOperations.WithLabelValues(op, outcome(ok)).Inc()
}

// IncrementDropped counts one operation dropped by an in-flight guard.
func (m *Metrics) IncrementDropped(op string) {
	if m == nil {
		return
	}
	m.DroppedOperations.WithLabelValues(op).Inc()
}

// ObserveTokenStore records token store latency.
func (m *Metrics) ObserveTokenStore(op string, seconds float64) {
	if m == nil {
		return
	}
	m.TokenStoreLatency.WithLabelValues(op).Observe(seconds)
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func statusClass(status int) string {
	switch {
	case status == 0:
		return "error"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
