// Package gateway is the storefront's only route to the backend API. It
// attaches credentials, unwraps the {data, message} envelope, and turns a 401
// on an authenticated call into exactly one refresh-and-retry.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"bazar/internal/auth/store/token"
	"bazar/internal/platform/metrics"
	dErrors "bazar/pkg/domain-errors"
	"bazar/pkg/requestcontext"
)

const headerRequestID = "X-Request-ID"

// TokenStore is the read side of the session token store.
type TokenStore interface {
	Get(ctx context.Context, kind token.Kind) (string, error)
}

// Refresher renews the session after a 401. It reports success and never errors.
type Refresher interface {
	Refresh(ctx context.Context) bool
}

// Request describes one backend call. Path is relative to the base URL.
type Request struct {
	Method string
	Path   string
	// Route is the low-cardinality label used for metrics and spans. Defaults to Path.
	Route string
	Query url.Values
	Body  any
}

// Response is a successful (2xx) backend response.
type Response struct {
	Status  int
	Message string
	// Data is the envelope's data member, empty when absent.
	Data json.RawMessage
	// Raw is the full response body.
	Raw []byte
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Gateway performs backend calls. Safe for concurrent use.
type Gateway struct {
	baseURL string
	client  *http.Client
	tokens  TokenStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	mu        sync.RWMutex
	refresher Refresher
}

// Option configures a Gateway.
type Option func(*Gateway)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// WithHTTPClient replaces the default client. The client should carry a cookie
// jar, since the refresh credential travels as an HTTP-only cookie.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		g.client = c
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(g *Gateway) {
		g.tracer = t
	}
}

// New builds a gateway for baseURL. No request timeout is applied; callers
// bound calls with their context.
func New(baseURL string, tokens TokenStore, opts ...Option) (*Gateway, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		logger:  slog.Default(),
		tracer:  otel.Tracer("bazar/gateway"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.client == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		g.client = &http.Client{Jar: jar}
	}
	return g, nil
}

// SetRefresher installs the session refresher. The auth session manager both
// depends on the gateway and refreshes for it, so it is attached after
// construction.
func (g *Gateway) SetRefresher(r Refresher) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refresher = r
}

// CallPublic performs a call without credentials.
func (g *Gateway) CallPublic(ctx context.Context, req Request) (*Response, error) {
	return g.call(ctx, req, false)
}

// CallAuthenticated attaches the stored access token. On a 401 it refreshes
// the session once and retries once; if the refresh fails the call fails with
// ErrAuthenticationRequired.
func (g *Gateway) CallAuthenticated(ctx context.Context, req Request) (*Response, error) {
	return g.call(ctx, req, true)
}

func (g *Gateway) call(ctx context.Context, req Request, authenticated bool) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	if req.Route == "" {
		req.Route = req.Path
	}

	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode request")
		}
	}

	status, raw, err := g.do(ctx, req, body, authenticated)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && authenticated {
		g.logger.DebugContext(ctx, "authenticated call rejected, refreshing session",
			"method", req.Method, "route", req.Route)
		if !g.refresh(ctx) {
			return nil, ErrAuthenticationRequired
		}
		status, raw, err = g.do(ctx, req, body, authenticated)
		if err != nil {
			return nil, err
		}
	}

	return interpret(status, raw)
}

func (g *Gateway) refresh(ctx context.Context) bool {
	g.mu.RLock()
	r := g.refresher
	g.mu.RUnlock()
	if r == nil {
		return false
	}
	return r.Refresh(ctx)
}

// do performs one HTTP exchange and returns the status and body.
func (g *Gateway) do(ctx context.Context, req Request, body []byte, authenticated bool) (int, []byte, error) {
	ctx, span := g.tracer.Start(ctx, req.Method+" "+req.Route, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	start := time.Now()

	target := g.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return 0, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	requestID := requestcontext.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	httpReq.Header.Set(headerRequestID, requestID)

	if authenticated {
		if accessToken, err := g.tokens.Get(ctx, token.KindAccessToken); err == nil && accessToken != "" {
			httpReq.Header.Set("Authorization", "Bearer "+accessToken)
		}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	span.SetAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.Path),
		attribute.String("bazar.request_id", requestID),
		attribute.Bool("bazar.authenticated", authenticated),
	)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.metrics.ObserveAPIRequest(req.Method, req.Route, 0, time.Since(start).Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		if ctx.Err() != nil {
			return 0, nil, ctx.Err()
		}
		g.logger.WarnContext(ctx, "backend unreachable", "method", req.Method, "route", req.Route, "error", err)
		return 0, nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "the store is unreachable, please try again")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	g.metrics.ObserveAPIRequest(req.Method, req.Route, resp.StatusCode, time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return 0, nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "the store response was interrupted")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	return resp.StatusCode, raw, nil
}

// interpret turns a status and body into a Response or a RequestFailed.
func interpret(status int, raw []byte) (*Response, error) {
	trimmed := bytes.TrimSpace(raw)

	if status < 200 || status > 299 {
		msg := genericFailureMessage
		var env envelope
		if len(trimmed) > 0 && trimmed[0] == '{' && json.Unmarshal(trimmed, &env) == nil && env.Message != "" {
			msg = env.Message
		}
		return nil, &RequestFailed{Status: status, Message: msg}
	}

	resp := &Response{Status: status, Raw: raw}
	if len(trimmed) == 0 {
		return resp, nil
	}
	if !json.Valid(trimmed) {
		return nil, &RequestFailed{Status: status, Message: "invalid response body"}
	}
	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil {
			resp.Message = env.Message
			if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
				resp.Data = env.Data
			}
		}
	}
	return resp, nil
}

// DecodeData decodes the envelope's data member into T. When the envelope has
// no data member the whole body is decoded instead.
func DecodeData[T any](resp *Response) (T, error) {
	var out T
	if resp == nil {
		return out, nil
	}
	src := resp.Data
	if len(src) == 0 {
		src = bytes.TrimSpace(resp.Raw)
	}
	if len(src) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(src, &out); err != nil {
		return out, dErrors.Wrap(err, dErrors.CodeInternal, "unexpected response from the store")
	}
	return out, nil
}
