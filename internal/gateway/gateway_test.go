package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"bazar/internal/auth/store/token"
	"bazar/internal/platform/logger"
	"bazar/internal/platform/metrics"
	dErrors "bazar/pkg/domain-errors"
	"bazar/pkg/requestcontext"
)

// stubRefresher rotates the stored access token when it succeeds.
type stubRefresher struct {
	tokens *token.InMemoryStore
	ok     bool
	next   string
	calls  atomic.Int32
}

func (r *stubRefresher) Refresh(ctx context.Context) bool {
	r.calls.Add(1)
	if r.ok {
		_ = r.tokens.Set(ctx, token.KindAccessToken, r.next)
	}
	return r.ok
}

type GatewaySuite struct {
	suite.Suite
	ctx    context.Context
	tokens *token.InMemoryStore
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	s.ctx = context.Background()
	s.tokens = token.NewInMemoryStore()
}

func (s *GatewaySuite) newGateway(h http.HandlerFunc) *Gateway {
	srv := httptest.NewServer(h)
	s.T().Cleanup(srv.Close)
	gw, err := New(srv.URL+"/api/v1", s.tokens,
		WithLogger(logger.Discard()),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
	)
	s.Require().NoError(err)
	return gw
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *GatewaySuite) TestHeaders() {
	s.Run("authenticated calls carry the stored bearer token", func() {
		s.Require().NoError(s.tokens.Set(s.ctx, token.KindAccessToken, "tok-1"))
		var auth, reqID, contentType, path, query string
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			reqID = r.Header.Get(headerRequestID)
			contentType = r.Header.Get("Content-Type")
			path = r.URL.Path
			query = r.URL.RawQuery
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]int{"totalItems": 1}})
		})

		ctx := requestcontext.WithRequestID(s.ctx, "req-42")
		_, err := gw.CallAuthenticated(ctx, Request{Path: "/shop/cart/summary", Query: url.Values{"a": {"b"}}})
		s.Require().NoError(err)
		s.Equal("Bearer tok-1", auth)
		s.Equal("req-42", reqID)
		s.Equal("application/json", contentType)
		s.Equal("/api/v1/shop/cart/summary", path)
		s.Equal("a=b", query)
	})

	s.Run("public calls never carry the token", func() {
		s.Require().NoError(s.tokens.Set(s.ctx, token.KindAccessToken, "tok-1"))
		var auth, reqID string
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			reqID = r.Header.Get(headerRequestID)
			writeJSON(w, http.StatusOK, map[string]any{"data": []int{}})
		})

		_, err := gw.CallPublic(s.ctx, Request{Path: "/product-catalogs/by-store/9"})
		s.Require().NoError(err)
		s.Empty(auth)
		s.NotEmpty(reqID)
	})

	s.Run("no token means no Authorization header", func() {
		s.Require().NoError(s.tokens.ClearAll(s.ctx))
		var sawHeader bool
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			_, sawHeader = r.Header["Authorization"]
			writeJSON(w, http.StatusOK, map[string]any{"data": nil})
		})

		_, err := gw.CallAuthenticated(s.ctx, Request{Path: "/shop/cart/summary"})
		s.Require().NoError(err)
		s.False(sawHeader)
	})
}

func (s *GatewaySuite) TestEnvelope() {
	s.Run("decodes the data member", func() {
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"loginUrl": "https://idp/login"}, "message": "ok"})
		})
		resp, err := gw.CallPublic(s.ctx, Request{Path: "/auth/login-url"})
		s.Require().NoError(err)
		s.Equal("ok", resp.Message)

		out, err := DecodeData[struct {
			LoginURL string `json:"loginUrl"`
		}](resp)
		s.Require().NoError(err)
		s.Equal("https://idp/login", out.LoginURL)
	})

	s.Run("falls back to the whole body without a data member", func() {
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]int{"cartSize": 3})
		})
		resp, err := gw.CallAuthenticated(s.ctx, Request{Method: http.MethodPost, Path: "/shop/cart/item"})
		s.Require().NoError(err)

		out, err := DecodeData[struct {
			CartSize int `json:"cartSize"`
		}](resp)
		s.Require().NoError(err)
		s.Equal(3, out.CartSize)
	})

	s.Run("empty bodies succeed", func() {
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		resp, err := gw.CallAuthenticated(s.ctx, Request{Method: http.MethodDelete, Path: "/shop/cart"})
		s.Require().NoError(err)
		s.Equal(http.StatusNoContent, resp.Status)
	})

	s.Run("request bodies are sent as JSON", func() {
		var got map[string]any
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&got)
			writeJSON(w, http.StatusOK, map[string]any{"data": nil})
		})
		_, err := gw.CallPublic(s.ctx, Request{Method: http.MethodPost, Path: "/auth/token",
			Body: map[string]string{"code": "c1", "redirectUri": "http://localhost:3000/auth/callback"}})
		s.Require().NoError(err)
		s.Equal("c1", got["code"])
	})
}

func (s *GatewaySuite) TestFailures() {
	s.Run("uses the backend message", func() {
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid discount code"})
		})
		_, err := gw.CallAuthenticated(s.ctx, Request{Method: http.MethodPost, Path: "/shop/applyDiscountByCode/NOPE"})

		var rf *RequestFailed
		s.Require().ErrorAs(err, &rf)
		s.Equal(http.StatusBadRequest, rf.Status)
		s.Equal("Invalid discount code", rf.Message)
		s.True(dErrors.HasCode(err, dErrors.CodeRequestFailed))
		s.Equal("Invalid discount code", UserMessage(err))
	})

	s.Run("falls back to a generic message", func() {
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("<html>oops</html>"))
		})
		_, err := gw.CallPublic(s.ctx, Request{Path: "/product-catalogs/by-store/9"})

		var rf *RequestFailed
		s.Require().ErrorAs(err, &rf)
		s.Equal(http.StatusInternalServerError, rf.Status)
		s.Equal("API request failed", rf.Message)
	})

	s.Run("malformed success bodies fail", func() {
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		})
		_, err := gw.CallPublic(s.ctx, Request{Path: "/auth/login-url"})
		s.True(dErrors.HasCode(err, dErrors.CodeRequestFailed))
	})

	s.Run("unreachable backend is unavailable", func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		gw, err := New(srv.URL, s.tokens, WithLogger(logger.Discard()))
		s.Require().NoError(err)

		_, err = gw.CallPublic(s.ctx, Request{Path: "/auth/login-url"})
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func (s *GatewaySuite) TestUnauthorizedRefresh() {
	s.Run("refreshes once and retries with the new token", func() {
		s.Require().NoError(s.tokens.Set(s.ctx, token.KindAccessToken, "stale"))
		var calls atomic.Int32
		var retriedWith string
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "expired"})
				return
			}
			retriedWith = r.Header.Get("Authorization")
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]int{"totalItems": 2}})
		})
		refresher := &stubRefresher{tokens: s.tokens, ok: true, next: "fresh"}
		gw.SetRefresher(refresher)

		resp, err := gw.CallAuthenticated(s.ctx, Request{Path: "/shop/cart/summary"})
		s.Require().NoError(err)
		s.Equal(http.StatusOK, resp.Status)
		s.Equal(int32(1), refresher.calls.Load())
		s.Equal(int32(2), calls.Load())
		s.Equal("Bearer fresh", retriedWith)
	})

	s.Run("failed refresh means authentication is required", func() {
		var calls atomic.Int32
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		})
		refresher := &stubRefresher{tokens: s.tokens, ok: false}
		gw.SetRefresher(refresher)

		_, err := gw.CallAuthenticated(s.ctx, Request{Path: "/shop/cart/summary"})
		s.Require().ErrorIs(err, ErrAuthenticationRequired)
		s.True(dErrors.HasCode(err, dErrors.CodeAuthenticationRequired))
		s.Equal(int32(1), refresher.calls.Load())
		s.Equal(int32(1), calls.Load())
	})

	s.Run("a second 401 is not refreshed again", func() {
		var calls atomic.Int32
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "still no"})
		})
		refresher := &stubRefresher{tokens: s.tokens, ok: true, next: "fresh"}
		gw.SetRefresher(refresher)

		_, err := gw.CallAuthenticated(s.ctx, Request{Path: "/shop/cart/summary"})

		var rf *RequestFailed
		s.Require().ErrorAs(err, &rf)
		s.Equal(http.StatusUnauthorized, rf.Status)
		s.Equal("still no", rf.Message)
		s.Equal(int32(1), refresher.calls.Load())
		s.Equal(int32(2), calls.Load())
	})

	s.Run("public calls never refresh", func() {
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		refresher := &stubRefresher{tokens: s.tokens, ok: true}
		gw.SetRefresher(refresher)

		_, err := gw.CallPublic(s.ctx, Request{Method: http.MethodPost, Path: "/auth/refresh"})

		var rf *RequestFailed
		s.Require().ErrorAs(err, &rf)
		s.Equal(int32(0), refresher.calls.Load())
	})

	s.Run("no refresher installed means authentication is required", func() {
		gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		_, err := gw.CallAuthenticated(s.ctx, Request{Path: "/orders/checkout/link"})
		s.Require().ErrorIs(err, ErrAuthenticationRequired)
	})
}

func (s *GatewaySuite) TestCookiesPersist() {
	var sawCookie string
	gw := s.newGateway(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/auth/token" {
			http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "r1", Path: "/", HttpOnly: true})
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"access_token": "a"}})
			return
		}
		if c, err := r.Cookie("refresh_token"); err == nil {
			sawCookie = c.Value
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"access_token": "b"}})
	})

	_, err := gw.CallPublic(s.ctx, Request{Method: http.MethodPost, Path: "/auth/token"})
	s.Require().NoError(err)
	_, err = gw.CallPublic(s.ctx, Request{Method: http.MethodPost, Path: "/auth/refresh"})
	s.Require().NoError(err)
	s.Equal("r1", sawCookie)
}
