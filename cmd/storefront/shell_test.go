package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazar/internal/auth/store/token"
	"bazar/internal/gateway"
	"bazar/internal/modal"
	"bazar/internal/platform/config"
	"bazar/internal/platform/logger"
	"bazar/internal/platform/metrics"
	"bazar/pkg/testutil"
)

type shellFixture struct {
	backend *testutil.FakeBackend
	app     *app
	out     *bytes.Buffer
	sh      *shell
}

func newShellFixture(t *testing.T) *shellFixture {
	t.Helper()
	fb := testutil.NewFakeBackend(t,
		testutil.FakeProduct{ID: 1, Name: "Mug", Price: 19.99, Stock: 5},
		testutil.FakeProduct{ID: 2, Name: "Tee", Price: 25, Stock: 40},
	)
	cfg := config.Config{
		API:  config.API{BaseURL: fb.URL, StoreID: 9},
		Auth: config.Auth{CallbackURI: "http://127.0.0.1:3000/auth/callback"},
	}
	log := logger.Discard()
	m := metrics.New(prometheus.NewRegistry())
	tokens := token.NewInMemoryStore(token.WithMetrics(m))
	gw, err := gateway.New(fb.URL, tokens, gateway.WithLogger(log), gateway.WithMetrics(m))
	require.NoError(t, err)

	out := &bytes.Buffer{}
	a := newApp(cfg, gw, tokens, &printNavigator{out: out}, m, log)
	return &shellFixture{backend: fb, app: a, out: out, sh: newShell(a, out)}
}

func (f *shellFixture) exec(t *testing.T, line string) string {
	t.Helper()
	f.out.Reset()
	require.NoError(t, f.sh.Execute(context.Background(), line))
	return f.out.String()
}

// signIn plays the browser leg of sign-in using the pending handshake.
func (f *shellFixture) signIn(t *testing.T) {
	t.Helper()
	f.exec(t, "login")
	handshake := f.app.auth.PendingHandshake()
	require.NotNil(t, handshake)

	f.backend.IssueCode("shell-code")
	_, err := f.app.shop.CompleteSignIn(context.Background(), "shell-code", handshake.State)
	require.NoError(t, err)
}

func TestShellShoppingSession(t *testing.T) {
	f := newShellFixture(t)

	out := f.exec(t, "catalog")
	assert.Contains(t, out, "1. Mug")
	assert.Contains(t, out, "Only 5 left")

	out = f.exec(t, "show 1")
	assert.Contains(t, out, "Mug  €19.99")
	assert.Equal(t, modal.ProductDetail, f.app.modals.State().Kind)

	out = f.exec(t, "add")
	assert.Contains(t, out, "Please sign in first")
	assert.Contains(t, out, "https://idp.example/")

	f.signIn(t)
	assert.Contains(t, f.exec(t, "whoami"), "shopper@example.com")

	out = f.exec(t, "add 1")
	assert.Contains(t, out, "Added Mug. 1 item(s) in your cart.")
	assert.Contains(t, out, "Checkout (1) €19.99")

	out = f.exec(t, "add 2 2")
	assert.Contains(t, out, "Checkout (3) €69.99")

	out = f.exec(t, "checkout")
	assert.Contains(t, out, "Checkout: Checkout (3) €69.99.")

	out = f.exec(t, "pay")
	assert.Contains(t, out, "https://pay.example/session/")

	out = f.exec(t, "remove 1")
	assert.NotContains(t, out, "Mug")
	assert.Contains(t, out, "Checkout (2) €50.00")

	assert.Contains(t, f.exec(t, "clear"), "Cart emptied.")
	assert.Contains(t, f.exec(t, "logout"), "Signed out.")
	assert.Contains(t, f.exec(t, "whoami"), "Not signed in.")
}

func TestShellErrors(t *testing.T) {
	f := newShellFixture(t)
	ctx := context.Background()

	assert.ErrorContains(t, f.sh.Execute(ctx, "frobnicate"), "unknown command")
	assert.ErrorContains(t, f.sh.Execute(ctx, "add"), "usage: add")
	assert.ErrorContains(t, f.sh.Execute(ctx, "discount"), "usage: discount")
	assert.ErrorIs(t, f.sh.Execute(ctx, "checkout"), modal.ErrIllegalTransition)
	assert.ErrorIs(t, f.sh.Execute(ctx, "quit"), errQuit)
	assert.NoError(t, f.sh.Execute(ctx, "   "))
}

func TestShellRunStopsOnQuit(t *testing.T) {
	f := newShellFixture(t)
	err := f.sh.Run(context.Background(), strings.NewReader("help\nquit\ncatalog\n"))
	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "Commands:")
	assert.Zero(t, f.backend.Calls("GET /product-catalogs/by-store/9"))
}
