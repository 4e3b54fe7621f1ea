package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authAdapters "bazar/internal/auth/adapters"
	authService "bazar/internal/auth/service"
	"bazar/internal/auth/store/token"
	cartAdapters "bazar/internal/cart/adapters"
	cartService "bazar/internal/cart/service"
	catalogAdapters "bazar/internal/catalog/adapters"
	catalogService "bazar/internal/catalog/service"
	"bazar/internal/gateway"
	"bazar/internal/modal"
	orderAdapters "bazar/internal/order/adapters"
	"bazar/internal/platform/config"
	"bazar/internal/platform/httpserver"
	"bazar/internal/platform/logger"
	"bazar/internal/platform/metrics"
	"bazar/internal/platform/middleware"
	redisClient "bazar/internal/platform/redis"
	"bazar/internal/storefront"
	httptransport "bazar/internal/transport/http"
	id "bazar/pkg/domain"
)

// main wires the storefront, starts the redirect listener, and hands the
// terminal to the shell until it exits or the process is interrupted.
func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("storefront stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	tokens, rdb, err := buildTokenStore(ctx, cfg.Redis, m, log)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	gw, err := gateway.New(cfg.API.BaseURL, tokens, gateway.WithLogger(log), gateway.WithMetrics(m))
	if err != nil {
		return err
	}

	a := newApp(cfg, gw, tokens, &printNavigator{out: os.Stdout}, m, log)
	defer a.cart.Close()

	var checks []httptransport.HealthChecker
	if rdb != nil {
		checks = append(checks, rdb)
	}
	handler := httptransport.New(a.shop, log, checks...)
	limiter := middleware.RateLimit(middleware.RateLimitConfig{
		Requests: cfg.Server.CallbackRateLimit,
		Window:   time.Minute,
		Logger:   log,
	})
	router := httptransport.NewRouter(handler, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), limiter)
	srv := httpserver.New(cfg.Server.Addr, router)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("redirect listener started", "addr", cfg.Server.Addr, "callback_uri", cfg.Auth.CallbackURI)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if err := a.shop.Start(ctx); err != nil {
		log.Warn("catalog unavailable at startup", "error", err)
	}

	sh := newShell(a, os.Stdout)
	shellDone := make(chan error, 1)
	go func() { shellDone <- sh.Run(ctx, os.Stdin) }()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-shellDone:
	case err, ok := <-serveErr:
		if ok {
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	return runErr
}

// app is the assembled storefront.
type app struct {
	auth    *authService.Manager
	cart    *cartService.Orchestrator
	catalog *catalogService.Service
	modals  *modal.Sequencer
	shop    *storefront.Storefront
}

func newApp(cfg config.Config, gw *gateway.Gateway, tokens authService.TokenStore, nav storefront.Navigator, m *metrics.Metrics, log *slog.Logger) *app {
	auth := authService.New(tokens, authAdapters.NewBackend(gw), nav, authService.Config{
		CallbackURI:          cfg.Auth.CallbackURI,
		DefaultPostLoginPath: cfg.Auth.DefaultPostLoginPath,
		HandshakeTTL:         cfg.Auth.HandshakeTTL,
	}, authService.WithLogger(log), authService.WithMetrics(m))
	gw.SetRefresher(auth)

	cart := cartService.New(cartAdapters.NewBackend(gw), cartService.WithLogger(log), cartService.WithMetrics(m))
	modals := modal.New(cart, modal.WithLogger(log))
	catalog := catalogService.New(catalogAdapters.NewBackend(gw), cfg.API.StoreID, catalogService.WithLogger(log))
	shop := storefront.New(auth, cart, catalog, modals, orderAdapters.NewBackend(gw), nav, storefront.WithLogger(log))

	return &app{auth: auth, cart: cart, catalog: catalog, modals: modals, shop: shop}
}

// buildTokenStore keeps tokens in Redis when REDIS_URL is set, otherwise in
// process memory for the life of the shell.
func buildTokenStore(ctx context.Context, cfg config.RedisConfig, m *metrics.Metrics, log *slog.Logger) (authService.TokenStore, *redisClient.Client, error) {
	rdb, err := redisClient.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if rdb == nil {
		return token.NewInMemoryStore(token.WithMetrics(m)), nil, nil
	}

	sessionID := id.NewSessionID()
	if cfg.SessionID != "" {
		if sessionID, err = id.ParseSessionID(cfg.SessionID); err != nil {
			rdb.Close()
			return nil, nil, err
		}
	}
	store := token.NewRedisStore(rdb.Client, sessionID, cfg.SessionTTL, token.WithMetrics(m))
	log.Info("tokens stored in redis", "session_id", store.SessionID().String())
	return store, rdb, nil
}
