// Package modal sequences the storefront's overlays: product detail, order
// summary, and checkout. At most one is open at a time.
package modal

//go:generate mockgen -source=sequencer.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"sync"

	"bazar/internal/catalog/models"
	dErrors "bazar/pkg/domain-errors"
)

// Kind names the open overlay.
type Kind int

const (
	None Kind = iota
	ProductDetail
	OrderSummary
	Checkout
)

func (k Kind) String() string {
	switch k {
	case ProductDetail:
		return "product_detail"
	case OrderSummary:
		return "order_summary"
	case Checkout:
		return "checkout"
	default:
		return "none"
	}
}

// ErrIllegalTransition is returned for a transition the current overlay does not allow.
var ErrIllegalTransition = dErrors.New(dErrors.CodeIllegalTransition, "that step is not available right now")

// SummaryRefresher reloads the cart summary.
type SummaryRefresher interface {
	FetchSummary(ctx context.Context) error
}

// State is the open overlay and, for product detail, the selected product.
type State struct {
	Kind    Kind
	Product *models.Product
}

// Sequencer owns the overlay state. Safe for concurrent use.
type Sequencer struct {
	cart   SummaryRefresher
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// Option configures a Sequencer.
type Option func(*Sequencer)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequencer) {
		s.logger = logger
	}
}

func New(cart SummaryRefresher, opts ...Option) *Sequencer {
	s := &Sequencer{
		cart:   cart,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// State returns the current overlay.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SelectProduct opens the detail overlay for product, replacing whatever is open.
func (s *Sequencer) SelectProduct(product models.Product) {
	s.set(State{Kind: ProductDetail, Product: &product})
}

// CloseProductDetail closes the detail overlay. No-op from any other overlay.
func (s *Sequencer) CloseProductDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Kind == ProductDetail {
		s.state = State{}
	}
}

// OpenOrderSummary shows the order summary and refreshes the cart so it
// reflects the server.
func (s *Sequencer) OpenOrderSummary(ctx context.Context) {
	s.set(State{Kind: OrderSummary})
	s.refresh(ctx)
}

// ProceedToCheckout moves from the order summary to checkout.
func (s *Sequencer) ProceedToCheckout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Kind != OrderSummary {
		return ErrIllegalTransition
	}
	s.state = State{Kind: Checkout}
	return nil
}

// CloseOrderSummary closes the order summary and refreshes the cart. No-op
// from any other overlay.
func (s *Sequencer) CloseOrderSummary(ctx context.Context) {
	s.mu.Lock()
	wasSummary := s.state.Kind == OrderSummary
	if wasSummary {
		s.state = State{}
	}
	s.mu.Unlock()
	if wasSummary {
		s.refresh(ctx)
	}
}

// CloseCheckout closes checkout and refreshes the cart, which the backend may
// have changed while paying.
func (s *Sequencer) CloseCheckout(ctx context.Context) {
	s.mu.Lock()
	wasCheckout := s.state.Kind == Checkout
	if wasCheckout {
		s.state = State{}
	}
	s.mu.Unlock()
	if wasCheckout {
		s.refresh(ctx)
	}
}

// Close dismisses any overlay. Leaving the order summary or checkout refreshes the cart.
func (s *Sequencer) Close(ctx context.Context) {
	s.mu.Lock()
	prev := s.state.Kind
	s.state = State{}
	s.mu.Unlock()
	if prev == OrderSummary || prev == Checkout {
		s.refresh(ctx)
	}
}

// Dismiss closes any overlay without touching the cart, e.g. on sign-out.
func (s *Sequencer) Dismiss() {
	s.set(State{})
}

func (s *Sequencer) set(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// refresh errors are only logged; the cart keeps its own error marker.
func (s *Sequencer) refresh(ctx context.Context) {
	if s.cart == nil {
		return
	}
	if err := s.cart.FetchSummary(ctx); err != nil {
		s.logger.WarnContext(ctx, "cart refresh after overlay change failed", "error", err)
	}
}
