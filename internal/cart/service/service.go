// Package service keeps the shopper's view of the cart in step with the
// backend: it fetches the authoritative summary, runs cart mutations, and
// applies discount codes.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"bazar/internal/cart/models"
	"bazar/internal/gateway"
	"bazar/internal/platform/metrics"
	id "bazar/pkg/domain"
	dErrors "bazar/pkg/domain-errors"
)

// CartAPI is the backend's cart surface.
type CartAPI interface {
	Summary(ctx context.Context) (models.Summary, error)
	CreateCart(ctx context.Context, productID id.ProductID, quantity int) (models.AddResult, error)
	AddItem(ctx context.Context, productID id.ProductID, quantity int) (models.AddResult, error)
	RemoveItem(ctx context.Context, productID id.ProductID) error
	Clear(ctx context.Context) error
	ApplyDiscount(ctx context.Context, code string) error
}

// ErrOperationInProgress is returned when a cart mutation is started while
// another one is still in flight. The second operation is dropped.
var ErrOperationInProgress = dErrors.New(dErrors.CodeConflict, "that action is already in progress")

// control names a user-facing cart control in metrics and logs.
type control int

const (
	controlAdd control = iota
	controlRemove
	controlDiscount
	controlClear
	controlCount
)

var controlNames = [controlCount]string{"add_item", "remove_item", "apply_discount", "clear_cart"}

// State is a snapshot of the cart as the shopper sees it.
type State struct {
	Summary models.Summary
	// Count and Total are what the cart badge and checkout button show.
	Count int
	Total float64

	Loading          bool
	ApplyingDiscount bool
	// Error describes the last failed fetch or mutation.
	Error string
	// DiscountError describes the last failed discount code, kept apart from
	// Error so a bad code never hides the cart.
	DiscountError string
}

// CheckoutLabel renders the checkout button, e.g. "Checkout (1) €19.99".
// Empty when the cart is empty.
func (s State) CheckoutLabel() string {
	if s.Count <= 0 {
		return ""
	}
	return fmt.Sprintf("Checkout (%d) %s", s.Count, models.FormatPrice(s.Total))
}

// Orchestrator owns the cart state. Safe for concurrent use.
type Orchestrator struct {
	api     CartAPI
	logger  *slog.Logger
	metrics *metrics.Metrics

	// mutating is held by the one add, remove, discount or clear in flight.
	mutating atomic.Bool
	closed   atomic.Bool

	mu       sync.RWMutex
	state    State
	fetchSeq uint64
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func New(api CartAPI, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:    api,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	cp := o.state
	cp.Summary = o.state.Summary.Clone()
	return cp
}

// Close tears the orchestrator down. Results of calls still in flight are
// discarded when they arrive.
func (o *Orchestrator) Close() {
	o.closed.Store(true)
}

// ClearError dismisses the cart error.
func (o *Orchestrator) ClearError() {
	o.update(func(s *State) { s.Error = "" })
}

// ClearDiscountError dismisses the discount error.
func (o *Orchestrator) ClearDiscountError() {
	o.update(func(s *State) { s.DiscountError = "" })
}

// Reset forgets the local cart, e.g. after sign-out.
func (o *Orchestrator) Reset() {
	o.update(func(s *State) { *s = State{} })
}

// FetchSummary replaces the summary with the server's. On failure the last
// line items stay visible while the count and total drop to zero and Error
// is set. A fetch that was overtaken by a newer one is discarded.
func (o *Orchestrator) FetchSummary(ctx context.Context) error {
	o.mu.Lock()
	o.fetchSeq++
	seq := o.fetchSeq
	if !o.closed.Load() {
		o.state.Loading = true
	}
	o.mu.Unlock()

	summary, err := o.api.Summary(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed.Load() || seq != o.fetchSeq {
		return err
	}
	o.state.Loading = false
	if err != nil {
		o.state.Count = 0
		o.state.Total = 0
		o.state.Error = gateway.UserMessage(err)
		o.logger.WarnContext(ctx, "cart summary fetch failed", "error", err)
		return err
	}
	o.state.Summary = summary.Clone()
	o.state.Count = summary.TotalItems
	o.state.Total = summary.TotalPrice
	o.state.Error = ""
	return nil
}

// AddItem adds quantity of a product. An empty cart has no backend resource
// yet, so the first item creates the cart and later items are added to it;
// exactly one of the two endpoints is called. The returned server count
// updates the badge only; callers refetch when they need line items.
func (o *Orchestrator) AddItem(ctx context.Context, productID id.ProductID, quantity int, isFirstItemInCart bool) (int, error) {
	if productID == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "product ID is required")
	}
	if quantity < 1 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "quantity must be at least 1")
	}
	if !o.acquire(controlAdd) {
		return 0, ErrOperationInProgress
	}
	defer o.release(controlAdd)

	var (
		res models.AddResult
		err error
	)
	if isFirstItemInCart {
		res, err = o.api.CreateCart(ctx, productID, quantity)
	} else {
		res, err = o.api.AddItem(ctx, productID, quantity)
	}
	if err != nil {
		o.recordFailure(ctx, controlAdd, err)
		return 0, dErrors.Wrap(err, dErrors.CodeCartMutationFailed, "could not add the item to your cart")
	}

	var count int
	o.update(func(s *State) {
		if res.CartSize > 0 {
			s.Count = res.CartSize
		} else {
			s.Count += quantity
		}
		s.Error = ""
		count = s.Count
	})
	o.metrics.IncrementCartOperation(controlNames[controlAdd], true)
	return count, nil
}

// RemoveItem removes a product and then refetches the summary.
func (o *Orchestrator) RemoveItem(ctx context.Context, productID id.ProductID) error {
	if productID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "product ID is required")
	}
	if !o.acquire(controlRemove) {
		return ErrOperationInProgress
	}
	defer o.release(controlRemove)

	if err := o.api.RemoveItem(ctx, productID); err != nil {
		o.recordFailure(ctx, controlRemove, err)
		return dErrors.Wrap(err, dErrors.CodeCartMutationFailed, "could not remove the item from your cart")
	}
	o.metrics.IncrementCartOperation(controlNames[controlRemove], true)
	return o.FetchSummary(ctx)
}

// ApplyDiscountCode applies a code and refetches the summary so the new
// total shows. Blank codes are rejected locally. Failures land in
// DiscountError and leave the total untouched.
func (o *Orchestrator) ApplyDiscountCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return dErrors.New(dErrors.CodeDiscountApplicationFailed, "please enter a discount code")
	}
	if !o.acquire(controlDiscount) {
		return ErrOperationInProgress
	}
	defer o.release(controlDiscount)

	o.update(func(s *State) {
		s.ApplyingDiscount = true
		s.DiscountError = ""
	})

	err := o.api.ApplyDiscount(ctx, code)
	var summary models.Summary
	if err == nil {
		summary, err = o.api.Summary(ctx)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed.Load() {
		return err
	}
	o.state.ApplyingDiscount = false
	if err != nil {
		o.state.DiscountError = gateway.UserMessage(err)
		o.metrics.IncrementCartOperation(controlNames[controlDiscount], false)
		o.logger.InfoContext(ctx, "discount code rejected", "error", err)
		return dErrors.Wrap(err, dErrors.CodeDiscountApplicationFailed, "the discount code could not be applied")
	}
	o.fetchSeq++
	o.state.Loading = false
	o.state.Summary = summary.Clone()
	o.state.Count = summary.TotalItems
	o.state.Total = summary.TotalPrice
	o.state.DiscountError = ""
	o.metrics.IncrementCartOperation(controlNames[controlDiscount], true)
	return nil
}

// ClearCart empties the cart. Local state is reset only once the backend
// confirms.
func (o *Orchestrator) ClearCart(ctx context.Context) error {
	if !o.acquire(controlClear) {
		return ErrOperationInProgress
	}
	defer o.release(controlClear)

	if err := o.api.Clear(ctx); err != nil {
		o.recordFailure(ctx, controlClear, err)
		return dErrors.Wrap(err, dErrors.CodeCartMutationFailed, "could not clear your cart")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed.Load() {
		return nil
	}
	o.fetchSeq++
	o.state = State{}
	o.metrics.IncrementCartOperation(controlNames[controlClear], true)
	return nil
}

// acquire takes the cart-wide mutation slot. Mutations on one cart are never
// issued concurrently; a caller that finds the slot taken is dropped.
func (o *Orchestrator) acquire(c control) bool {
	if o.mutating.CompareAndSwap(false, true) {
		return true
	}
	o.metrics.IncrementDropped(controlNames[c])
	return false
}

func (o *Orchestrator) release(control) {
	o.mutating.Store(false)
}

// update applies fn to the state unless the orchestrator was closed.
func (o *Orchestrator) update(fn func(*State)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed.Load() {
		return
	}
	fn(&o.state)
}

func (o *Orchestrator) recordFailure(ctx context.Context, c control, err error) {
	o.update(func(s *State) { s.Error = gateway.UserMessage(err) })
	o.metrics.IncrementCartOperation(controlNames[c], false)
	o.logger.WarnContext(ctx, "cart operation failed", "operation", controlNames[c], "error", err)
}
