// Package storefront ties sign-in, catalog, cart, overlays, and checkout
// into the shopper-facing flows: starting up, adding to cart, and paying.
package storefront

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	cartService "bazar/internal/cart/service"
	catalogModels "bazar/internal/catalog/models"
	"bazar/internal/modal"
	orderModels "bazar/internal/order/models"
	id "bazar/pkg/domain"
	dErrors "bazar/pkg/domain-errors"
)

// CatalogPath is where a shopper returns after signing in to add to cart.
const CatalogPath = "/catalog"

// ErrSignInRequired is returned when an action needs a session. Sign-in has
// already been started when it is returned.
var ErrSignInRequired = dErrors.New(dErrors.CodeAuthenticationRequired, "please sign in to continue")

type Auth interface {
	CheckAuth(ctx context.Context) bool
	IsAuthenticated(ctx context.Context) bool
	Login(ctx context.Context, postLoginPath string) error
	HandleCallback(ctx context.Context, code, state string) (string, error)
	Logout(ctx context.Context) error
}

type Cart interface {
	FetchSummary(ctx context.Context) error
	AddItem(ctx context.Context, productID id.ProductID, quantity int, isFirstItemInCart bool) (int, error)
	Snapshot() cartService.State
	Reset()
}

type Catalog interface {
	Load(ctx context.Context) ([]catalogModels.Product, error)
}

type Modals interface {
	State() modal.State
	OpenOrderSummary(ctx context.Context)
	ProceedToCheckout() error
	Close(ctx context.Context)
	Dismiss()
}

type Orders interface {
	CheckoutLink(ctx context.Context) (string, error)
}

// Navigator sends the shopper to an external page.
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// Storefront is safe for concurrent use to the extent its parts are.
type Storefront struct {
	auth      Auth
	cart      Cart
	catalog   Catalog
	modals    Modals
	orders    Orders
	navigator Navigator
	logger    *slog.Logger
}

// Option configures a Storefront.
type Option func(*Storefront)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Storefront) {
		s.logger = logger
	}
}

func New(auth Auth, cart Cart, catalog Catalog, modals Modals, orders Orders, navigator Navigator, opts ...Option) *Storefront {
	s := &Storefront{
		auth:      auth,
		cart:      cart,
		catalog:   catalog,
		modals:    modals,
		orders:    orders,
		navigator: navigator,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Start restores any session and loads the catalog in parallel, then loads
// the cart for a signed-in shopper. Only a catalog failure is returned.
func (s *Storefront) Start(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		if s.auth.CheckAuth(ctx) {
			s.logger.DebugContext(ctx, "session restored")
		}
		return nil
	})
	g.Go(func() error {
		_, err := s.catalog.Load(ctx)
		return err
	})
	catalogErr := g.Wait()

	if s.auth.IsAuthenticated(ctx) {
		if err := s.cart.FetchSummary(ctx); err != nil {
			s.logger.WarnContext(ctx, "initial cart load failed", "error", err)
		}
	}
	return catalogErr
}

// CompleteSignIn finishes the redirect sign-in and loads the shopper's cart.
// It returns the path to show next.
func (s *Storefront) CompleteSignIn(ctx context.Context, code, state string) (string, error) {
	path, err := s.auth.HandleCallback(ctx, code, state)
	if err != nil {
		return "", err
	}
	if err := s.cart.FetchSummary(ctx); err != nil {
		s.logger.WarnContext(ctx, "cart load after sign-in failed", "error", err)
	}
	return path, nil
}

// SignOut forgets the session and the local cart.
func (s *Storefront) SignOut(ctx context.Context) error {
	s.modals.Dismiss()
	s.cart.Reset()
	return s.auth.Logout(ctx)
}

// AddToCart adds a product and opens the order summary. An anonymous shopper
// is sent to sign in instead and gets ErrSignInRequired.
func (s *Storefront) AddToCart(ctx context.Context, productID id.ProductID, quantity int) (int, error) {
	if !s.auth.IsAuthenticated(ctx) {
		return 0, s.promptSignIn(ctx)
	}

	isFirstItemInCart := s.cart.Snapshot().Count == 0
	count, err := s.cart.AddItem(ctx, productID, quantity, isFirstItemInCart)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeAuthenticationRequired) {
			return 0, s.promptSignIn(ctx)
		}
		return 0, err
	}
	s.modals.OpenOrderSummary(ctx)
	return count, nil
}

// ProceedToCheckout moves from the order summary to checkout.
func (s *Storefront) ProceedToCheckout() error {
	return s.modals.ProceedToCheckout()
}

// PlaceOrder fetches a payment page for the cart and sends the shopper there.
func (s *Storefront) PlaceOrder(ctx context.Context) (string, error) {
	link, err := s.orders.CheckoutLink(ctx)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeAuthenticationRequired) {
			return "", s.promptSignIn(ctx)
		}
		return "", err
	}
	if err := s.navigator.Navigate(ctx, link); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not open the payment page")
	}
	s.logger.InfoContext(ctx, "checkout started")
	return link, nil
}

// PaymentReturned closes the checkout flow once the payment provider sends
// the shopper back, and refreshes the cart the backend may have emptied.
func (s *Storefront) PaymentReturned(ctx context.Context, outcome orderModels.Outcome) {
	s.logger.InfoContext(ctx, "payment finished", "result", outcome.Result, "order_id", outcome.OrderID)
	prev := s.modals.State().Kind
	s.modals.Close(ctx)
	if prev == modal.OrderSummary || prev == modal.Checkout {
		return
	}
	if !s.auth.IsAuthenticated(ctx) {
		return
	}
	if err := s.cart.FetchSummary(ctx); err != nil {
		s.logger.WarnContext(ctx, "cart refresh after payment failed", "error", err)
	}
}

// CheckoutLabel renders the checkout button, empty for an empty cart.
func (s *Storefront) CheckoutLabel() string {
	return s.cart.Snapshot().CheckoutLabel()
}

func (s *Storefront) promptSignIn(ctx context.Context) error {
	if err := s.auth.Login(ctx, CatalogPath); err != nil {
		return err
	}
	return ErrSignInRequired
}
