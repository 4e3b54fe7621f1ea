package adapters

import (
	"context"
	"net/http"
	"net/url"

	"bazar/internal/cart/models"
	"bazar/internal/gateway"
	id "bazar/pkg/domain"
)

type caller interface {
	CallAuthenticated(ctx context.Context, req gateway.Request) (*gateway.Response, error)
}

// Backend adapts the backend's /shop cart endpoints. Every call is authenticated.
type Backend struct {
	gw caller
}

func NewBackend(gw caller) *Backend {
	return &Backend{gw: gw}
}

type itemRequest struct {
	ProductID id.ProductID `json:"productId"`
	Quantity  int          `json:"quantity"`
}

func (b *Backend) Summary(ctx context.Context) (models.Summary, error) {
	resp, err := b.gw.CallAuthenticated(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   "/shop/cart/summary",
	})
	if err != nil {
		return models.Summary{}, err
	}
	return gateway.DecodeData[models.Summary](resp)
}

// CreateCart creates the cart resource with its first item. The backend has
// no cart until the first item is added.
func (b *Backend) CreateCart(ctx context.Context, productID id.ProductID, quantity int) (models.AddResult, error) {
	return b.add(ctx, "/shop/cart", productID, quantity)
}

// AddItem adds to an existing cart.
func (b *Backend) AddItem(ctx context.Context, productID id.ProductID, quantity int) (models.AddResult, error) {
	return b.add(ctx, "/shop/cart/item", productID, quantity)
}

func (b *Backend) add(ctx context.Context, path string, productID id.ProductID, quantity int) (models.AddResult, error) {
	resp, err := b.gw.CallAuthenticated(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   itemRequest{ProductID: productID, Quantity: quantity},
	})
	if err != nil {
		return models.AddResult{}, err
	}
	return gateway.DecodeData[models.AddResult](resp)
}

func (b *Backend) RemoveItem(ctx context.Context, productID id.ProductID) error {
	_, err := b.gw.CallAuthenticated(ctx, gateway.Request{
		Method: http.MethodDelete,
		Path:   "/shop/cart/item/" + url.PathEscape(productID.String()),
		Route:  "/shop/cart/item/{productId}",
	})
	return err
}

func (b *Backend) Clear(ctx context.Context) error {
	_, err := b.gw.CallAuthenticated(ctx, gateway.Request{
		Method: http.MethodDelete,
		Path:   "/shop/cart",
	})
	return err
}

func (b *Backend) ApplyDiscount(ctx context.Context, code string) error {
	_, err := b.gw.CallAuthenticated(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/shop/applyDiscountByCode/" + url.PathEscape(code),
		Route:  "/shop/applyDiscountByCode/{code}",
	})
	return err
}
