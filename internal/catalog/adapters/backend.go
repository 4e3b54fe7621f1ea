package adapters

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"bazar/internal/catalog/models"
	"bazar/internal/gateway"
	id "bazar/pkg/domain"
)

type caller interface {
	CallPublic(ctx context.Context, req gateway.Request) (*gateway.Response, error)
}

// Backend adapts the public catalog endpoints.
type Backend struct {
	gw caller
}

func NewBackend(gw caller) *Backend {
	return &Backend{gw: gw}
}

// ListByStore returns the catalog of one store.
func (b *Backend) ListByStore(ctx context.Context, storeID int) ([]models.Product, error) {
	resp, err := b.gw.CallPublic(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   "/product-catalogs/by-store/" + strconv.Itoa(storeID),
		Route:  "/product-catalogs/by-store/{storeId}",
	})
	if err != nil {
		return nil, err
	}
	return gateway.DecodeData[[]models.Product](resp)
}

// Product returns a single product record.
func (b *Backend) Product(ctx context.Context, productID id.ProductID) (models.Details, error) {
	resp, err := b.gw.CallPublic(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   "/products/" + url.PathEscape(productID.String()),
		Route:  "/products/{productId}",
	})
	if err != nil {
		return models.Details{}, err
	}
	return gateway.DecodeData[models.Details](resp)
}
