package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"bazar/internal/gateway"
	dErrors "bazar/pkg/domain-errors"
)

type caller interface {
	CallAuthenticated(ctx context.Context, req gateway.Request) (*gateway.Response, error)
}

// Backend adapts the backend's order endpoints.
type Backend struct {
	gw caller
}

func NewBackend(gw caller) *Backend {
	return &Backend{gw: gw}
}

// checkoutLink accepts the link objects the backend has been seen to return.
type checkoutLink struct {
	CheckoutURL string `json:"checkoutUrl"`
	URL         string `json:"url"`
	Link        string `json:"link"`
}

// CheckoutLink asks the backend for a payment page for the current cart.
func (b *Backend) CheckoutLink(ctx context.Context) (string, error) {
	resp, err := b.gw.CallAuthenticated(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   "/orders/checkout/link",
	})
	if err != nil {
		return "", err
	}
	link, err := parseCheckoutLink(resp)
	if err != nil {
		return "", err
	}
	return link, nil
}

func parseCheckoutLink(resp *gateway.Response) (string, error) {
	src := resp.Data
	if len(src) == 0 {
		src = resp.Raw
	}
	var bare string
	if err := json.Unmarshal(src, &bare); err == nil && strings.TrimSpace(bare) != "" {
		return strings.TrimSpace(bare), nil
	}
	var obj checkoutLink
	if err := json.Unmarshal(src, &obj); err == nil {
		for _, candidate := range []string{obj.CheckoutURL, obj.URL, obj.Link} {
			if c := strings.TrimSpace(candidate); c != "" {
				return c, nil
			}
		}
	}
	return "", dErrors.New(dErrors.CodeInternal, "the store did not return a checkout link")
}
