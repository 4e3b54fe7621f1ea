package models

import (
	"fmt"

	id "bazar/pkg/domain"
)

// LineItem is one product row of the cart as priced by the backend.
type LineItem struct {
	ProductID          id.ProductID `json:"productId"`
	ProductName        string       `json:"productName"`
	ProductDescription string       `json:"productDescription,omitempty"`
	UnitPrice          float64      `json:"unitPrice"`
	Quantity           int          `json:"quantity"`
	DiscountPerUnit    float64      `json:"discountPerUnit,omitempty"`
}

// Summary is the server's authoritative view of the cart. It is replaced
// wholesale on every fetch and never merged.
type Summary struct {
	Items      []LineItem `json:"cartItems"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

// Clone returns a copy that shares no slice with s.
func (s Summary) Clone() Summary {
	cp := s
	if s.Items != nil {
		cp.Items = append([]LineItem(nil), s.Items...)
	}
	return cp
}

// AddResult is the backend's reply to a create-cart or add-item call.
type AddResult struct {
	CartSize int `json:"cartSize"`
}

// FormatPrice renders a backend amount for display. Amounts are relayed, never computed.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("€%.2f", amount)
}
