package models

import (
	"fmt"

	id "bazar/pkg/domain"
)

// Details is the backend's product record.
type Details struct {
	ProductID   id.ProductID `json:"productId"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Stock       int          `json:"stock"`
	StoreID     int          `json:"storeId"`
}

// Image is one catalog picture of a product.
type Image struct {
	ProductCatalogID int    `json:"productCatalogId"`
	URL              string `json:"productImageUrl"`
}

// Product is a catalog entry: the product plus its pictures.
type Product struct {
	Details Details `json:"productResponseDto"`
	Images  []Image `json:"catalogResourceUrlSet"`
}

// lowStockThreshold is the stock level below which a product shows "Only N left".
const lowStockThreshold = 10

func (p Product) ID() id.ProductID {
	return p.Details.ProductID
}

// InStock reports whether any units are left.
func (p Product) InStock() bool {
	return p.Details.Stock > 0
}

// StockNote is the shopper-facing stock hint, empty when stock is plentiful.
func (p Product) StockNote() string {
	switch {
	case p.Details.Stock <= 0:
		return "Out of stock"
	case p.Details.Stock < lowStockThreshold:
		return fmt.Sprintf("Only %d left", p.Details.Stock)
	default:
		return ""
	}
}

// FormatPrice renders the product price, e.g. "€999.00".
func (p Product) FormatPrice() string {
	return fmt.Sprintf("€%.2f", p.Details.Price)
}
