package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is the read-only catalog snapshot the cart checks stock against.
// StockQuantity is the available-to-sell count reported by the backend.
type Product struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	StockQuantity int             `json:"stock_quantity"`
	SKU           string          `json:"sku"`
	Barcode       string          `json:"barcode,omitempty"`
	Category      string          `json:"category"`
	Image         string          `json:"image,omitempty"`
}

// Category represents a product category
type Category struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Parent *string `json:"parent"`
}

// ProductFilter narrows the catalog shown on the selling screen
type ProductFilter struct {
	Category string
	Search   string
}

// Matches applies the category and title/SKU search filter. An empty or
// "all" category matches every product.
func (f ProductFilter) Matches(p Product) bool {
	if f.Category != "" && f.Category != "all" && p.Category != f.Category {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.SKU), term) ||
		(p.Barcode != "" && p.Barcode == f.Search)
}

// FilterProducts returns the products matching the filter, in catalog order
func FilterProducts(products []Product, f ProductFilter) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
