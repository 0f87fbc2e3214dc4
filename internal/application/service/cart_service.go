package service

import (
	"context"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/shopspring/decimal"
)

// CartService applies cashier edits to a workstation's cart. Stock checks
// use the workstation's catalog snapshot; the backend re-checks stock when
// the sale is submitted.
type CartService struct {
	catalog *CatalogService
	taxRate decimal.Decimal
}

// NewCartService creates a new cart service
func NewCartService(catalog *CatalogService, taxRate decimal.Decimal) *CartService {
	return &CartService{catalog: catalog, taxRate: taxRate}
}

// TaxRate returns the configured tax rate
func (s *CartService) TaxRate() decimal.Decimal {
	return s.taxRate
}

// Add puts one unit of a product in the cart. Requires an open session.
func (s *CartService) Add(ctx context.Context, ws *Workstation, productID string) (*entity.SaleItem, error) {
	if !ws.Session.IsOpen() {
		return nil, apperror.ErrNoActiveSession
	}
	catalog, err := s.catalog.Ensure(ctx, ws)
	if err != nil {
		return nil, err
	}
	product, ok := catalog.Product(productID)
	if !ok {
		return nil, apperror.NewNotFoundError("Product")
	}
	item, err := ws.Cart.Add(*product)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateQuantity sets a line's quantity; zero or less removes it. The cap
// is checked against the catalog snapshot, reloaded if it was dropped.
func (s *CartService) UpdateQuantity(ctx context.Context, ws *Workstation, itemID string, qty int) error {
	if qty <= 0 {
		return ws.Cart.UpdateQuantity(itemID, qty, nil)
	}
	catalog, err := s.catalog.Ensure(ctx, ws)
	if err != nil {
		return err
	}
	return ws.Cart.UpdateQuantity(itemID, qty, catalog.Stock)
}

// UpdatePrice overrides a line's unit price
func (s *CartService) UpdatePrice(ws *Workstation, itemID string, price decimal.Decimal) error {
	if price.IsNegative() {
		return apperror.NewWarning("Price cannot be negative")
	}
	return ws.Cart.UpdatePrice(itemID, price)
}

// Remove deletes a line
func (s *CartService) Remove(ws *Workstation, itemID string) error {
	return ws.Cart.Remove(itemID)
}

// Clear empties the cart and resets customer and payment entry
func (s *CartService) Clear(ws *Workstation) {
	ws.ClearCart()
}

// Totals derives subtotal, tax and total from the current cart
func (s *CartService) Totals(ws *Workstation) entity.Totals {
	return ws.Cart.Totals(s.taxRate)
}
