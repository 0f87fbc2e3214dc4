package entity

import (
	"encoding/json"

	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/shopspring/decimal"
)

// SaleItem is one line of the in-memory cart. It never leaves the terminal
// except as part of a sale submission.
type SaleItem struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// Total is unitPrice*quantity - discountAmount
func (i SaleItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Sub(i.DiscountAmount)
}

// MarshalJSON adds the derived line total
func (i SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		Total decimal.Decimal `json:"total"`
	}{
		Alias: Alias(i),
		Total: i.Total(),
	})
}

// StockLookup reports the available stock for a product. known is false
// when the product is not in the current catalog snapshot.
type StockLookup func(productID string) (stock int, known bool)

// Totals are derived from the cart on every read and never stored.
type Totals struct {
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// Cart is an ordered list of sale items with at most one line per product.
// Insertion order is display order. A Cart is not safe for concurrent use;
// its owner serializes access.
type Cart struct {
	items []SaleItem
	newID func() string
}

// NewCart creates an empty cart. newID generates client-side line ids.
func NewCart(newID func() string) *Cart {
	return &Cart{newID: newID}
}

// Items returns a copy of the cart lines in display order
func (c *Cart) Items() []SaleItem {
	out := make([]SaleItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of lines
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// QuantityOf returns the quantity already in the cart for a product
func (c *Cart) QuantityOf(productID string) int {
	if i := c.indexByProduct(productID); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

// Add puts one unit of the product in the cart. An existing line for the
// product is incremented instead of adding a second row. Adding fails when
// the quantity already in the cart has reached the product's stock.
func (c *Cart) Add(p Product) (SaleItem, error) {
	inCart := c.QuantityOf(p.ID)
	if p.StockQuantity <= inCart {
		return SaleItem{}, apperror.NewOutOfStockError(p.StockQuantity)
	}

	if i := c.indexByProduct(p.ID); i >= 0 {
		c.items[i].Quantity++
		return c.items[i], nil
	}

	item := SaleItem{
		ID:             c.newID(),
		ProductID:      p.ID,
		Name:           p.Title,
		SKU:            p.SKU,
		Quantity:       1,
		UnitPrice:      p.Price,
		DiscountAmount: decimal.Zero,
	}
	c.items = append(c.items, item)
	return item, nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. A quantity above the product's stock is rejected and
// the line keeps its previous quantity. Products missing from the stock
// lookup are not capped.
func (c *Cart) UpdateQuantity(itemID string, qty int, stock StockLookup) error {
	i := c.indexByID(itemID)
	if i < 0 {
		return apperror.NewNotFoundError("Cart item")
	}
	if qty <= 0 {
		c.removeAt(i)
		return nil
	}
	if stock != nil {
		if available, known := stock(c.items[i].ProductID); known && qty > available {
			return apperror.NewInsufficientStockError(available)
		}
	}
	c.items[i].Quantity = qty
	return nil
}

// UpdatePrice overrides the unit price of a line
func (c *Cart) UpdatePrice(itemID string, price decimal.Decimal) error {
	i := c.indexByID(itemID)
	if i < 0 {
		return apperror.NewNotFoundError("Cart item")
	}
	c.items[i].UnitPrice = price
	return nil
}

// Remove deletes a line
func (c *Cart) Remove(itemID string) error {
	i := c.indexByID(itemID)
	if i < 0 {
		return apperror.NewNotFoundError("Cart item")
	}
	c.removeAt(i)
	return nil
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.items = nil
}

// Totals computes subtotal, tax and total. No rounding is applied here;
// callers round when rendering.
func (c *Cart) Totals(taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, item := range c.items {
		subtotal = subtotal.Add(item.Total())
		count += item.Quantity
	}
	tax := subtotal.Mul(taxRate)
	return Totals{
		ItemCount: count,
		Subtotal:  subtotal,
		TaxRate:   taxRate,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

func (c *Cart) indexByID(itemID string) int {
	for i := range c.items {
		if c.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) indexByProduct(productID string) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}
