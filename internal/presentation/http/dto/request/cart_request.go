package request

import "github.com/shopspring/decimal"

// AddItemRequest adds one unit of a product
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// UpdateQuantityRequest sets a line quantity; zero or less removes the line
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// UpdatePriceRequest overrides a line's unit price
type UpdatePriceRequest struct {
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"required"`
}

// SelectCustomerRequest attaches a customer; an empty id detaches
type SelectCustomerRequest struct {
	CustomerID string `json:"customer_id"`
}
