package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptHeader holds the store/business header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	SKU       string          `json:"sku,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// ReceiptCustomer is the optional customer block
type ReceiptCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Receipt is the printable view of a completed sale. It is composed from
// the Sale and never mutated.
type Receipt struct {
	Header         ReceiptHeader    `json:"header"`
	ReceiptNumber  string           `json:"receipt_number"`
	SaleID         string           `json:"sale_id"`
	IssuedAt       time.Time        `json:"issued_at"`
	RegisterTitle  string           `json:"register_title,omitempty"`
	SessionID      string           `json:"session_id,omitempty"`
	Cashier        string           `json:"cashier,omitempty"`
	Customer       *ReceiptCustomer `json:"customer,omitempty"`
	PaymentType    string           `json:"payment_type,omitempty"`
	CurrencySymbol string           `json:"currency_symbol"`
	Items          []ReceiptItem    `json:"items"`
	SubTotal       decimal.Decimal  `json:"sub_total"`
	TaxRate        decimal.Decimal  `json:"tax_rate"`
	Tax            decimal.Decimal  `json:"tax"`
	Total          decimal.Decimal  `json:"total"`
	Paid           decimal.Decimal  `json:"paid"`
	Due            decimal.Decimal  `json:"due"`
	Change         decimal.Decimal  `json:"change"`
}

// NewReceipt composes a receipt from a completed sale
func NewReceipt(sale *Sale, header ReceiptHeader, currencySymbol string) *Receipt {
	r := &Receipt{
		Header:         header,
		ReceiptNumber:  sale.ReceiptNumber,
		SaleID:         sale.ID,
		IssuedAt:       sale.Timestamp,
		RegisterTitle:  sale.RegisterTitle,
		SessionID:      sale.SessionID,
		Cashier:        sale.OperatorID,
		CurrencySymbol: currencySymbol,
		Items:          make([]ReceiptItem, 0, len(sale.Items)),
		SubTotal:       sale.Subtotal,
		TaxRate:        sale.TaxRate,
		Tax:            sale.TaxAmount,
		Total:          sale.Total,
		Paid:           sale.AmountPaid,
		Due:            sale.Outstanding(),
		Change:         sale.Change(),
	}
	if sale.PaymentMethod != nil {
		r.PaymentType = sale.PaymentMethod.Name
	}
	if sale.Customer != nil {
		r.Customer = &ReceiptCustomer{
			Name:  sale.Customer.Name,
			Email: sale.Customer.Email,
			Phone: sale.Customer.Phone,
		}
	}
	for _, item := range sale.Items {
		r.Items = append(r.Items, ReceiptItem{
			Name:      item.Name,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.DiscountAmount,
			Total:     item.Total(),
		})
	}
	return r
}
