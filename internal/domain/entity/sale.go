package entity

import (
	"strings"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Tender is the payment entry compared against the sale total.
type Tender struct {
	AmountPaid string           `json:"amount_paid"`
	Paid       decimal.Decimal  `json:"paid"`
	AmountDue  decimal.Decimal  `json:"amount_due"`
	State      enum.TenderState `json:"state"`
	Change     decimal.Decimal  `json:"change"`
	Due        decimal.Decimal  `json:"due"`
}

// ParseAmount parses a cashier-entered amount. An empty entry is zero;
// negative or malformed amounts are rejected.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.NewWarning("Amount must be a number")
	}
	if d.IsNegative() {
		return decimal.Zero, apperror.NewWarning("Amount cannot be negative")
	}
	return d, nil
}

// ComputeTender derives amount due, change and due from the raw amount
// paid. amountDue = total - paid and may be negative; Change is set only
// when paid > total and Due only when paid < total.
func ComputeTender(total decimal.Decimal, rawPaid string) (Tender, error) {
	paid, err := ParseAmount(rawPaid)
	if err != nil {
		return Tender{}, err
	}
	t := Tender{
		AmountPaid: rawPaid,
		Paid:       paid,
		AmountDue:  total.Sub(paid),
		Change:     decimal.Zero,
		Due:        decimal.Zero,
	}
	switch paid.Cmp(total) {
	case 1:
		t.State = enum.TenderChange
		t.Change = paid.Sub(total)
	case -1:
		t.State = enum.TenderDue
		t.Due = total.Sub(paid)
	default:
		t.State = enum.TenderSettled
	}
	return t, nil
}

// Sale is the immutable record of a submitted checkout, built from the cart
// snapshot once the backend has accepted it.
type Sale struct {
	ID            string          `json:"id"`
	ReceiptNumber string          `json:"receipt_number"`
	Items         []SaleItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	Customer      *Customer       `json:"customer,omitempty"`
	PaymentMethod *PaymentMethod  `json:"payment_method,omitempty"`
	RegisterID    string          `json:"register_id"`
	RegisterTitle string          `json:"register_title"`
	SessionID     string          `json:"session_id"`
	OperatorID    string          `json:"operator_id,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Change returns amountPaid - total when the customer overpaid, else zero
func (s *Sale) Change() decimal.Decimal {
	if s.AmountPaid.GreaterThan(s.Total) {
		return s.AmountPaid.Sub(s.Total)
	}
	return decimal.Zero
}

// Outstanding returns total - amountPaid when underpaid, else zero
func (s *Sale) Outstanding() decimal.Decimal {
	if s.AmountDue.IsPositive() {
		return s.AmountDue
	}
	return decimal.Zero
}
