package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleJournalEntry is the terminal's local record of a completed sale. The
// backend stays the source of truth; the journal serves reprints and the
// per-session export.
type SaleJournalEntry struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID        string          `gorm:"size:100;index" json:"sale_id"`
	ReceiptNumber string          `gorm:"size:100;uniqueIndex;not null" json:"receipt_number"`
	TerminalID    string          `gorm:"size:100;index" json:"terminal_id"`
	SessionID     string          `gorm:"size:100;index;not null" json:"session_id"`
	RegisterID    string          `gorm:"size:100;index" json:"register_id"`
	OperatorID    string          `gorm:"size:100" json:"operator_id"`
	CustomerName  string          `gorm:"size:255" json:"customer_name,omitempty"`
	PaymentMethod string          `gorm:"size:100" json:"payment_method,omitempty"`
	ItemCount     int             `gorm:"default:0" json:"item_count"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount_paid"`
	AmountDue     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount_due"`
	Receipt       string          `gorm:"type:text" json:"-"` // JSON-encoded Receipt
	SoldAt        time.Time       `gorm:"not null;index" json:"sold_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new journal entry
func (e *SaleJournalEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleJournalEntry model
func (SaleJournalEntry) TableName() string {
	return "sale_journal"
}

// NewSaleJournalEntry snapshots a sale and its receipt
func NewSaleJournalEntry(terminalID string, sale *Sale, receipt *Receipt) (*SaleJournalEntry, error) {
	raw, err := json.Marshal(receipt)
	if err != nil {
		return nil, err
	}
	entry := &SaleJournalEntry{
		SaleID:        sale.ID,
		ReceiptNumber: sale.ReceiptNumber,
		TerminalID:    terminalID,
		SessionID:     sale.SessionID,
		RegisterID:    sale.RegisterID,
		OperatorID:    sale.OperatorID,
		Subtotal:      sale.Subtotal.Round(2),
		TaxAmount:     sale.TaxAmount.Round(2),
		Total:         sale.Total.Round(2),
		AmountPaid:    sale.AmountPaid.Round(2),
		AmountDue:     sale.AmountDue.Round(2),
		Receipt:       string(raw),
		SoldAt:        sale.Timestamp,
	}
	for _, item := range sale.Items {
		entry.ItemCount += item.Quantity
	}
	if sale.Customer != nil {
		entry.CustomerName = sale.Customer.Name
	}
	if sale.PaymentMethod != nil {
		entry.PaymentMethod = sale.PaymentMethod.Name
	}
	return entry, nil
}

// DecodeReceipt restores the receipt stored with the entry
func (e *SaleJournalEntry) DecodeReceipt() (*Receipt, error) {
	var r Receipt
	if err := json.Unmarshal([]byte(e.Receipt), &r); err != nil {
		return nil, err
	}
	return &r, nil
}
