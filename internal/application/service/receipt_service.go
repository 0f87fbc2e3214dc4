package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/printer"
	"github.com/shopspring/decimal"
)

// ReceiptService composes receipts from completed sales and sends them to
// the configured receipt printer.
type ReceiptService struct {
	printer        printer.Printer
	journalRepo    repository.SaleJournalRepository
	header         entity.ReceiptHeader
	currencySymbol string
	width          int
}

// ReceiptConfig holds store details printed on every receipt
type ReceiptConfig struct {
	Header         entity.ReceiptHeader
	CurrencySymbol string
	Width          int
}

// NewReceiptService creates a new receipt service
func NewReceiptService(p printer.Printer, journalRepo repository.SaleJournalRepository, cfg ReceiptConfig) *ReceiptService {
	return &ReceiptService{
		printer:        p,
		journalRepo:    journalRepo,
		header:         cfg.Header,
		currencySymbol: cfg.CurrencySymbol,
		width:          cfg.Width,
	}
}

// Build composes the receipt of a sale made on the workstation. The
// backend's default currency symbol wins over the configured one.
func (s *ReceiptService) Build(ws *Workstation, sale *entity.Sale) *entity.Receipt {
	return entity.NewReceipt(sale, s.header, ws.Catalog.CurrencySymbol(s.currencySymbol))
}

// Current returns the receipt on screen
func (s *ReceiptService) Current(ws *Workstation) (*entity.Receipt, error) {
	if ws.Receipt == nil {
		return nil, apperror.ErrNoReceipt
	}
	return ws.Receipt, nil
}

// Dismiss hides the receipt. Nothing else on the workstation changes.
func (s *ReceiptService) Dismiss(ws *Workstation) error {
	if ws.Receipt == nil {
		return apperror.ErrNoReceipt
	}
	ws.Receipt = nil
	ws.Screen = ws.idleScreen()
	return nil
}

// Print renders the receipt as ESC/POS and sends it to the printer
func (s *ReceiptService) Print(ctx context.Context, r *entity.Receipt) error {
	if err := s.printer.Print(ctx, FormatReceipt(r, s.width)); err != nil {
		log.Printf("Printer error (receipt %s): %v", r.ReceiptNumber, err)
		return fmt.Errorf("failed to print receipt: %w", err)
	}
	return nil
}

// PrintCurrent prints the receipt on screen
func (s *ReceiptService) PrintCurrent(ctx context.Context, ws *Workstation) (*entity.Receipt, error) {
	r, err := s.Current(ws)
	if err != nil {
		return nil, err
	}
	return r, s.Print(ctx, r)
}

// Reprint prints a journaled receipt by number
func (s *ReceiptService) Reprint(ctx context.Context, receiptNumber string) (*entity.Receipt, error) {
	r, err := s.Lookup(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}
	return r, s.Print(ctx, r)
}

// Lookup restores a journaled receipt by number
func (s *ReceiptService) Lookup(ctx context.Context, receiptNumber string) (*entity.Receipt, error) {
	entry, err := s.journalRepo.GetByReceiptNumber(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return entry.DecodeReceipt()
}

// PrinterStatus returns the current printer status information
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status
func (s *ReceiptService) GetStatus() *PrinterStatus {
	kind := s.printer.Kind()
	return &PrinterStatus{
		Configured: kind != "none",
		Connected:  s.printer.IsConnected(),
		Type:       kind,
	}
}

// TestPrint sends a test page to the printer. The receipt is returned
// either way so it can be shown when no printer is attached.
func (s *ReceiptService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	r := &entity.Receipt{
		Header:         s.header,
		ReceiptNumber:  "TEST-0001",
		IssuedAt:       time.Now(),
		Cashier:        "System",
		CurrencySymbol: s.currencySymbol,
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: decimal.NewFromInt(5), Total: decimal.NewFromInt(10)},
		},
		SubTotal: decimal.NewFromInt(20),
		Total:    decimal.NewFromInt(20),
		Paid:     decimal.NewFromInt(20),
	}
	if err := s.printer.Print(ctx, FormatReceipt(r, s.width)); err != nil {
		return r, fmt.Errorf("test print failed: %w", err)
	}
	return r, nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes. Amounts are rounded
// to two decimals here and nowhere earlier.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)
	money := func(d decimal.Decimal) string { return printer.Money(r.CurrencySymbol, d) }

	doc.Title(r.Header.StoreName)
	lines := []string{r.Header.Address, r.Header.Phone}
	if r.Header.TaxID != "" {
		lines = append(lines, "Tax ID: "+r.Header.TaxID)
	}
	doc.Centered(lines...).Separator('-')

	doc.KeyValue("Receipt:", r.ReceiptNumber).
		KeyValue("Date:", r.IssuedAt.Format("2006-01-02 15:04"))
	if r.RegisterTitle != "" {
		doc.KeyValue("Register:", r.RegisterTitle)
	}
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.PaymentType != "" {
		doc.KeyValue("Payment:", r.PaymentType)
	}
	if r.Customer != nil {
		doc.KeyValue("Customer:", r.Customer.Name)
		if r.Customer.Phone != "" {
			doc.KeyValue("Phone:", r.Customer.Phone)
		}
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, money(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", money(item.UnitPrice))
		}
		if item.Discount.IsPositive() {
			doc.TextF("  discount -%s", money(item.Discount))
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", money(r.SubTotal))
	if !r.Tax.IsZero() {
		doc.KeyValue(fmt.Sprintf("Tax (%s%%):", r.TaxRate.Mul(decimal.NewFromInt(100)).String()), money(r.Tax))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money(r.Total)).
		SetBold(false)

	doc.KeyValue("Paid:", money(r.Paid))
	if r.Change.IsPositive() {
		doc.KeyValue("Change:", money(r.Change))
	}
	if r.Due.IsPositive() {
		doc.KeyValue("Due:", money(r.Due))
	}

	doc.Separator('-')
	doc.FeedLines(1).
		Centered("Thank you for your business!").
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
