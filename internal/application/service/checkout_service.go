package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/infrastructure/events"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/utils"
	"github.com/shopspring/decimal"
)

// CheckoutService takes payment details and submits the cart as a sale
type CheckoutService struct {
	saleRepo    repository.SaleRepository
	journalRepo repository.SaleJournalRepository
	sessions    *SessionService
	catalog     *CatalogService
	receipts    *ReceiptService
	publisher   events.Publisher
	taxRate     decimal.Decimal
	now         func() time.Time
	newKey      func() string
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	saleRepo repository.SaleRepository,
	journalRepo repository.SaleJournalRepository,
	sessions *SessionService,
	catalog *CatalogService,
	receipts *ReceiptService,
	publisher events.Publisher,
	taxRate decimal.Decimal,
) *CheckoutService {
	return &CheckoutService{
		saleRepo:    saleRepo,
		journalRepo: journalRepo,
		sessions:    sessions,
		catalog:     catalog,
		receipts:    receipts,
		publisher:   publisher,
		taxRate:     taxRate,
		now:         time.Now,
		newKey:      utils.NewIdempotencyKey,
	}
}

// PaymentInput represents the payment entry. Nil fields are left unchanged.
type PaymentInput struct {
	AmountPaid      *string
	PaymentMethodID *string
}

// SetPayment records the amount tendered and the payment method and returns
// the resulting tender view
func (s *CheckoutService) SetPayment(ctx context.Context, ws *Workstation, input PaymentInput) (*entity.Tender, error) {
	if input.AmountPaid != nil {
		raw := strings.TrimSpace(*input.AmountPaid)
		if _, err := entity.ParseAmount(raw); err != nil {
			return nil, err
		}
		ws.AmountPaid = raw
	}
	if input.PaymentMethodID != nil {
		catalog, err := s.catalog.Ensure(ctx, ws)
		if err != nil {
			return nil, err
		}
		method, ok := catalog.PaymentMethod(*input.PaymentMethodID)
		if !ok {
			return nil, apperror.NewNotFoundError("Payment method")
		}
		ws.PaymentMethod = method
	}
	tender := s.Tender(ws)
	return &tender, nil
}

// Tender compares the amount entered with the cart total. An empty entry
// counts as zero.
func (s *CheckoutService) Tender(ws *Workstation) entity.Tender {
	total := ws.Cart.Totals(s.taxRate).Total
	tender, err := entity.ComputeTender(total, ws.AmountPaid)
	if err != nil {
		tender, _ = entity.ComputeTender(total, "")
	}
	return tender
}

// CheckoutResult is returned for a completed sale
type CheckoutResult struct {
	Sale    *entity.Sale    `json:"sale"`
	Receipt *entity.Receipt `json:"receipt"`
}

// Submit posts the cart as a sale. Preconditions are checked before any
// backend call. On failure the cart and payment entry are kept so the
// operator can retry; on success the cart is cleared and the receipt shown.
func (s *CheckoutService) Submit(ctx context.Context, ws *Workstation) (*CheckoutResult, error) {
	if ws.Register == nil {
		return nil, apperror.ErrNoRegister
	}
	if !ws.Session.IsOpen() {
		return nil, apperror.ErrNoActiveSession
	}
	if ws.Cart.IsEmpty() {
		return nil, apperror.ErrEmptyCart
	}

	totals := ws.Cart.Totals(s.taxRate)
	// Without an entry the sale is booked as paid in full.
	amountPaid := strings.TrimSpace(ws.AmountPaid)
	if amountPaid == "" {
		amountPaid = totals.Total.StringFixed(2)
	}
	paid, err := entity.ParseAmount(amountPaid)
	if err != nil {
		return nil, err
	}

	items := ws.Cart.Items()
	submission := repository.SaleSubmission{
		Items:      make([]repository.SaleLineInput, 0, len(items)),
		SessionID:  ws.Session.ID,
		RegisterID: ws.Register.ID,
		AmountPaid: amountPaid,
	}
	for _, item := range items {
		submission.Items = append(submission.Items, repository.SaleLineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			CostPrice: item.UnitPrice,
		})
	}
	if ws.Customer != nil {
		id := ws.Customer.ID
		submission.CustomerID = &id
	}
	submission.IdempotencyKey = s.checkoutKey(ws, submission)

	now := s.now()
	submission.Notes = "POS sale - " + now.Format("2006-01-02 15:04:05")

	submitted, err := s.saleRepo.Submit(ctx, submission)
	if err != nil {
		if apperror.IsConflict(err) {
			// Stock changed underneath us; resync so the cashier sees it.
			if loadErr := s.catalog.Load(ctx, ws); loadErr != nil {
				log.Printf("Warning: catalog refresh after sale conflict failed: %v", loadErr)
			}
		}
		return nil, err
	}

	sale := &entity.Sale{
		ID:            submitted.ID,
		ReceiptNumber: utils.ReceiptNumber(submitted.ID, now),
		Items:         items,
		Subtotal:      totals.Subtotal,
		TaxRate:       totals.TaxRate,
		TaxAmount:     totals.TaxAmount,
		Total:         totals.Total,
		AmountPaid:    paid,
		AmountDue:     totals.Total.Sub(paid),
		Customer:      ws.Customer,
		PaymentMethod: ws.PaymentMethod,
		RegisterID:    ws.Register.ID,
		RegisterTitle: ws.Register.Title,
		SessionID:     ws.Session.ID,
		OperatorID:    ws.OperatorID,
		Timestamp:     now,
	}
	receipt := s.receipts.Build(ws, sale)

	ws.LastSale = sale
	ws.Receipt = receipt
	ws.ClearCart()
	ws.Screen = enum.ScreenReceipt

	s.record(ctx, ws, sale, receipt)

	// Stock and running totals changed on the backend.
	if err := s.sessions.Refresh(ctx, ws); err != nil {
		log.Printf("Warning: session refresh after sale %s failed: %v", sale.ID, err)
	}
	if err := s.catalog.Load(ctx, ws); err != nil {
		log.Printf("Warning: catalog refresh after sale %s failed: %v", sale.ID, err)
	}

	return &CheckoutResult{Sale: sale, Receipt: receipt}, nil
}

// SaleCompleted is the payload of a sale.completed event
type SaleCompleted struct {
	SaleID        string          `json:"sale_id"`
	ReceiptNumber string          `json:"receipt_number"`
	SessionID     string          `json:"session_id"`
	RegisterID    string          `json:"register_id"`
	OperatorID    string          `json:"operator_id,omitempty"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	SoldAt        time.Time       `json:"sold_at"`
}

// record journals the sale and announces it. Both are side effects of a
// sale the backend already accepted, so failures are only logged.
func (s *CheckoutService) record(ctx context.Context, ws *Workstation, sale *entity.Sale, receipt *entity.Receipt) {
	entry, err := entity.NewSaleJournalEntry(ws.ID, sale, receipt)
	if err == nil {
		err = s.journalRepo.Create(ctx, entry)
	}
	if err != nil {
		log.Printf("Warning: failed to journal sale %s (%s): %v", sale.ID, sale.ReceiptNumber, err)
	}

	count := 0
	for _, item := range sale.Items {
		count += item.Quantity
	}
	s.publisher.Publish(ctx, events.NewEvent(events.TopicSaleCompleted, ws.ID, SaleCompleted{
		SaleID:        sale.ID,
		ReceiptNumber: sale.ReceiptNumber,
		SessionID:     sale.SessionID,
		RegisterID:    sale.RegisterID,
		OperatorID:    sale.OperatorID,
		ItemCount:     count,
		Total:         sale.Total.Round(2),
		AmountPaid:    sale.AmountPaid,
		SoldAt:        sale.Timestamp,
	}))
}

// checkoutKey returns the Idempotency-Key for a submission. The key changes
// only when what would be submitted changes.
func (s *CheckoutService) checkoutKey(ws *Workstation, sub repository.SaleSubmission) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|", sub.SessionID, sub.RegisterID, sub.AmountPaid)
	if sub.CustomerID != nil {
		fmt.Fprint(h, *sub.CustomerID)
	}
	for _, item := range sub.Items {
		fmt.Fprintf(h, "|%s:%d:%s", item.ProductID, item.Quantity, item.CostPrice.String())
	}
	fingerprint := hex.EncodeToString(h.Sum(nil))

	if ws.checkoutKey == "" || ws.checkoutFingerprint != fingerprint {
		ws.checkoutKey = s.newKey()
		ws.checkoutFingerprint = fingerprint
	}
	return ws.checkoutKey
}
