package service

import (
	"context"
	"sync"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Catalog is a workstation's snapshot of backend reference data. It is
// replaced wholesale on every reload and never edited in place.
type Catalog struct {
	Products       []entity.Product       `json:"products"`
	Categories     []entity.Category      `json:"categories"`
	Customers      []entity.Customer      `json:"customers"`
	PaymentMethods []entity.PaymentMethod `json:"payment_methods"`
	Currencies     []entity.Currency      `json:"currencies"`
	LoadedAt       time.Time              `json:"loaded_at"`
}

// Product looks up a product by id
func (c *Catalog) Product(id string) (*entity.Product, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Products {
		if c.Products[i].ID == id {
			p := c.Products[i]
			return &p, true
		}
	}
	return nil, false
}

// Stock reports the available stock of a product. It satisfies
// entity.StockLookup.
func (c *Catalog) Stock(productID string) (int, bool) {
	p, ok := c.Product(productID)
	if !ok {
		return 0, false
	}
	return p.StockQuantity, true
}

// Customer looks up a customer by id
func (c *Catalog) Customer(id string) (*entity.Customer, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Customers {
		if c.Customers[i].ID == id {
			cu := c.Customers[i]
			return &cu, true
		}
	}
	return nil, false
}

// PaymentMethod looks up a payment method by id
func (c *Catalog) PaymentMethod(id string) (*entity.PaymentMethod, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.PaymentMethods {
		if c.PaymentMethods[i].ID == id {
			m := c.PaymentMethods[i]
			return &m, true
		}
	}
	return nil, false
}

// DefaultPaymentMethod is the first configured method, or nil
func (c *Catalog) DefaultPaymentMethod() *entity.PaymentMethod {
	if c == nil || len(c.PaymentMethods) == 0 {
		return nil
	}
	m := c.PaymentMethods[0]
	return &m
}

// CurrencySymbol returns the default currency's symbol, or fallback
func (c *Catalog) CurrencySymbol(fallback string) string {
	if c == nil {
		return fallback
	}
	if cur := entity.DefaultCurrency(c.Currencies); cur != nil && cur.Symbol != "" {
		return cur.Symbol
	}
	return fallback
}

// Workstation is the checkout state of one terminal (browser tab or
// device). All access goes through WorkstationStore.Acquire, which hands
// it out locked; the holder calls Release when done.
type Workstation struct {
	ID string

	mu       sync.Mutex
	lastSeen time.Time // guarded by WorkstationStore.mu

	OperatorID    string
	Register      *entity.Register
	Session       *entity.Session
	Cart          *entity.Cart
	Customer      *entity.Customer
	PaymentMethod *entity.PaymentMethod
	AmountPaid    string
	LastSale      *entity.Sale
	Receipt       *entity.Receipt
	Pending       *entity.PendingConfirmation
	Catalog       *Catalog
	Screen        enum.Screen

	// checkoutKey is reused while the cart content stays the same so a
	// retried submission carries the same Idempotency-Key.
	checkoutKey         string
	checkoutFingerprint string
}

func newWorkstation(id string, newLineID func() string, now time.Time) *Workstation {
	return &Workstation{
		ID:       id,
		Cart:     entity.NewCart(newLineID),
		Screen:   enum.ScreenRegisterSelection,
		lastSeen: now,
	}
}

// Release unlocks the workstation
func (w *Workstation) Release() {
	w.mu.Unlock()
}

// ClearCart empties the cart and resets the customer and payment entry so
// nothing leaks into the next sale.
func (w *Workstation) ClearCart() {
	w.Cart.Clear()
	w.Customer = nil
	w.AmountPaid = ""
	w.checkoutKey = ""
	w.checkoutFingerprint = ""
}

// endSession drops the register and session. An open cart never survives
// a session boundary. A receipt on screen stays visible until dismissed.
func (w *Workstation) endSession() {
	w.Register = nil
	w.Session = nil
	w.Pending = nil
	w.ClearCart()
	if w.Screen != enum.ScreenReceipt {
		w.Screen = enum.ScreenRegisterSelection
	}
}

// idleScreen is where the workstation goes when nothing overlays it
func (w *Workstation) idleScreen() enum.Screen {
	switch {
	case w.Session.IsOpen():
		return enum.ScreenSelling
	case w.Register != nil:
		return enum.ScreenOpenSession
	default:
		return enum.ScreenRegisterSelection
	}
}

// WorkstationState is the read model of a workstation returned to the
// browser after every operation.
type WorkstationState struct {
	TerminalID    string                      `json:"terminal_id"`
	Screen        enum.Screen                 `json:"screen"`
	Register      *entity.Register            `json:"register"`
	Session       *entity.Session             `json:"session"`
	Items         []entity.SaleItem           `json:"items"`
	Totals        entity.Totals               `json:"totals"`
	Customer      *entity.Customer            `json:"customer"`
	PaymentMethod *entity.PaymentMethod       `json:"payment_method"`
	Tender        entity.Tender               `json:"tender"`
	Receipt       *entity.Receipt             `json:"receipt,omitempty"`
	Pending       *entity.PendingConfirmation `json:"pending_confirmation,omitempty"`
}

// State renders the workstation for the given tax rate
func (w *Workstation) State(taxRate decimal.Decimal) *WorkstationState {
	totals := w.Cart.Totals(taxRate)
	tender, err := entity.ComputeTender(totals.Total, w.AmountPaid)
	if err != nil {
		tender, _ = entity.ComputeTender(totals.Total, "")
	}
	return &WorkstationState{
		TerminalID:    w.ID,
		Screen:        w.Screen,
		Register:      w.Register,
		Session:       w.Session,
		Items:         w.Cart.Items(),
		Totals:        totals,
		Customer:      w.Customer,
		PaymentMethod: w.PaymentMethod,
		Tender:        tender,
		Receipt:       w.Receipt,
		Pending:       w.Pending,
	}
}

// WorkstationStore keeps one Workstation per terminal id. Idle workstations
// are discarded after the TTL, as a closed tab would discard its state.
type WorkstationStore struct {
	mu        sync.Mutex
	stations  map[string]*Workstation
	ttl       time.Duration
	newLineID func() string
	now       func() time.Time
}

// NewWorkstationStore creates an empty store
func NewWorkstationStore(ttl time.Duration, newLineID func() string) *WorkstationStore {
	return &WorkstationStore{
		stations:  make(map[string]*Workstation),
		ttl:       ttl,
		newLineID: newLineID,
		now:       time.Now,
	}
}

// Acquire returns the terminal's workstation, creating it on first use, and
// locks it. Operations on one terminal are therefore strictly sequential.
func (s *WorkstationStore) Acquire(terminalID string) *Workstation {
	ws := s.touch(terminalID)
	ws.mu.Lock()
	return ws
}

// touch looks up or creates the workstation and marks it as seen. lastSeen
// is guarded by the store lock, so cleanup cannot drop a workstation
// between touch and the caller taking its lock.
func (s *WorkstationStore) touch(terminalID string) *Workstation {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.stations[terminalID]
	if !ok {
		ws = newWorkstation(terminalID, s.newLineID, s.now())
		s.stations[terminalID] = ws
	}
	ws.lastSeen = s.now()
	return ws
}

// Delete discards a terminal's workstation (tab closed)
func (s *WorkstationStore) Delete(terminalID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.stations[terminalID]
	delete(s.stations, terminalID)
	return ok
}

// Len returns the number of live workstations
func (s *WorkstationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stations)
}

// Each calls fn on every workstation with its lock held
func (s *WorkstationStore) Each(fn func(ws *Workstation)) {
	s.mu.Lock()
	stations := make([]*Workstation, 0, len(s.stations))
	for _, ws := range s.stations {
		stations = append(stations, ws)
	}
	s.mu.Unlock()

	for _, ws := range stations {
		ws.mu.Lock()
		fn(ws)
		ws.mu.Unlock()
	}
}

// StartCleanup removes idle workstations every interval until ctx is done
func (s *WorkstationStore) StartCleanup(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanup()
			}
		}
	}()
}

// cleanup removes workstations unused for longer than the TTL. A
// workstation that is busy right now is by definition not idle.
func (s *WorkstationStore) cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, ws := range s.stations {
		if !ws.mu.TryLock() {
			continue
		}
		if ws.lastSeen.Before(cutoff) {
			delete(s.stations, id)
			removed++
		}
		ws.mu.Unlock()
	}
	return removed
}
