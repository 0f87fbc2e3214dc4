package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/infrastructure/events"
	"github.com/sangkips/pos-terminal/pkg/pagination"
	"github.com/sangkips/pos-terminal/pkg/printer"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeRegisterRepo struct {
	registers []entity.Register
	err       error
	created   []repository.CreateRegisterInput
}

func (f *fakeRegisterRepo) List(ctx context.Context) ([]entity.Register, error) {
	return f.registers, f.err
}

func (f *fakeRegisterRepo) Create(ctx context.Context, input repository.CreateRegisterInput) (*entity.Register, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, input)
	r := entity.Register{ID: fmt.Sprintf("r%d", len(f.registers)+1), Title: input.Title, Notes: input.Notes, Active: input.Active, Status: "closed"}
	f.registers = append(f.registers, r)
	return &r, nil
}

type closeCall struct {
	sessionID string
	closing   decimal.Decimal
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions []entity.Session
	listErr  error
	openErr  error
	closeErr error
	opened   []repository.OpenSessionInput
	closed   []closeCall
	lists    int
}

func (f *fakeSessionRepo) List(ctx context.Context) ([]entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entity.Session, len(f.sessions))
	copy(out, f.sessions)
	return out, nil
}

func (f *fakeSessionRepo) Open(ctx context.Context, input repository.OpenSessionInput) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, input)
	if f.openErr != nil {
		return nil, f.openErr
	}
	s := entity.Session{
		ID:             fmt.Sprintf("s%d", len(f.sessions)+1),
		Title:          input.Title,
		Register:       input.RegisterID,
		Status:         enum.SessionStatusOpened,
		OpeningBalance: input.OpeningBalance,
		StartAt:        input.StartAt,
	}
	f.sessions = append(f.sessions, s)
	return &s, nil
}

func (f *fakeSessionRepo) Close(ctx context.Context, sessionID string, closing decimal.Decimal) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, closeCall{sessionID, closing})
	if f.closeErr != nil {
		return nil, f.closeErr
	}
	for i := range f.sessions {
		if f.sessions[i].ID == sessionID {
			f.sessions[i].Status = enum.SessionStatusClosed
			f.sessions[i].ClosingBalance = &closing
			s := f.sessions[i]
			return &s, nil
		}
	}
	return nil, fmt.Errorf("session %s not found", sessionID)
}

// setTotals mimics the backend booking a sale against a session
func (f *fakeSessionRepo) setTotals(sessionID string, totalSales decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.sessions {
		if f.sessions[i].ID == sessionID {
			f.sessions[i].TotalSales = totalSales
		}
	}
}

type fakeCatalogRepo struct {
	mu         sync.Mutex
	products   []entity.Product
	categories []entity.Category
	err        error
	loads      int
}

func (f *fakeCatalogRepo) Products(ctx context.Context) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entity.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeCatalogRepo) Categories(ctx context.Context) ([]entity.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalogRepo) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

type fakePartnerRepo struct {
	customers []entity.Customer
	err       error
}

func (f *fakePartnerRepo) Customers(ctx context.Context) ([]entity.Customer, error) {
	return f.customers, f.err
}

type fakePaymentRepo struct {
	methods    []entity.PaymentMethod
	currencies []entity.Currency
}

func (f *fakePaymentRepo) Methods(ctx context.Context) ([]entity.PaymentMethod, error) {
	return f.methods, nil
}

func (f *fakePaymentRepo) Currencies(ctx context.Context) ([]entity.Currency, error) {
	return f.currencies, nil
}

type fakeSaleRepo struct {
	submissions []repository.SaleSubmission
	id          string
	err         error
	onSubmit    func(repository.SaleSubmission)
}

func (f *fakeSaleRepo) Submit(ctx context.Context, sub repository.SaleSubmission) (*repository.SubmittedSale, error) {
	f.submissions = append(f.submissions, sub)
	if f.err != nil {
		return nil, f.err
	}
	if f.onSubmit != nil {
		f.onSubmit(sub)
	}
	return &repository.SubmittedSale{ID: f.id}, nil
}

type fakeJournalRepo struct {
	entries []*entity.SaleJournalEntry
	err     error
}

func (f *fakeJournalRepo) Create(ctx context.Context, entry *entity.SaleJournalEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeJournalRepo) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.SaleJournalEntry, error) {
	for _, e := range f.entries {
		if e.ReceiptNumber == receiptNumber {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeJournalRepo) ListBySession(ctx context.Context, sessionID string, params *pagination.PaginationParams) ([]entity.SaleJournalEntry, int64, error) {
	all, _ := f.AllBySession(ctx, sessionID)
	sort.Slice(all, func(i, j int) bool { return all[i].SoldAt.After(all[j].SoldAt) })
	total := int64(len(all))
	start := params.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + params.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeJournalRepo) AllBySession(ctx context.Context, sessionID string) ([]entity.SaleJournalEntry, error) {
	var out []entity.SaleJournalEntry
	for _, e := range f.entries {
		if e.SessionID == sessionID {
			out = append(out, *e)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) {
	p.events = append(p.events, e)
}

func (p *recordingPublisher) topics() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Topic
	}
	return out
}

type fakePrinter struct {
	jobs [][]byte
	err  error
}

func (p *fakePrinter) Print(ctx context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

func (p *fakePrinter) Close() error      { return nil }
func (p *fakePrinter) IsConnected() bool { return p.err == nil }
func (p *fakePrinter) Kind() string      { return "spool" }

var _ printer.Printer = (*fakePrinter)(nil)

// testEnv wires every service against in-memory fakes
type testEnv struct {
	registers *fakeRegisterRepo
	sessions  *fakeSessionRepo
	catalog   *fakeCatalogRepo
	partners  *fakePartnerRepo
	payments  *fakePaymentRepo
	sales     *fakeSaleRepo
	journal   *fakeJournalRepo
	publisher *recordingPublisher
	printer   *fakePrinter

	store       *WorkstationStore
	registerSvc *RegisterService
	sessionSvc  *SessionService
	catalogSvc  *CatalogService
	cartSvc     *CartService
	checkoutSvc *CheckoutService
	receiptSvc  *ReceiptService
	reportSvc   *ReportService
}

var testNow = time.Date(2026, 10, 18, 14, 30, 0, 0, time.UTC)

func newTestEnv() *testEnv {
	env := &testEnv{
		registers: &fakeRegisterRepo{registers: []entity.Register{
			{ID: "r1", Title: "Front Till", Active: true, Status: "closed"},
			{ID: "r2", Title: "Back Till", Active: true, Status: "opened"},
			{ID: "r3", Title: "Broken Till", Active: false, Status: "closed"},
		}},
		sessions: &fakeSessionRepo{},
		catalog: &fakeCatalogRepo{products: []entity.Product{
			{ID: "p1", Title: "Coffee", Price: dec("10"), StockQuantity: 10, SKU: "COF", Category: "drinks"},
			{ID: "p2", Title: "Muffin", Price: dec("5"), StockQuantity: 10, SKU: "MUF", Category: "food"},
			{ID: "p3", Title: "Rare Tea", Price: dec("7.5"), StockQuantity: 3, SKU: "TEA", Category: "drinks"},
			{ID: "p4", Title: "Gone", Price: dec("1"), StockQuantity: 0, SKU: "GON", Category: "food"},
		}},
		partners: &fakePartnerRepo{customers: []entity.Customer{{ID: "c1", Name: "Ada", Phone: "555"}}},
		payments: &fakePaymentRepo{
			methods:    []entity.PaymentMethod{{ID: "cash", Name: "Cash"}, {ID: "card", Name: "Card", IsOnline: true}},
			currencies: []entity.Currency{{ID: "usd", Title: "Dollar", Symbol: "$", Code: "USD", IsDefault: true}},
		},
		sales:     &fakeSaleRepo{id: "sale-000123"},
		journal:   &fakeJournalRepo{},
		publisher: &recordingPublisher{},
		printer:   &fakePrinter{},
	}

	taxRate := dec("0.08")
	lineSeq := 0
	env.store = NewWorkstationStore(time.Hour, func() string {
		lineSeq++
		return fmt.Sprintf("item-%04d", lineSeq)
	})
	env.registerSvc = NewRegisterService(env.registers, env.sessions)
	env.sessionSvc = NewSessionService(env.sessions, env.publisher)
	env.sessionSvc.now = func() time.Time { return testNow }
	env.catalogSvc = NewCatalogService(env.catalog, env.partners, env.payments)
	env.cartSvc = NewCartService(env.catalogSvc, taxRate)
	env.receiptSvc = NewReceiptService(env.printer, env.journal, ReceiptConfig{
		Header:         entity.ReceiptHeader{StoreName: "Corner Shop", Address: "1 Main St"},
		CurrencySymbol: "KSh ",
		Width:          32,
	})
	env.checkoutSvc = NewCheckoutService(env.sales, env.journal, env.sessionSvc, env.catalogSvc, env.receiptSvc, env.publisher, taxRate)
	env.checkoutSvc.now = func() time.Time { return testNow }
	keySeq := 0
	env.checkoutSvc.newKey = func() string {
		keySeq++
		return fmt.Sprintf("key-%d", keySeq)
	}
	env.reportSvc = NewReportService(env.journal)
	return env
}

// sellingWorkstation returns a locked workstation on register r1 with an
// open session s1 (opening balance 100)
func (env *testEnv) sellingWorkstation() *Workstation {
	env.sessions.sessions = append(env.sessions.sessions, entity.Session{
		ID: "s1", Title: "Morning", Register: "r1", Status: enum.SessionStatusOpened,
		OpeningBalance: dec("100"), StartAt: testNow.Add(-time.Hour),
	})
	ws := env.store.Acquire("t1")
	if _, err := env.registerSvc.SelectRegister(context.Background(), ws, "r1"); err != nil {
		panic(err)
	}
	return ws
}
