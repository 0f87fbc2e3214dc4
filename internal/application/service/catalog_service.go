package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/infrastructure/events"
	"github.com/sangkips/pos-terminal/pkg/apperror"
)

// CatalogService loads the reference data a workstation sells from
type CatalogService struct {
	catalogRepo repository.CatalogRepository
	partnerRepo repository.PartnerRepository
	paymentRepo repository.PaymentRepository
	now         func() time.Time
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	catalogRepo repository.CatalogRepository,
	partnerRepo repository.PartnerRepository,
	paymentRepo repository.PaymentRepository,
) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		partnerRepo: partnerRepo,
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// Load fetches products, categories, customers, payment methods and
// currencies in parallel and replaces the workstation's snapshot. Products
// are required; the other listings fall back to empty with a warning. The
// first payment method becomes the default when none is selected.
func (s *CatalogService) Load(ctx context.Context, ws *Workstation) error {
	var (
		wg         sync.WaitGroup
		catalog    = &Catalog{}
		productErr error
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		catalog.Products, productErr = s.catalogRepo.Products(ctx)
	}()
	go func() {
		defer wg.Done()
		items, err := s.catalogRepo.Categories(ctx)
		catalog.Categories = orEmpty(items, err, "categories")
	}()
	go func() {
		defer wg.Done()
		items, err := s.partnerRepo.Customers(ctx)
		catalog.Customers = orEmpty(items, err, "customers")
	}()
	go func() {
		defer wg.Done()
		items, err := s.paymentRepo.Methods(ctx)
		catalog.PaymentMethods = orEmpty(items, err, "payment methods")
	}()
	go func() {
		defer wg.Done()
		items, err := s.paymentRepo.Currencies(ctx)
		catalog.Currencies = orEmpty(items, err, "currencies")
	}()
	wg.Wait()

	if productErr != nil {
		return productErr
	}
	catalog.LoadedAt = s.now()
	ws.Catalog = catalog

	if ws.PaymentMethod != nil {
		if m, ok := catalog.PaymentMethod(ws.PaymentMethod.ID); ok {
			ws.PaymentMethod = m
		} else {
			ws.PaymentMethod = nil
		}
	}
	if ws.PaymentMethod == nil {
		ws.PaymentMethod = catalog.DefaultPaymentMethod()
	}
	return nil
}

// orEmpty logs a failed secondary listing and substitutes an empty one
func orEmpty[T any](items []T, err error, what string) []T {
	if err != nil {
		log.Printf("Warning: failed to load %s: %v", what, err)
		return []T{}
	}
	return items
}

// Ensure loads the catalog if the workstation has none
func (s *CatalogService) Ensure(ctx context.Context, ws *Workstation) (*Catalog, error) {
	if ws.Catalog == nil {
		if err := s.Load(ctx, ws); err != nil {
			return nil, err
		}
	}
	return ws.Catalog, nil
}

// Products returns the catalog filtered by category and search term
func (s *CatalogService) Products(ctx context.Context, ws *Workstation, filter entity.ProductFilter) ([]entity.Product, error) {
	catalog, err := s.Ensure(ctx, ws)
	if err != nil {
		return nil, err
	}
	return entity.FilterProducts(catalog.Products, filter), nil
}

// SelectCustomer attaches a customer to the next sale. An empty id detaches
// the current one.
func (s *CatalogService) SelectCustomer(ctx context.Context, ws *Workstation, customerID string) (*entity.Customer, error) {
	if customerID == "" {
		ws.Customer = nil
		return nil, nil
	}
	catalog, err := s.Ensure(ctx, ws)
	if err != nil {
		return nil, err
	}
	customer, ok := catalog.Customer(customerID)
	if !ok {
		return nil, apperror.NewNotFoundError("Customer")
	}
	ws.Customer = customer
	return customer, nil
}

// Subscribe drops every workstation's snapshot when the operator switches
// company. Snapshots are reloaded lazily on next use.
func (s *CatalogService) Subscribe(bus *events.Bus, store *WorkstationStore) {
	bus.Subscribe(events.TopicCompanyChanged, func(ctx context.Context, e events.Event) {
		dropped := 0
		store.Each(func(ws *Workstation) {
			if ws.Catalog != nil {
				ws.Catalog = nil
				dropped++
			}
		})
		log.Printf("Company changed: dropped %d catalog snapshot(s)", dropped)
	})
}
