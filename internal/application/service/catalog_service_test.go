package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/infrastructure/events"
)

func TestCatalogLoadToleratesSecondaryFailures(t *testing.T) {
	env := newTestEnv()
	env.partners.err = errors.New("partners down")
	ws := env.store.Acquire("t1")
	defer ws.Release()

	if err := env.catalogSvc.Load(context.Background(), ws); err != nil {
		t.Fatal(err)
	}
	if len(ws.Catalog.Products) != 4 {
		t.Errorf("products = %d", len(ws.Catalog.Products))
	}
	if ws.Catalog.Customers == nil || len(ws.Catalog.Customers) != 0 {
		t.Errorf("customers = %v, want empty", ws.Catalog.Customers)
	}
	if ws.PaymentMethod == nil || ws.PaymentMethod.ID != "cash" {
		t.Errorf("default payment method = %v", ws.PaymentMethod)
	}
}

func TestCatalogLoadFailsWithoutProducts(t *testing.T) {
	env := newTestEnv()
	env.catalog.err = errors.New("products down")
	ws := env.store.Acquire("t1")
	defer ws.Release()

	if err := env.catalogSvc.Load(context.Background(), ws); err == nil {
		t.Fatal("expected error")
	}
	if ws.Catalog != nil {
		t.Error("failed load replaced the snapshot")
	}
}

func TestCatalogLoadKeepsSelectedPaymentMethod(t *testing.T) {
	env := newTestEnv()
	ws := env.store.Acquire("t1")
	defer ws.Release()
	ctx := context.Background()

	ws.PaymentMethod = &entity.PaymentMethod{ID: "card"}
	if err := env.catalogSvc.Load(ctx, ws); err != nil {
		t.Fatal(err)
	}
	if ws.PaymentMethod.ID != "card" || ws.PaymentMethod.Name != "Card" {
		t.Errorf("payment method = %+v", ws.PaymentMethod)
	}

	ws.PaymentMethod = &entity.PaymentMethod{ID: "retired"}
	if err := env.catalogSvc.Load(ctx, ws); err != nil {
		t.Fatal(err)
	}
	if ws.PaymentMethod.ID != "cash" {
		t.Errorf("stale method not replaced: %+v", ws.PaymentMethod)
	}
}

func TestCatalogProductsFilter(t *testing.T) {
	env := newTestEnv()
	ws := env.store.Acquire("t1")
	defer ws.Release()
	ctx := context.Background()

	drinks, err := env.catalogSvc.Products(ctx, ws, entity.ProductFilter{Category: "drinks"})
	if err != nil {
		t.Fatal(err)
	}
	if len(drinks) != 2 {
		t.Errorf("drinks = %d", len(drinks))
	}
	found, err := env.catalogSvc.Products(ctx, ws, entity.ProductFilter{Category: "all", Search: "muf"})
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].ID != "p2" {
		t.Errorf("search = %+v", found)
	}
	if env.catalog.loadCount() != 1 {
		t.Errorf("loads = %d, want snapshot reuse", env.catalog.loadCount())
	}
}

func TestSelectCustomer(t *testing.T) {
	env := newTestEnv()
	ws := env.store.Acquire("t1")
	defer ws.Release()
	ctx := context.Background()

	if _, err := env.catalogSvc.SelectCustomer(ctx, ws, "nobody"); err == nil {
		t.Error("unknown customer accepted")
	}
	c, err := env.catalogSvc.SelectCustomer(ctx, ws, "c1")
	if err != nil || c.Name != "Ada" || ws.Customer == nil {
		t.Fatalf("select = %v, %v", c, err)
	}
	if _, err := env.catalogSvc.SelectCustomer(ctx, ws, ""); err != nil || ws.Customer != nil {
		t.Errorf("detach err = %v customer = %v", err, ws.Customer)
	}
}

func TestCompanyChangeDropsSnapshots(t *testing.T) {
	env := newTestEnv()
	bus := events.NewBus()
	env.catalogSvc.Subscribe(bus, env.store)

	ws := env.sellingWorkstation()
	if _, err := env.cartSvc.Add(context.Background(), ws, "p1"); err != nil {
		t.Fatal(err)
	}
	ws.Release()

	bus.Publish(context.Background(), events.NewEvent(events.TopicCompanyChanged, "", nil))

	ws = env.store.Acquire("t1")
	defer ws.Release()
	if ws.Catalog != nil {
		t.Error("catalog snapshot survived company change")
	}
	if ws.Cart.Len() != 1 {
		t.Error("cart should be kept")
	}
}
