package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/sangkips/pos-terminal/pkg/apperror"
)

func sampleSale() *entity.Sale {
	return &entity.Sale{
		ID:            "sale-42",
		ReceiptNumber: "Ree42-123456",
		Items: []entity.SaleItem{
			{ID: "i1", ProductID: "p1", Name: "Coffee", Quantity: 2, UnitPrice: dec("10"), DiscountAmount: dec("0")},
			{ID: "i2", ProductID: "p2", Name: "Muffin", Quantity: 1, UnitPrice: dec("5"), DiscountAmount: dec("0")},
		},
		Subtotal:      dec("25"),
		TaxRate:       dec("0.08"),
		TaxAmount:     dec("2"),
		Total:         dec("27"),
		AmountPaid:    dec("30"),
		AmountDue:     dec("-3"),
		Customer:      &entity.Customer{ID: "c1", Name: "Ada", Phone: "555"},
		PaymentMethod: &entity.PaymentMethod{ID: "cash", Name: "Cash"},
		RegisterTitle: "Front Till",
		SessionID:     "s1",
		OperatorID:    "op-1",
		Timestamp:     testNow,
	}
}

func TestFormatReceipt(t *testing.T) {
	r := entity.NewReceipt(sampleSale(), entity.ReceiptHeader{StoreName: "Corner Shop", Address: "1 Main St"}, "$")
	out := FormatReceipt(r, 32)

	for _, want := range []string{
		"Corner Shop", "1 Main St", "Ree42-123456", "2026-10-18 14:30",
		"Front Till", "Cash", "Ada", "Coffee", "@ $10.00 each", "Muffin",
		"$25.00", "Tax (8%):", "$2.00", "TOTAL:", "$27.00", "Paid:", "$30.00",
		"Change:", "$3.00", "Thank you for your business!",
	} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("receipt missing %q", want)
		}
	}
	if bytes.Contains(out, []byte("Due:")) {
		t.Error("overpaid receipt should not show a due amount")
	}
}

func TestFormatReceiptRoundsAtRender(t *testing.T) {
	sale := sampleSale()
	sale.Items = sale.Items[:1]
	sale.Items[0].UnitPrice = dec("3.333")
	sale.Items[0].Quantity = 1
	sale.Subtotal = dec("3.333")
	sale.TaxAmount = dec("0.26664")
	sale.Total = dec("3.59964")
	sale.AmountPaid = dec("3.5")
	sale.AmountDue = dec("0.09964")

	r := entity.NewReceipt(sale, entity.ReceiptHeader{StoreName: "S"}, "$")
	out := FormatReceipt(r, 32)
	for _, want := range []string{"$3.33", "$0.27", "$3.60", "Due:", "$0.10"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("receipt missing %q", want)
		}
	}
}

func TestReceiptPrintAndDismiss(t *testing.T) {
	env := newTestEnv()
	ws := env.sellingWorkstation()
	defer ws.Release()
	ctx := context.Background()

	if _, err := env.receiptSvc.PrintCurrent(ctx, ws); err != apperror.ErrNoReceipt {
		t.Errorf("err = %v, want ErrNoReceipt", err)
	}

	if _, err := env.cartSvc.Add(ctx, ws, "p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.checkoutSvc.Submit(ctx, ws); err != nil {
		t.Fatal(err)
	}

	if _, err := env.receiptSvc.PrintCurrent(ctx, ws); err != nil {
		t.Fatal(err)
	}
	if len(env.printer.jobs) != 1 {
		t.Fatalf("print jobs = %d", len(env.printer.jobs))
	}

	env.printer.err = errors.New("paper out")
	if _, err := env.receiptSvc.PrintCurrent(ctx, ws); err == nil {
		t.Error("printer failure not reported")
	}
	if ws.Receipt == nil {
		t.Error("receipt dropped after failed print")
	}

	if err := env.receiptSvc.Dismiss(ws); err != nil {
		t.Fatal(err)
	}
	if ws.Receipt != nil || ws.Screen != enum.ScreenSelling {
		t.Errorf("after dismiss receipt = %v screen = %s", ws.Receipt, ws.Screen)
	}
	if err := env.receiptSvc.Dismiss(ws); err != apperror.ErrNoReceipt {
		t.Errorf("second dismiss err = %v", err)
	}
}

func TestReprintFromJournal(t *testing.T) {
	env := newTestEnv()
	ws := env.sellingWorkstation()
	defer ws.Release()
	ctx := context.Background()

	if _, err := env.cartSvc.Add(ctx, ws, "p2"); err != nil {
		t.Fatal(err)
	}
	res, err := env.checkoutSvc.Submit(ctx, ws)
	if err != nil {
		t.Fatal(err)
	}

	r, err := env.receiptSvc.Reprint(ctx, res.Sale.ReceiptNumber)
	if err != nil {
		t.Fatal(err)
	}
	if r.SaleID != "sale-000123" || len(r.Items) != 1 || !r.Total.Equal(res.Receipt.Total) {
		t.Errorf("reprinted receipt = %+v", r)
	}
	if len(env.printer.jobs) != 1 {
		t.Errorf("print jobs = %d", len(env.printer.jobs))
	}

	if _, err := env.receiptSvc.Reprint(ctx, "R0000-000000"); !apperror.HasCode(err, 404) {
		t.Errorf("unknown receipt err = %v", err)
	}
}

func TestPrinterStatusAndTestPrint(t *testing.T) {
	env := newTestEnv()
	status := env.receiptSvc.GetStatus()
	if !status.Configured || !status.Connected || status.Type != "spool" {
		t.Errorf("status = %+v", status)
	}

	r, err := env.receiptSvc.TestPrint(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if r.ReceiptNumber != "TEST-0001" || len(env.printer.jobs) != 1 {
		t.Errorf("test receipt = %+v jobs = %d", r, len(env.printer.jobs))
	}
}
