package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(Options{BaseURL: srv.URL + "/api/v1", Timeout: 2 * time.Second, MaxPages: 5})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, srv
}

func operatorCtx() context.Context {
	return WithAccessToken(context.Background(), "operator-token")
}

func TestClientForwardsBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"count":0,"next":null,"previous":null,"results":[]}`)
	}))

	if _, err := NewRegisterRepository(client).List(operatorCtx()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if gotAuth != "Bearer operator-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer operator-token")
	}
}

func TestClientServiceTokenFallback(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	client, err := NewClient(Options{BaseURL: srv.URL, ServiceToken: "kiosk"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := NewPartnerRepository(client).Customers(context.Background()); err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if gotAuth != "Bearer kiosk" {
		t.Errorf("Authorization = %q, want service token", gotAuth)
	}
}

func TestClientWithoutTokenMakesNoCall(t *testing.T) {
	called := false
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := NewRegisterRepository(client).List(context.Background())
	if !apperror.HasCode(err, http.StatusUnauthorized) {
		t.Fatalf("err = %v, want 401", err)
	}
	if called {
		t.Error("backend was called without a token")
	}
}

func TestClientFollowsNextLinks(t *testing.T) {
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("/api/v1/products/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"count":2,"next":null,"results":[{"id":2,"title":"Tea","price":"3.50","stock_quantity":4}]}`)
			return
		}
		fmt.Fprintf(w, `{"count":2,"next":"%s/api/v1/products/?page=2","results":[{"id":"p1","title":"Coffee","price":10,"current_stock":"7"}]}`, srvURL)
	})
	client, srv := newTestClient(t, mux)
	srvURL = srv.URL

	products, err := NewCatalogRepository(client).Products(operatorCtx())
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("len(products) = %d, want 2", len(products))
	}
	if products[0].StockQuantity != 7 || !products[0].Price.Equal(decimal.NewFromInt(10)) {
		t.Errorf("products[0] = %+v", products[0])
	}
	if products[1].ID != "2" || products[1].StockQuantity != 4 || !products[1].Price.Equal(decimal.RequireFromString("3.5")) {
		t.Errorf("products[1] = %+v", products[1])
	}
}

func TestClientPageLimit(t *testing.T) {
	var srvURL string
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"next":"%s/api/v1/partners/?again=1","results":[{"id":"c"}]}`, srvURL)
	}))
	srvURL = srv.URL

	if _, err := NewPartnerRepository(client).Customers(operatorCtx()); err == nil {
		t.Fatal("expected an error for an endless listing")
	}
}

func TestNormalization(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/products/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[
			{"id":"a","title":"","price":null,"current_stock":0,"stock_quantity":"5"},
			{"id":"b","title":"Bread","price":"abc","current_stock":null,"stock_quantity":null,"category":{"id":9}}
		]}`)
	})
	mux.HandleFunc("/api/v1/pos/registers/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[
			{"id":1,"title":null},
			{"id":2,"title":"Front","active":false,"status":"opened"},
			{"id":3,"title":"Back","is_active":false},
			{"id":4,"title":"Side","active":true,"is_active":false}
		]}`)
	})
	mux.HandleFunc("/api/v1/pos/sessions/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[
			{"id":"s1","register":1,"status":"opened","opening_balance":"100.00","total_sales":"25.5","total_refunds":null,"closing_balance":null,"start_at":"2026-10-18T09:00:00.123456Z"},
			{"id":"s2","register":2,"status":"weird"}
		]}`)
	})
	mux.HandleFunc("/api/v1/partners/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"id":"c1","name":"","address_1":"","address_2":"Second St"}]}`)
	})
	mux.HandleFunc("/api/v1/payments/methods/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"id":"m1","name":null,"is_online":"true"}]}`)
	})
	mux.HandleFunc("/api/v1/payments/currency/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"id":"usd","symbol":"$","code":"USD","is_default":true}]}`)
	})
	client, _ := newTestClient(t, mux)
	ctx := operatorCtx()

	t.Run("Products", func(t *testing.T) {
		products, err := NewCatalogRepository(client).Products(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if products[0].Title != "Unknown Product" || products[0].StockQuantity != 5 || !products[0].Price.IsZero() {
			t.Errorf("products[0] = %+v", products[0])
		}
		if products[1].StockQuantity != 0 || !products[1].Price.IsZero() || products[1].Category != "9" {
			t.Errorf("products[1] = %+v", products[1])
		}
	})

	t.Run("Registers", func(t *testing.T) {
		registers, err := NewRegisterRepository(client).List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		want := []struct {
			title  string
			active bool
			status string
		}{
			{"Unknown Register", true, "closed"},
			{"Front", false, "opened"},
			{"Back", false, "closed"},
			{"Side", true, "closed"},
		}
		for i, w := range want {
			r := registers[i]
			if r.Title != w.title || r.Active != w.active || r.Status != w.status {
				t.Errorf("registers[%d] = %+v, want %+v", i, r, w)
			}
		}
	})

	t.Run("Sessions", func(t *testing.T) {
		sessions, err := NewSessionRepository(client).List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		s := sessions[0]
		if s.Status != enum.SessionStatusOpened || s.Register != "1" || s.Title != "Unknown Session" {
			t.Errorf("sessions[0] = %+v", s)
		}
		if !s.OpeningBalance.Equal(decimal.NewFromInt(100)) || !s.TotalSales.Equal(decimal.RequireFromString("25.5")) {
			t.Errorf("sessions[0] balances = %s / %s", s.OpeningBalance, s.TotalSales)
		}
		if s.ClosingBalance != nil || s.StartAt.IsZero() {
			t.Errorf("sessions[0] closing=%v start=%v", s.ClosingBalance, s.StartAt)
		}
		if sessions[1].Status != enum.SessionStatusClosed {
			t.Errorf("unknown status should read as closed")
		}
	})

	t.Run("Customers", func(t *testing.T) {
		customers, err := NewPartnerRepository(client).Customers(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if customers[0].Name != "Unknown Customer" || customers[0].Address != "Second St" {
			t.Errorf("customers[0] = %+v", customers[0])
		}
	})

	t.Run("Payments", func(t *testing.T) {
		repo := NewPaymentRepository(client)
		methods, err := repo.Methods(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if methods[0].Name != "Unknown Method" || !methods[0].IsOnline {
			t.Errorf("methods[0] = %+v", methods[0])
		}
		currencies, err := repo.Currencies(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if currencies[0].Title != "Unknown Currency" || !currencies[0].IsDefault {
			t.Errorf("currencies[0] = %+v", currencies[0])
		}
	})
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCode  int
		wantMsg   string
		retryable bool
	}{
		{"Detail", http.StatusBadRequest, `{"detail":"Session is closed"}`, 400, "Session is closed", false},
		{"Message", http.StatusConflict, `{"message":"Insufficient stock for Coffee"}`, 409, "Insufficient stock for Coffee", false},
		{"FieldMap", http.StatusBadRequest, `{"register":["This field is required."],"amount_paid":["Invalid."]}`, 400, "amount_paid: Invalid.; register: This field is required.", false},
		{"NonFieldErrors", http.StatusBadRequest, `{"non_field_errors":["Register inactive"]}`, 400, "Register inactive", false},
		{"PlainText", http.StatusBadRequest, `boom`, 400, "boom", false},
		{"Unauthorized", http.StatusUnauthorized, ``, 401, "Authentication required", false},
		{"ServerError", http.StatusInternalServerError, `<html>oops</html>`, http.StatusBadGateway, "Internal Server Error", true},
		{"TooManyRequests", http.StatusTooManyRequests, `{"detail":"Slow down"}`, 429, "Slow down", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			_, err := NewSessionRepository(client).Close(operatorCtx(), "s1", decimal.Zero)
			appErr := apperror.GetAppError(err)
			if appErr.Code != tt.wantCode || appErr.Message != tt.wantMsg || appErr.Retryable != tt.retryable {
				t.Errorf("got {%d %q %v}, want {%d %q %v}", appErr.Code, appErr.Message, appErr.Retryable, tt.wantCode, tt.wantMsg, tt.retryable)
			}
		})
	}
}

func TestNetworkFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewClient(Options{BaseURL: url, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewRegisterRepository(client).List(operatorCtx())
	appErr := apperror.GetAppError(err)
	if appErr.Code != http.StatusBadGateway || !appErr.Retryable {
		t.Errorf("got %+v, want retryable 502", appErr)
	}
}

func TestSessionOpenBody(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/pos/sessions/" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"s9","status":"opened","opening_balance":"50.00","total_sales":"0"}`)
	}))

	start := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	session, err := NewSessionRepository(client).Open(operatorCtx(), domainRepo.OpenSessionInput{
		Title:          "Session 2026-10-18 09:30:00",
		StartAt:        start,
		OpeningBalance: decimal.NewFromInt(50),
		RegisterID:     "r1",
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if session.ID != "s9" || !session.IsOpen() || session.Register != "r1" {
		t.Errorf("session = %+v", session)
	}
	if body["status"] != "opened" || body["register"] != "r1" || body["start_at"] != "2026-10-18T09:30:00Z" {
		t.Errorf("body = %v", body)
	}
	if body["opening_balance"] != "50" {
		t.Errorf("opening_balance = %v", body["opening_balance"])
	}
}

func TestSessionCloseBody(t *testing.T) {
	var body map[string]any
	var path string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		fmt.Fprint(w, `{"id":"s1","status":"closed"}`)
	}))

	closing := decimal.RequireFromString("123.45")
	session, err := NewSessionRepository(client).Close(operatorCtx(), "s1", closing)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if path != "/api/v1/pos/sessions/s1/close/" {
		t.Errorf("path = %q", path)
	}
	if body["closing_balance"] != "123.45" {
		t.Errorf("closing_balance = %v", body["closing_balance"])
	}
	if session.IsOpen() || session.ClosingBalance == nil || !session.ClosingBalance.Equal(closing) {
		t.Errorf("session = %+v", session)
	}
}

func TestSaleSubmit(t *testing.T) {
	var body saleBody
	var key string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":12345}`)
	}))

	sub := domainRepo.SaleSubmission{
		Items: []domainRepo.SaleLineInput{
			{ProductID: "p1", Quantity: 2, CostPrice: decimal.NewFromInt(10)},
			{ProductID: "p2", Quantity: 1, CostPrice: decimal.RequireFromString("5.5")},
		},
		SessionID:      "s1",
		RegisterID:     "r1",
		AmountPaid:     "30",
		Notes:          "POS sale - now",
		IdempotencyKey: "key-1",
	}
	sale, err := NewSaleRepository(client).Submit(operatorCtx(), sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sale.ID != "12345" {
		t.Errorf("sale.ID = %q", sale.ID)
	}
	if key != "key-1" {
		t.Errorf("Idempotency-Key = %q", key)
	}
	if len(body.Items) != 2 || body.Items[0].CostPrice != "10" || body.Items[1].CostPrice != "5.5" {
		t.Errorf("items = %+v", body.Items)
	}
	if body.Customer != nil || body.AmountPaid != "30" || body.Session != "s1" || body.Register != "r1" {
		t.Errorf("body = %+v", body)
	}
}

func TestSaleSubmitCustomerNullInBody(t *testing.T) {
	var raw string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		raw = string(b)
		fmt.Fprint(w, `{"id":"x"}`)
	}))
	_, err := NewSaleRepository(client).Submit(operatorCtx(), domainRepo.SaleSubmission{SessionID: "s", RegisterID: "r"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(raw, `"customer":null`) {
		t.Errorf("body %s should carry customer:null", raw)
	}
}
