package entity

import (
	"testing"

	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func TestComputeTender(t *testing.T) {
	total := decimal.RequireFromString("27")
	tests := []struct {
		name   string
		paid   string
		state  enum.TenderState
		change string
		due    string
	}{
		{"overpaid", "30", enum.TenderChange, "3", "0"},
		{"underpaid", "20.5", enum.TenderDue, "0", "6.5"},
		{"exact", "27.00", enum.TenderSettled, "0", "0"},
		{"empty counts as zero", "", enum.TenderDue, "0", "27"},
		{"whitespace", "  ", enum.TenderDue, "0", "27"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tender, err := ComputeTender(total, tt.paid)
			if err != nil {
				t.Fatal(err)
			}
			if tender.State != tt.state {
				t.Errorf("state = %s, want %s", tender.State, tt.state)
			}
			if !tender.Change.Equal(decimal.RequireFromString(tt.change)) {
				t.Errorf("change = %s, want %s", tender.Change, tt.change)
			}
			if !tender.Due.Equal(decimal.RequireFromString(tt.due)) {
				t.Errorf("due = %s, want %s", tender.Due, tt.due)
			}
		})
	}
}

func TestComputeTenderRejectsBadInput(t *testing.T) {
	for _, raw := range []string{"abc", "-1", "1,50"} {
		if _, err := ComputeTender(decimal.NewFromInt(1), raw); err == nil {
			t.Errorf("%q accepted", raw)
		}
	}
}

func TestSaleChangeAndOutstanding(t *testing.T) {
	s := Sale{Total: decimal.NewFromInt(10), AmountPaid: decimal.NewFromInt(4), AmountDue: decimal.NewFromInt(6)}
	if !s.Outstanding().Equal(decimal.NewFromInt(6)) || !s.Change().IsZero() {
		t.Errorf("underpaid: outstanding = %s change = %s", s.Outstanding(), s.Change())
	}
	s = Sale{Total: decimal.NewFromInt(10), AmountPaid: decimal.NewFromInt(15), AmountDue: decimal.NewFromInt(-5)}
	if !s.Outstanding().IsZero() || !s.Change().Equal(decimal.NewFromInt(5)) {
		t.Errorf("overpaid: outstanding = %s change = %s", s.Outstanding(), s.Change())
	}
}

func TestSessionSummarize(t *testing.T) {
	s := Session{
		Status:         enum.SessionStatusOpened,
		OpeningBalance: decimal.NewFromInt(100),
		TotalSales:     decimal.RequireFromString("53.99"),
	}
	sum := s.Summarize(decimal.NewFromInt(150))
	if !sum.Expected.Equal(decimal.RequireFromString("153.99")) {
		t.Errorf("expected = %s", sum.Expected)
	}
	if !sum.Discrepancy.Equal(decimal.RequireFromString("-3.99")) {
		t.Errorf("discrepancy = %s", sum.Discrepancy)
	}
	var none *Session
	if none.IsOpen() {
		t.Error("nil session reported open")
	}
}
