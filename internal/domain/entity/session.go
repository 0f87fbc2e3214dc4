package entity

import (
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Session is a cash-drawer session on a register. The backend owns it; the
// terminal only holds the last view it fetched.
type Session struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Register       string             `json:"register"`
	RegisterTitle  string             `json:"register_title,omitempty"`
	Status         enum.SessionStatus `json:"status"`
	OpeningBalance decimal.Decimal    `json:"opening_balance"`
	ClosingBalance *decimal.Decimal   `json:"closing_balance,omitempty"`
	TotalSales     decimal.Decimal    `json:"total_sales"`
	TotalRefunds   decimal.Decimal    `json:"total_refunds"`
	StartAt        time.Time          `json:"start_at"`
	EndAt          *time.Time         `json:"end_at,omitempty"`
}

// IsOpen reports whether sales may be posted against the session
func (s *Session) IsOpen() bool {
	return s != nil && s.Status == enum.SessionStatusOpened
}

// ExpectedCash is what the drawer should hold: opening balance plus sales
func (s *Session) ExpectedCash() decimal.Decimal {
	return s.OpeningBalance.Add(s.TotalSales)
}

// CloseSummary is shown to the operator before and after closing a session.
type CloseSummary struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalRefunds   decimal.Decimal `json:"total_refunds"`
	Expected       decimal.Decimal `json:"expected"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Discrepancy    decimal.Decimal `json:"discrepancy"`
}

// Summarize computes the close summary for a declared closing balance.
// Discrepancy = closing - (opening + total sales).
func (s *Session) Summarize(closing decimal.Decimal) CloseSummary {
	expected := s.ExpectedCash()
	return CloseSummary{
		OpeningBalance: s.OpeningBalance,
		TotalSales:     s.TotalSales,
		TotalRefunds:   s.TotalRefunds,
		Expected:       expected,
		ClosingBalance: closing,
		Discrepancy:    closing.Sub(expected),
	}
}
