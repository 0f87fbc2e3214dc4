package request

import "github.com/shopspring/decimal"

// OpenSessionRequest opens a session on the terminal's register. Amounts
// may be sent as JSON numbers or strings.
type OpenSessionRequest struct {
	OpeningBalance *decimal.Decimal `json:"opening_balance" binding:"required"`
}

// CloseSessionRequest asks to close the open session. The close is only
// sent to the backend once the returned confirmation is accepted.
type CloseSessionRequest struct {
	ClosingBalance *decimal.Decimal `json:"closing_balance" binding:"required"`
}
