package entity

import (
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/enum"
)

// PendingConfirmation is an irreversible action waiting for the operator.
// The action runs only when the confirmation is accepted; cancelling drops
// it without side effects.
type PendingConfirmation struct {
	ID        string                `json:"id"`
	Kind      enum.ConfirmationKind `json:"kind"`
	Message   string                `json:"message"`
	Summary   *CloseSummary         `json:"summary,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}
