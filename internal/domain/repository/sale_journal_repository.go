package repository

import (
	"context"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/pkg/pagination"
)

// SaleJournalRepository defines the interface for the local sale journal
type SaleJournalRepository interface {
	Create(ctx context.Context, entry *entity.SaleJournalEntry) error
	GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.SaleJournalEntry, error)
	ListBySession(ctx context.Context, sessionID string, params *pagination.PaginationParams) ([]entity.SaleJournalEntry, int64, error)
	AllBySession(ctx context.Context, sessionID string) ([]entity.SaleJournalEntry, error)
}
