package repository

import (
	"context"
	"errors"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/pkg/pagination"
	"gorm.io/gorm"
)

type saleJournalRepository struct {
	db *gorm.DB
}

// NewSaleJournalRepository creates a new sale journal repository
func NewSaleJournalRepository(db *gorm.DB) domainRepo.SaleJournalRepository {
	return &saleJournalRepository{db: db}
}

func (r *saleJournalRepository) Create(ctx context.Context, entry *entity.SaleJournalEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *saleJournalRepository) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.SaleJournalEntry, error) {
	var entry entity.SaleJournalEntry
	err := r.db.WithContext(ctx).First(&entry, "receipt_number = ?", receiptNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *saleJournalRepository) ListBySession(ctx context.Context, sessionID string, params *pagination.PaginationParams) ([]entity.SaleJournalEntry, int64, error) {
	var entries []entity.SaleJournalEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SaleJournalEntry{}).Scopes(SessionScope(sessionID))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Scopes(Paginate(params)).
		Order("sold_at DESC").
		Find(&entries).Error

	return entries, total, err
}

func (r *saleJournalRepository) AllBySession(ctx context.Context, sessionID string) ([]entity.SaleJournalEntry, error) {
	var entries []entity.SaleJournalEntry
	err := r.db.WithContext(ctx).
		Scopes(SessionScope(sessionID)).
		Order("sold_at ASC").
		Find(&entries).Error
	return entries, err
}
