package backend

import (
	"context"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
)

const (
	paymentMethodsPath = "payments/methods/"
	currenciesPath     = "payments/currency/"
)

type paymentMethodRecord struct {
	ID       flexString `json:"id"`
	Name     flexString `json:"name"`
	IsOnline flexBool   `json:"is_online"`
}

type currencyRecord struct {
	ID        flexString `json:"id"`
	Title     flexString `json:"title"`
	Symbol    flexString `json:"symbol"`
	Code      flexString `json:"code"`
	IsDefault flexBool   `json:"is_default"`
}

type paymentRepository struct {
	client *Client
}

// NewPaymentRepository creates a payment configuration repository backed by
// the REST API
func NewPaymentRepository(client *Client) domainRepo.PaymentRepository {
	return &paymentRepository{client: client}
}

func (r *paymentRepository) Methods(ctx context.Context) ([]entity.PaymentMethod, error) {
	records, err := list[paymentMethodRecord](ctx, r.client, paymentMethodsPath)
	if err != nil {
		return nil, err
	}
	methods := make([]entity.PaymentMethod, 0, len(records))
	for _, rec := range records {
		methods = append(methods, entity.PaymentMethod{
			ID:       rec.ID.String(),
			Name:     orDefault(rec.Name, "Unknown Method"),
			IsOnline: rec.IsOnline.value,
		})
	}
	return methods, nil
}

func (r *paymentRepository) Currencies(ctx context.Context) ([]entity.Currency, error) {
	records, err := list[currencyRecord](ctx, r.client, currenciesPath)
	if err != nil {
		return nil, err
	}
	currencies := make([]entity.Currency, 0, len(records))
	for _, rec := range records {
		currencies = append(currencies, entity.Currency{
			ID:        rec.ID.String(),
			Title:     orDefault(rec.Title, "Unknown Currency"),
			Symbol:    rec.Symbol.String(),
			Code:      rec.Code.String(),
			IsDefault: rec.IsDefault.value,
		})
	}
	return currencies, nil
}
