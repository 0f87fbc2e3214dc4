package backend

import (
	"context"
	"net/http"

	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
)

const salesPath = "pos/sales/"

type saleLine struct {
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
	CostPrice string `json:"cost_price"`
}

type saleBody struct {
	Items      []saleLine `json:"items"`
	Session    string     `json:"session"`
	Register   string     `json:"register"`
	Customer   *string    `json:"customer"`
	AmountPaid string     `json:"amount_paid"`
	Notes      string     `json:"notes"`
}

type saleRecord struct {
	ID flexString `json:"id"`
}

type saleRepository struct {
	client *Client
}

// NewSaleRepository creates a sale repository backed by the REST API
func NewSaleRepository(client *Client) domainRepo.SaleRepository {
	return &saleRepository{client: client}
}

// Submit posts a sale. The idempotency key, when set, is sent as the
// Idempotency-Key header so a retried submission is not booked twice.
func (r *saleRepository) Submit(ctx context.Context, submission domainRepo.SaleSubmission) (*domainRepo.SubmittedSale, error) {
	body := saleBody{
		Items:      make([]saleLine, 0, len(submission.Items)),
		Session:    submission.SessionID,
		Register:   submission.RegisterID,
		Customer:   submission.CustomerID,
		AmountPaid: submission.AmountPaid,
		Notes:      submission.Notes,
	}
	for _, item := range submission.Items {
		body.Items = append(body.Items, saleLine{
			Product:   item.ProductID,
			Quantity:  item.Quantity,
			CostPrice: item.CostPrice.String(),
		})
	}

	var rec saleRecord
	headers := map[string]string{"Idempotency-Key": submission.IdempotencyKey}
	if err := r.client.do(ctx, http.MethodPost, salesPath, body, &rec, headers); err != nil {
		return nil, err
	}
	return &domainRepo.SubmittedSale{ID: rec.ID.String()}, nil
}
