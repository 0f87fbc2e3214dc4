package backend

import (
	"context"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
)

const partnersPath = "partners/"

type customerRecord struct {
	ID       flexString `json:"id"`
	Name     flexString `json:"name"`
	Email    flexString `json:"email"`
	Phone    flexString `json:"phone"`
	Address1 flexString `json:"address_1"`
	Address2 flexString `json:"address_2"`
}

func (r customerRecord) toEntity() entity.Customer {
	return entity.Customer{
		ID:      r.ID.String(),
		Name:    orDefault(r.Name, "Unknown Customer"),
		Email:   r.Email.String(),
		Phone:   r.Phone.String(),
		Address: orDefault(r.Address1, r.Address2.String()),
	}
}

type partnerRepository struct {
	client *Client
}

// NewPartnerRepository creates a partner repository backed by the REST API
func NewPartnerRepository(client *Client) domainRepo.PartnerRepository {
	return &partnerRepository{client: client}
}

func (r *partnerRepository) Customers(ctx context.Context) ([]entity.Customer, error) {
	records, err := list[customerRecord](ctx, r.client, partnersPath)
	if err != nil {
		return nil, err
	}
	customers := make([]entity.Customer, 0, len(records))
	for _, rec := range records {
		customers = append(customers, rec.toEntity())
	}
	return customers, nil
}
