package backend

import (
	"context"
	"net/http"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
)

const registersPath = "pos/registers/"

type registerRecord struct {
	ID            flexString `json:"id"`
	Title         flexString `json:"title"`
	Notes         flexString `json:"notes"`
	Active        flexBool   `json:"active"`
	IsActive      flexBool   `json:"is_active"`
	Status        flexString `json:"status"`
	LocationTitle flexString `json:"location_title"`
}

func (r registerRecord) toEntity() entity.Register {
	return entity.Register{
		ID:            r.ID.String(),
		Title:         orDefault(r.Title, "Unknown Register"),
		Notes:         r.Notes.String(),
		Active:        !(r.Active.isFalse() || (!r.Active.set && r.IsActive.isFalse())),
		Status:        orDefault(r.Status, "closed"),
		LocationTitle: r.LocationTitle.String(),
	}
}

type registerRepository struct {
	client *Client
}

// NewRegisterRepository creates a register repository backed by the REST API
func NewRegisterRepository(client *Client) domainRepo.RegisterRepository {
	return &registerRepository{client: client}
}

func (r *registerRepository) List(ctx context.Context) ([]entity.Register, error) {
	records, err := list[registerRecord](ctx, r.client, registersPath)
	if err != nil {
		return nil, err
	}
	registers := make([]entity.Register, 0, len(records))
	for _, rec := range records {
		registers = append(registers, rec.toEntity())
	}
	return registers, nil
}

func (r *registerRepository) Create(ctx context.Context, input domainRepo.CreateRegisterInput) (*entity.Register, error) {
	body := map[string]any{
		"title":  input.Title,
		"notes":  input.Notes,
		"active": input.Active,
	}
	var rec registerRecord
	if err := r.client.do(ctx, http.MethodPost, registersPath, body, &rec, nil); err != nil {
		return nil, err
	}
	register := rec.toEntity()
	return &register, nil
}
