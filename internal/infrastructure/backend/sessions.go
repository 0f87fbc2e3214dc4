package backend

import (
	"context"
	"net/http"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const sessionsPath = "pos/sessions/"

type sessionRecord struct {
	ID             flexString         `json:"id"`
	Title          flexString         `json:"title"`
	Register       flexString         `json:"register"`
	RegisterTitle  flexString         `json:"register_title"`
	Status         enum.SessionStatus `json:"status"`
	OpeningBalance flexDecimal        `json:"opening_balance"`
	ClosingBalance flexDecimal        `json:"closing_balance"`
	TotalSales     flexDecimal        `json:"total_sales"`
	TotalRefunds   flexDecimal        `json:"total_refunds"`
	StartAt        flexTime           `json:"start_at"`
	EndAt          flexTime           `json:"end_at"`
}

func (r sessionRecord) toEntity() entity.Session {
	s := entity.Session{
		ID:             r.ID.String(),
		Title:          orDefault(r.Title, "Unknown Session"),
		Register:       r.Register.String(),
		RegisterTitle:  r.RegisterTitle.String(),
		Status:         r.Status,
		OpeningBalance: r.OpeningBalance.Decimal,
		TotalSales:     r.TotalSales.Decimal,
		TotalRefunds:   r.TotalRefunds.Decimal,
		StartAt:        r.StartAt.Time,
		EndAt:          r.EndAt.ptr(),
	}
	if r.ClosingBalance.set {
		closing := r.ClosingBalance.Decimal
		s.ClosingBalance = &closing
	}
	return s
}

type sessionRepository struct {
	client *Client
}

// NewSessionRepository creates a session repository backed by the REST API
func NewSessionRepository(client *Client) domainRepo.SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) List(ctx context.Context) ([]entity.Session, error) {
	records, err := list[sessionRecord](ctx, r.client, sessionsPath)
	if err != nil {
		return nil, err
	}
	sessions := make([]entity.Session, 0, len(records))
	for _, rec := range records {
		sessions = append(sessions, rec.toEntity())
	}
	return sessions, nil
}

func (r *sessionRepository) Open(ctx context.Context, input domainRepo.OpenSessionInput) (*entity.Session, error) {
	body := map[string]any{
		"title":           input.Title,
		"start_at":        input.StartAt.UTC().Format(time.RFC3339Nano),
		"status":          enum.SessionStatusOpened.String(),
		"opening_balance": input.OpeningBalance,
		"register":        input.RegisterID,
	}
	var rec sessionRecord
	if err := r.client.do(ctx, http.MethodPost, sessionsPath, body, &rec, nil); err != nil {
		return nil, err
	}
	session := rec.toEntity()
	if session.Register == "" {
		session.Register = input.RegisterID
	}
	return &session, nil
}

func (r *sessionRepository) Close(ctx context.Context, sessionID string, closingBalance decimal.Decimal) (*entity.Session, error) {
	body := map[string]any{"closing_balance": closingBalance}
	var rec sessionRecord
	if err := r.client.do(ctx, http.MethodPost, sessionsPath+sessionID+"/close/", body, &rec, nil); err != nil {
		return nil, err
	}
	session := rec.toEntity()
	if session.ID == "" {
		session.ID = sessionID
	}
	if session.ClosingBalance == nil {
		session.ClosingBalance = &closingBalance
	}
	return &session, nil
}
