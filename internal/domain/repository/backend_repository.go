package repository

import (
	"context"
	"time"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RegisterRepository reads and creates registers on the backend
type RegisterRepository interface {
	List(ctx context.Context) ([]entity.Register, error)
	Create(ctx context.Context, input CreateRegisterInput) (*entity.Register, error)
}

// SessionRepository drives the session lifecycle on the backend
type SessionRepository interface {
	List(ctx context.Context) ([]entity.Session, error)
	Open(ctx context.Context, input OpenSessionInput) (*entity.Session, error)
	Close(ctx context.Context, sessionID string, closingBalance decimal.Decimal) (*entity.Session, error)
}

// CatalogRepository reads products and categories
type CatalogRepository interface {
	Products(ctx context.Context) ([]entity.Product, error)
	Categories(ctx context.Context) ([]entity.Category, error)
}

// PartnerRepository reads customers
type PartnerRepository interface {
	Customers(ctx context.Context) ([]entity.Customer, error)
}

// PaymentRepository reads the payment configuration
type PaymentRepository interface {
	Methods(ctx context.Context) ([]entity.PaymentMethod, error)
	Currencies(ctx context.Context) ([]entity.Currency, error)
}

// SaleRepository submits sales
type SaleRepository interface {
	Submit(ctx context.Context, submission SaleSubmission) (*SubmittedSale, error)
}

// CreateRegisterInput is the body of a register creation
type CreateRegisterInput struct {
	Title  string
	Notes  string
	Active bool
}

// OpenSessionInput is the body of a session opening
type OpenSessionInput struct {
	Title          string
	StartAt        time.Time
	OpeningBalance decimal.Decimal
	RegisterID     string
}

// SaleLineInput is one submitted cart line
type SaleLineInput struct {
	ProductID string
	Quantity  int
	CostPrice decimal.Decimal
}

// SaleSubmission is the sale posted at checkout. AmountPaid is sent as the
// decimal string the backend expects.
type SaleSubmission struct {
	Items          []SaleLineInput
	SessionID      string
	RegisterID     string
	CustomerID     *string
	AmountPaid     string
	Notes          string
	IdempotencyKey string
}

// SubmittedSale is what the terminal needs back from a sale submission
type SubmittedSale struct {
	ID string
}
