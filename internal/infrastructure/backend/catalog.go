package backend

import (
	"context"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
)

const (
	productsPath   = "products/"
	categoriesPath = "products/categories/"
)

type productRecord struct {
	ID            flexString  `json:"id"`
	Title         flexString  `json:"title"`
	Image         flexString  `json:"image"`
	Price         flexDecimal `json:"price"`
	Cost          flexDecimal `json:"cost"`
	Barcode       flexString  `json:"barcode"`
	SKU           flexString  `json:"sku"`
	Category      flexString  `json:"category"`
	CurrentStock  flexDecimal `json:"current_stock"`
	StockQuantity flexDecimal `json:"stock_quantity"`
}

func (r productRecord) toEntity() entity.Product {
	return entity.Product{
		ID:            r.ID.String(),
		Title:         orDefault(r.Title, "Unknown Product"),
		Price:         r.Price.Decimal,
		Cost:          r.Cost.Decimal,
		StockQuantity: stockFromDecimal(firstDecimal(r.CurrentStock, r.StockQuantity)),
		SKU:           r.SKU.String(),
		Barcode:       r.Barcode.String(),
		Category:      r.Category.String(),
		Image:         r.Image.String(),
	}
}

type categoryRecord struct {
	ID     flexString `json:"id"`
	Title  flexString `json:"title"`
	Parent flexString `json:"parent"`
}

func (r categoryRecord) toEntity() entity.Category {
	c := entity.Category{
		ID:    r.ID.String(),
		Title: orDefault(r.Title, "Unknown Category"),
	}
	if r.Parent != "" {
		parent := r.Parent.String()
		c.Parent = &parent
	}
	return c
}

type catalogRepository struct {
	client *Client
}

// NewCatalogRepository creates a catalog repository backed by the REST API
func NewCatalogRepository(client *Client) domainRepo.CatalogRepository {
	return &catalogRepository{client: client}
}

func (r *catalogRepository) Products(ctx context.Context) ([]entity.Product, error) {
	records, err := list[productRecord](ctx, r.client, productsPath)
	if err != nil {
		return nil, err
	}
	products := make([]entity.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, rec.toEntity())
	}
	return products, nil
}

func (r *catalogRepository) Categories(ctx context.Context) ([]entity.Category, error) {
	records, err := list[categoryRecord](ctx, r.client, categoriesPath)
	if err != nil {
		return nil, err
	}
	categories := make([]entity.Category, 0, len(records))
	for _, rec := range records {
		categories = append(categories, rec.toEntity())
	}
	return categories, nil
}
