package pagination

import (
	"context"
	"encoding/json"
	"errors"
	"math"
)

// =============================================================================
// Page-Based Pagination (served by this service)
// =============================================================================

// Pagination represents pagination metadata in responses
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// PaginationParams represents input parameters for pagination
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// DefaultPagination returns default pagination values
func DefaultPagination() *PaginationParams {
	return &PaginationParams{
		Page:    1,
		PerPage: 15,
	}
}

// Validate ensures pagination parameters are within valid ranges
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 15
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
}

// Offset calculates the offset for SQL queries
func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// NewPagination creates a new Pagination response
func NewPagination(page, perPage int, total int64) *Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(perPage)))
	}

	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// PaginatedResult represents a paginated result with items and pagination info
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// NewPaginatedResult creates a new paginated result
func NewPaginatedResult[T any](items []T, pagination *Pagination) *PaginatedResult[T] {
	return &PaginatedResult[T]{
		Items:      items,
		Pagination: pagination,
	}
}

// =============================================================================
// Link Pagination (consumed from the backend)
// =============================================================================

// ErrTooManyPages is returned when a listing does not terminate within the
// configured page budget
var ErrTooManyPages = errors.New("pagination: page limit reached")

// Page is a backend listing page: {count, next, previous, results}. Some
// endpoints return a bare JSON array instead; UnmarshalJSON accepts both.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// UnmarshalJSON decodes either an envelope or a bare array
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err == nil {
		p.Results = items
		p.Count = len(items)
		return nil
	}
	var env pageEnvelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*p = Page[T](env)
	return nil
}

// pageEnvelope has Page's fields without its UnmarshalJSON method
type pageEnvelope[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether a next link is present
func (p *Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// FetchFunc loads one page from a URL; an empty URL means the first page
type FetchFunc[T any] func(ctx context.Context, url string) (*Page[T], error)

// Collect follows next links and concatenates results, stopping after
// maxPages pages
func Collect[T any](ctx context.Context, maxPages int, fetch FetchFunc[T]) ([]T, error) {
	if maxPages < 1 {
		maxPages = 1
	}
	var all []T
	next := ""
	for i := 0; i < maxPages; i++ {
		page, err := fetch(ctx, next)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		if !page.HasNext() {
			return all, nil
		}
		next = *page.Next
	}
	return all, ErrTooManyPages
}
