package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// CatalogHandler serves the terminal's catalog snapshot
type CatalogHandler struct {
	catalogService *service.CatalogService
	taxRate        decimal.Decimal
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService, taxRate decimal.Decimal) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, taxRate: taxRate}
}

// Products lists products, filtered by ?category= and ?search=
func (h *CatalogHandler) Products(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	products, err := h.catalogService.Products(c.Request.Context(), ws, entity.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products retrieved successfully", products)
}

// Categories lists product categories
func (h *CatalogHandler) Categories(c *gin.Context) {
	h.serve(c, "Categories retrieved successfully", func(cat *service.Catalog) interface{} { return cat.Categories })
}

// Customers lists customers
func (h *CatalogHandler) Customers(c *gin.Context) {
	h.serve(c, "Customers retrieved successfully", func(cat *service.Catalog) interface{} { return cat.Customers })
}

// PaymentMethods lists payment methods
func (h *CatalogHandler) PaymentMethods(c *gin.Context) {
	h.serve(c, "Payment methods retrieved successfully", func(cat *service.Catalog) interface{} { return cat.PaymentMethods })
}

// Currencies lists currencies
func (h *CatalogHandler) Currencies(c *gin.Context) {
	h.serve(c, "Currencies retrieved successfully", func(cat *service.Catalog) interface{} { return cat.Currencies })
}

func (h *CatalogHandler) serve(c *gin.Context, message string, pick func(*service.Catalog) interface{}) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	catalog, err := h.catalogService.Ensure(c.Request.Context(), ws)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, pick(catalog))
}

// Refresh reloads the snapshot from the backend
func (h *CatalogHandler) Refresh(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	if err := h.catalogService.Load(c.Request.Context(), ws); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Catalog refreshed", ws.Catalog)
}

// SelectCustomer attaches a customer to the next sale
func (h *CatalogHandler) SelectCustomer(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	var req request.SelectCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	customer, err := h.catalogService.SelectCustomer(c.Request.Context(), ws, req.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "Customer cleared"
	if customer != nil {
		message = "Customer selected"
	}
	response.OK(c, message, ws.State(h.taxRate))
}
