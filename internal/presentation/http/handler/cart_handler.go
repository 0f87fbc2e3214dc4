package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
)

// CartHandler handles cart edits
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the cart lines and totals
func (h *CartHandler) Get(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	response.OK(c, "Cart retrieved successfully", gin.H{
		"items":  ws.Cart.Items(),
		"totals": h.cartService.Totals(ws),
	})
}

// AddItem adds one unit of a product
func (h *CartHandler) AddItem(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.cartService.Add(c.Request.Context(), ws, req.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item.Name+" added to cart", gin.H{
		"item":  item,
		"state": ws.State(h.cartService.TaxRate()),
	})
}

// UpdateQuantity sets a line quantity
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	var req request.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.cartService.UpdateQuantity(c.Request.Context(), ws, c.Param("item_id"), *req.Quantity); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart updated", ws.State(h.cartService.TaxRate()))
}

// UpdatePrice overrides a line's unit price
func (h *CartHandler) UpdatePrice(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	var req request.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.cartService.UpdatePrice(ws, c.Param("item_id"), *req.UnitPrice); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Price updated", ws.State(h.cartService.TaxRate()))
}

// RemoveItem deletes a line
func (h *CartHandler) RemoveItem(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	if err := h.cartService.Remove(ws, c.Param("item_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed", ws.State(h.cartService.TaxRate()))
}

// Clear empties the cart and resets customer and payment entry
func (h *CartHandler) Clear(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	h.cartService.Clear(ws)
	response.OK(c, "Cart cleared", ws.State(h.cartService.TaxRate()))
}
