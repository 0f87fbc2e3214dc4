package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// CheckoutHandler handles payment entry and sale submission
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	taxRate         decimal.Decimal
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService, taxRate decimal.Decimal) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, taxRate: taxRate}
}

// SetPayment records the amount tendered and payment method
func (h *CheckoutHandler) SetPayment(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tender, err := h.checkoutService.SetPayment(c.Request.Context(), ws, service.PaymentInput{
		AmountPaid:      req.AmountPaid,
		PaymentMethodID: req.PaymentMethodID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment updated", gin.H{
		"tender": tender,
		"state":  ws.State(h.taxRate),
	})
}

// Submit posts the cart as a sale
func (h *CheckoutHandler) Submit(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}

	result, err := h.checkoutService.Submit(backendContext(c), ws)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale completed successfully", gin.H{
		"sale":    result.Sale,
		"receipt": result.Receipt,
		"state":   ws.State(h.taxRate),
	})
}
