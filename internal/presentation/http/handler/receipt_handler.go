package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// ReceiptHandler handles receipt display and printing
type ReceiptHandler struct {
	receiptService *service.ReceiptService
	taxRate        decimal.Decimal
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, taxRate decimal.Decimal) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService, taxRate: taxRate}
}

// Current returns the receipt on screen
func (h *ReceiptHandler) Current(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	receipt, err := h.receiptService.Current(ws)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved successfully", receipt)
}

// Print prints the receipt on screen. A printer failure still returns the
// receipt, with a warning.
func (h *ReceiptHandler) Print(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	receipt, err := h.receiptService.PrintCurrent(backendContext(c), ws)
	if err != nil {
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt sent to printer", gin.H{"receipt": receipt})
}

// Dismiss hides the receipt
func (h *ReceiptHandler) Dismiss(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	if err := h.receiptService.Dismiss(ws); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt dismissed", ws.State(h.taxRate))
}

// Lookup returns a journaled receipt by number
func (h *ReceiptHandler) Lookup(c *gin.Context) {
	receipt, err := h.receiptService.Lookup(c.Request.Context(), c.Param("receipt_number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved successfully", receipt)
}

// Reprint prints a journaled receipt again
func (h *ReceiptHandler) Reprint(c *gin.Context) {
	var req request.ReprintRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	if req.Copies == 0 {
		req.Copies = 1
	}

	ctx := backendContext(c)
	receipt, err := h.receiptService.Lookup(ctx, c.Param("receipt_number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	for i := 0; i < req.Copies; i++ {
		if err := h.receiptService.Print(ctx, receipt); err != nil {
			response.OK(c, "Receipt found but printing failed", gin.H{
				"receipt": receipt,
				"printed": i,
				"warning": err.Error(),
			})
			return
		}
	}
	response.OK(c, "Receipt reprinted", gin.H{"receipt": receipt, "printed": req.Copies})
}

// PrinterStatus returns the current printer connection status
func (h *ReceiptHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.receiptService.GetStatus())
}

// TestPrint sends a test page to the printer
func (h *ReceiptHandler) TestPrint(c *gin.Context) {
	receipt, err := h.receiptService.TestPrint(c.Request.Context())
	if err != nil {
		// The receipt is still useful when no printer is attached.
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}
	response.OK(c, "Test page sent to printer", gin.H{"receipt": receipt})
}
