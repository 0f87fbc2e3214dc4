package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// TerminalHandler exposes a terminal's workstation state
type TerminalHandler struct {
	store   *service.WorkstationStore
	taxRate decimal.Decimal
}

// NewTerminalHandler creates a new terminal handler
func NewTerminalHandler(store *service.WorkstationStore, taxRate decimal.Decimal) *TerminalHandler {
	return &TerminalHandler{store: store, taxRate: taxRate}
}

// State returns the terminal's screen, register, session, cart and tender
func (h *TerminalHandler) State(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	response.OK(c, "Terminal state retrieved", ws.State(h.taxRate))
}

// Delete discards the terminal's workstation (tab closed). The cart is
// lost; an open session stays open on the backend.
func (h *TerminalHandler) Delete(c *gin.Context) {
	if !h.store.Delete(GetTerminalID(c)) {
		response.NotFound(c, "Terminal not found")
		return
	}
	response.NoContent(c)
}
