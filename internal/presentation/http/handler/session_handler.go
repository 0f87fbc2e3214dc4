package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// SessionHandler handles opening and closing cash-drawer sessions
type SessionHandler struct {
	sessionService *service.SessionService
	taxRate        decimal.Decimal
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService, taxRate decimal.Decimal) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, taxRate: taxRate}
}

// Open opens a session, or adopts the one already open on the register
func (h *SessionHandler) Open(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	var req request.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.sessionService.Open(backendContext(c), ws, *req.OpeningBalance)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := 201
	if result.AlreadyActive {
		status = 200
	}
	response.Success(c, status, result.Message, gin.H{
		"already_active": result.AlreadyActive,
		"state":          ws.State(h.taxRate),
	})
}

// RequestClose returns the close summary awaiting confirmation
func (h *SessionHandler) RequestClose(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	var req request.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	pending, err := h.sessionService.RequestClose(ws, *req.ClosingBalance)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, pending.Message, pending)
}

// Accept runs the pending confirmation
func (h *SessionHandler) Accept(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}

	result, err := h.sessionService.Accept(backendContext(c), ws, c.Param("confirmation_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session closed successfully", gin.H{
		"session": result.Session,
		"summary": result.Summary,
		"state":   ws.State(h.taxRate),
	})
}

// Cancel drops the pending confirmation
func (h *SessionHandler) Cancel(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	if err := h.sessionService.Cancel(ws, c.Param("confirmation_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cancelled", ws.State(h.taxRate))
}

// Refresh reloads the session and its running totals from the backend
func (h *SessionHandler) Refresh(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	if err := h.sessionService.Refresh(c.Request.Context(), ws); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session refreshed", ws.State(h.taxRate))
}
