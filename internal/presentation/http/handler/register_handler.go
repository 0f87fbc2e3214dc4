package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// RegisterHandler handles register listing and selection
type RegisterHandler struct {
	registerService *service.RegisterService
	taxRate         decimal.Decimal
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(registerService *service.RegisterService, taxRate decimal.Decimal) *RegisterHandler {
	return &RegisterHandler{registerService: registerService, taxRate: taxRate}
}

// List returns every register with its open session, if any
func (h *RegisterHandler) List(c *gin.Context) {
	views, err := h.registerService.ListRegisters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Registers retrieved successfully", views)
}

// Create creates a register on the backend
func (h *RegisterHandler) Create(c *gin.Context) {
	var req request.CreateRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	register, err := h.registerService.CreateRegister(backendContext(c), service.CreateRegisterInput{
		Title: req.Title,
		Notes: req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Register created successfully", register)
}

// Select binds a register to the terminal
func (h *RegisterHandler) Select(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	var req request.SelectRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.registerService.SelectRegister(c.Request.Context(), ws, req.RegisterID)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Register selected. Please open a session"
	if view.ActiveSession != nil {
		message = "Register selected. Active session resumed"
	}
	response.OK(c, message, ws.State(h.taxRate))
}

// Deselect returns the terminal to register selection
func (h *RegisterHandler) Deselect(c *gin.Context) {
	ws := requireWorkstation(c)
	if ws == nil {
		return
	}
	if err := h.registerService.Deselect(ws); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Register deselected", ws.State(h.taxRate))
}
