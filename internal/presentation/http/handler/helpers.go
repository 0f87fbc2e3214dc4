package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/pagination"
)

// GetWorkstation extracts the locked workstation set by WorkstationMiddleware
func GetWorkstation(c *gin.Context) *service.Workstation {
	val, exists := c.Get("workstation")
	if !exists {
		return nil
	}
	ws, ok := val.(*service.Workstation)
	if !ok {
		return nil
	}
	return ws
}

// GetTerminalID extracts the terminal id from the Gin context
func GetTerminalID(c *gin.Context) string {
	return c.GetString("terminal_id")
}

// requireWorkstation writes an error and returns nil when the route is not
// behind WorkstationMiddleware
func requireWorkstation(c *gin.Context) *service.Workstation {
	ws := GetWorkstation(c)
	if ws == nil {
		response.BadRequest(c, "Terminal context required")
	}
	return ws
}

// backendContext keeps the operator token of the request but survives the
// browser disconnecting, so a sale or close in flight is not cut in half.
// The backend client bounds every call with its own timeout.
func backendContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// bindError maps a binding failure to a 400 response
func bindError(c *gin.Context, err error) {
	response.Error(c, apperror.NewBadRequestError("Invalid request: "+err.Error()))
}

// paginationParams reads page and per_page query parameters
func paginationParams(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}
