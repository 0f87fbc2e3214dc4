package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the local sale journal
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ListSales lists journaled sales of a session, newest first
func (h *ReportHandler) ListSales(c *gin.Context) {
	entries, page, err := h.reportService.ListSessionSales(c.Request.Context(), c.Param("session_id"), paginationParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Sales retrieved successfully", entries, page)
}

// Export downloads the session's sales as an XLSX workbook
func (h *ReportHandler) Export(c *gin.Context) {
	sessionID := c.Param("session_id")
	data, err := h.reportService.ExportSession(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="session-%s-sales.xlsx"`, sessionID))
	c.Data(200, xlsxContentType, data)
}
