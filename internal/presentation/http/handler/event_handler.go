package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/infrastructure/events"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
)

// EventHandler lets the browser announce events raised outside this service
type EventHandler struct {
	publisher events.Publisher
}

// NewEventHandler creates a new event handler
func NewEventHandler(publisher events.Publisher) *EventHandler {
	return &EventHandler{publisher: publisher}
}

// CompanyChanged announces that the operator switched company. Every
// terminal drops its catalog snapshot and reloads it on next use.
func (h *EventHandler) CompanyChanged(c *gin.Context) {
	var body map[string]interface{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}
	}
	h.publisher.Publish(c.Request.Context(), events.NewEvent(events.TopicCompanyChanged, "", body))
	response.Success(c, 202, "Company change accepted", nil)
}
