package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
)

// terminalIDPattern accepts ids a browser can generate (uuid, nanoid, ...)
var terminalIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// TerminalMiddleware validates the :terminal_id path parameter and adds it
// to the context
func TerminalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		terminalID := c.Param("terminal_id")
		if !terminalIDPattern.MatchString(terminalID) {
			response.BadRequest(c, "Invalid terminal id")
			c.Abort()
			return
		}
		c.Set("terminal_id", terminalID)
		c.Next()
	}
}

// WorkstationMiddleware locks the terminal's workstation for the rest of
// the request, so requests from one terminal run one at a time.
func WorkstationMiddleware(store *service.WorkstationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		terminalID := GetTerminalID(c)
		if terminalID == "" {
			response.BadRequest(c, "Terminal context required")
			c.Abort()
			return
		}

		ws := store.Acquire(terminalID)
		defer ws.Release()

		if operatorID := GetOperatorID(c); operatorID != "" {
			ws.OperatorID = operatorID
		}
		c.Set("workstation", ws)

		c.Next()
	}
}

// GetTerminalID retrieves the terminal id from gin context
func GetTerminalID(c *gin.Context) string {
	return c.GetString("terminal_id")
}
