package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/presentation/http/dto/response"
	"golang.org/x/crypto/bcrypt"
)

// ManagerPINHeader carries the manager PIN for gated operations
const ManagerPINHeader = "X-Manager-PIN"

// RequireManagerPIN gates an operation behind the manager PIN. With no hash
// configured every request passes.
func RequireManagerPIN(pinHash string) gin.HandlerFunc {
	hash := []byte(pinHash)
	return func(c *gin.Context) {
		if len(hash) == 0 {
			c.Next()
			return
		}

		pin := c.GetHeader(ManagerPINHeader)
		if pin == "" {
			response.Forbidden(c, "Manager PIN required")
			c.Abort()
			return
		}
		if err := bcrypt.CompareHashAndPassword(hash, []byte(pin)); err != nil {
			response.Forbidden(c, "Invalid manager PIN")
			c.Abort()
			return
		}

		c.Next()
	}
}
