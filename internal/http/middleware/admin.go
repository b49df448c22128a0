package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ticketlens/backend/internal/models"
)

// AdminKey guards diagnostic routes. An empty key leaves them open.
func AdminKey(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if required == "" {
			c.Next()
			return
		}
		key := c.GetHeader("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(required)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Text:  "Invalid admin key",
				Error: models.ErrorBody{Code: "UNAUTHORIZED", Message: "Invalid admin key"},
			})
			return
		}
		c.Next()
	}
}
