// Package endpoint provides the standard operational HTTP endpoints.
package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health returns a handler that reports service liveness.
func Health(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
