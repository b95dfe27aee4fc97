// Package middleware provides Gin middleware used by the HTTP server.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/flowforge/graphrun/logger"
)

// Recovery converts a handler panic into a 500 response, so one bad run
// request cannot take the whole service down. Panics inside executing
// steps never reach here: streaming mode converts them into error events.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Recovered from handler panic", map[string]interface{}{
					"panic":  fmt.Sprintf("%v", r),
					"method": c.Request.Method,
					"path":   c.Request.URL.Path,
					"stack":  string(debug.Stack()),
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
