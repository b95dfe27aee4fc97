package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// headerRequestID is echoed on every response so clients can correlate a
// run request with the server's logs.
const headerRequestID = "X-Request-Id"

// RequestID tags each request with an id, keeping a caller-supplied one
// when present and generating a uuid otherwise. The id is stored in the
// Gin context under "request_id" for the request logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}
