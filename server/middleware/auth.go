package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// AuthConfig configures the bearer-token authentication middleware.
type AuthConfig struct {
	// TokenValidator checks a raw token and returns its claims. The
	// middleware stays agnostic of the token format; graphrun plugs in
	// the auth package's HMAC JWT verifier.
	TokenValidator func(token string) (map[string]interface{}, error)
	// SkipPaths are URL path prefixes served without a token, e.g. the
	// health and version endpoints.
	SkipPaths []string
}

// Auth rejects requests lacking a valid bearer token. Claims from a
// validated token are copied into the Gin context for downstream handlers.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		raw := c.GetHeader("Authorization")
		if raw == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		if !strings.HasPrefix(raw, bearerPrefix) {
			abortUnauthorized(c, "malformed authorization header")
			return
		}

		claims, err := cfg.TokenValidator(strings.TrimPrefix(raw, bearerPrefix))
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		for key, value := range claims {
			c.Set(key, value)
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": reason})
}
