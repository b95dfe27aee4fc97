// Package auth provides optional HMAC JWT verification for the API.
// Authentication is off unless a secret is configured.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Config configures token verification.
type Config struct {
	// Secret is the HMAC signing key; empty disables authentication.
	Secret string `yaml:"secret" mapstructure:"secret"`
	// Issuer, when set, must match the token's iss claim.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
}

// Enabled reports whether tokens should be required.
func (c Config) Enabled() bool { return c.Secret != "" }

// Verifier validates bearer tokens.
type Verifier struct {
	cfg Config
}

// NewVerifier creates a Verifier from config.
func NewVerifier(cfg Config) *Verifier {
	return &Verifier{cfg: cfg}
}

// Verify parses and validates a token string, returning its claims.
func (v *Verifier) Verify(tokenString string) (map[string]interface{}, error) {
	claims := jwt.MapClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc, opts...)
	if err != nil {
		return nil, fmt.Errorf("auth: parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("auth: invalid token")
	}
	return claims, nil
}

func (v *Verifier) keyFunc(*jwt.Token) (interface{}, error) {
	return []byte(v.cfg.Secret), nil
}

// Sign issues an HMAC-signed token for the given claims. Used by tests
// and local tooling; the service itself only verifies.
func Sign(secret string, claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
