package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestVerify_RoundTrip(t *testing.T) {
	v := NewVerifier(Config{Secret: "test-secret"})
	token, err := Sign("test-secret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatal(err)
	}

	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims["sub"] != "user-1" {
		t.Fatalf("unexpected claims %v", claims)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	v := NewVerifier(Config{Secret: "right"})
	token, err := Sign("wrong", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Verify(token); err == nil {
		t.Fatal("expected verification failure")
	}
}

func TestVerify_IssuerChecked(t *testing.T) {
	v := NewVerifier(Config{Secret: "s", Issuer: "graphrun"})
	token, err := Sign("s", jwt.MapClaims{
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Verify(token); err == nil {
		t.Fatal("expected issuer mismatch")
	}
}

func TestConfig_Enabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Fatal("empty secret must disable auth")
	}
	if !(Config{Secret: "x"}).Enabled() {
		t.Fatal("secret must enable auth")
	}
}
