package transport

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"orbital-sim/backend/internal/config"
)

func TestNewAuthenticator_DisabledWithoutSecret(t *testing.T) {
	if auth := NewAuthenticator(config.AuthConfig{}, discardLogger()); auth != nil {
		t.Fatal("Expected nil authenticator without secret")
	}
}

func TestAuthenticator_Validate(t *testing.T) {
	auth := NewAuthenticator(config.AuthConfig{JWTSecret: testSecret, Issuer: "orbital-sim"}, discardLogger())
	other := NewAuthenticator(config.AuthConfig{JWTSecret: testSecret + "x", Issuer: "orbital-sim"}, discardLogger())
	foreign := NewAuthenticator(config.AuthConfig{JWTSecret: testSecret, Issuer: "someone-else"}, discardLogger())

	valid, _ := auth.IssueToken("operator", time.Hour)
	expired, _ := auth.IssueToken("operator", -time.Minute)
	wrongKey, _ := other.IssueToken("operator", time.Hour)
	wrongIssuer, _ := foreign.IssueToken("operator", time.Hour)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: "orbital-sim"}).SignedString([]byte(testSecret))

	tests := []struct {
		name  string
		token string
		ok    bool
	}{
		{"valid", valid, true},
		{"expired", expired, false},
		{"wrong key", wrongKey, false},
		{"wrong issuer", wrongIssuer, false},
		{"no expiry", noExpiry, false},
		{"garbage", "not-a-token", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := auth.Validate(tt.token)
			if tt.ok {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				if claims.Subject != "operator" {
					t.Errorf("Subject = %q", claims.Subject)
				}
				return
			}
			if err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
