package auth

import (
	"testing"
	"time"

	"github.com/livingwaters/fundraiser-backend/pkg/config"
)

func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "fundraiser-test",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := jwtTestConfig()

	token, sessionID, err := MintAccessToken(cfg, time.Now())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected a session id")
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Role != RoleAdmin {
		t.Fatalf("unexpected role %q", claims.Role)
	}
	if claims.ID != sessionID {
		t.Fatalf("jti %q does not match minted session id %q", claims.ID, sessionID)
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := jwtTestConfig()

	token, _, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := jwtTestConfig()
	token, _, err := MintAccessToken(cfg, time.Now())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestMintAccessTokenValidatesConfig(t *testing.T) {
	cfg := jwtTestConfig()
	cfg.Secret = ""
	if _, _, err := MintAccessToken(cfg, time.Now()); err == nil {
		t.Fatal("expected missing secret to error")
	}
}
