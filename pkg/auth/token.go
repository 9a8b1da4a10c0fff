package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/livingwaters/fundraiser-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// RoleAdmin is the only role the system issues: a single shared admin
// identity, not per-admin accounts.
const RoleAdmin = "admin"

// AccessTokenClaims represents the typed JWT issued to admin clients. The
// jti doubles as the revocable session id.
type AccessTokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// MintAccessToken issues a signed admin JWT. The returned session id is
// what the session store tracks for revocation.
func MintAccessToken(cfg config.JWTConfig, now time.Time) (token, sessionID string, err error) {
	if cfg.Secret == "" {
		return "", "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", "", fmt.Errorf("jwt issuer is required")
	}
	if cfg.ExpirationMinutes <= 0 {
		return "", "", fmt.Errorf("jwt expiration minutes must be positive")
	}

	sessionID = uuid.NewString()
	claims := AccessTokenClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenTTL())),
			ID:        sessionID,
		},
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, sessionID, nil
}

// ParseAccessToken validates the signature, issuer, and expiry of a token.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
