// Package auth implements the shared-admin credential flow: one password
// for the whole fulfillment team, exchanged for a revocable bearer token.
package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/livingwaters/fundraiser-backend/pkg/auth"
	"github.com/livingwaters/fundraiser-backend/pkg/config"
	pkgerrors "github.com/livingwaters/fundraiser-backend/pkg/errors"
	"github.com/livingwaters/fundraiser-backend/pkg/security"
	"github.com/livingwaters/fundraiser-backend/pkg/session"
)

// Service defines the admin authentication operations.
type Service interface {
	Login(ctx context.Context, password string) (LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	ChangePassword(ctx context.Context, current, next string) error
	Validate(ctx context.Context, tokenString string) (*auth.AccessTokenClaims, error)
}

// LoginResult carries the minted credential back to the controller.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ServiceParams wires the auth service dependencies.
type ServiceParams struct {
	JWT      config.JWTConfig
	Password config.PasswordConfig
	Sessions session.Store

	// InitialPassword is the plaintext shared secret from config; it is
	// hashed once at startup and never retained.
	InitialPassword string

	Now func() time.Time
}

type service struct {
	jwt      config.JWTConfig
	password config.PasswordConfig
	sessions session.Store
	now      func() time.Time

	mu   sync.RWMutex
	hash string
}

// NewService hashes the configured shared password and wires the service.
func NewService(params ServiceParams) (Service, error) {
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session store required")
	}
	if strings.TrimSpace(params.InitialPassword) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admin password must be configured")
	}
	hash, err := security.HashPassword(params.InitialPassword, params.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash admin password")
	}
	svc := &service{
		jwt:      params.JWT,
		password: params.Password,
		sessions: params.Sessions,
		now:      params.Now,
		hash:     hash,
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

func (s *service) Login(ctx context.Context, password string) (LoginResult, error) {
	s.mu.RLock()
	hash := s.hash
	s.mu.RUnlock()

	ok, err := security.VerifyPassword(password, hash)
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify admin password")
	}
	if !ok {
		return LoginResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid admin password")
	}

	now := s.now()
	token, sessionID, err := auth.MintAccessToken(s.jwt, now)
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	ttl := s.jwt.AccessTokenTTL()
	if err := s.sessions.Put(ctx, sessionID, ttl); err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register admin session")
	}
	return LoginResult{Token: token, ExpiresAt: now.Add(ttl)}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke admin session")
	}
	return nil
}

// ChangePassword rotates the shared secret in place. Existing sessions stay
// valid; only future logins check against the new password.
func (s *service) ChangePassword(ctx context.Context, current, next string) error {
	if len(next) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "new password must be at least 8 characters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := security.VerifyPassword(current, s.hash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify admin password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(next, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash admin password")
	}
	s.hash = hash
	return nil
}

// Validate parses the bearer token and confirms its session has not been
// revoked. Signature-valid tokens from logged-out sessions are rejected.
func (s *service) Validate(ctx context.Context, tokenString string) (*auth.AccessTokenClaims, error) {
	claims, err := auth.ParseAccessToken(s.jwt, tokenString)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}
	live, err := s.sessions.Has(ctx, claims.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin session")
	}
	if !live {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked or expired")
	}
	return claims, nil
}
