package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/livingwaters/fundraiser-backend/api/responses"
	pkgauth "github.com/livingwaters/fundraiser-backend/pkg/auth"
	pkgerrors "github.com/livingwaters/fundraiser-backend/pkg/errors"
	"github.com/livingwaters/fundraiser-backend/pkg/logger"
)

// TokenValidator is the slice of the auth service the middleware needs.
type TokenValidator interface {
	Validate(ctx context.Context, tokenString string) (*pkgauth.AccessTokenClaims, error)
}

// Admin validates a bearer token against the live session set and seeds the
// request context with the session identity.
func Admin(validator TokenValidator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := validator.Validate(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxSessionID, claims.ID)
			ctx = context.WithValue(ctx, ctxRole, claims.Role)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, claims.ID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
