package controllers

import (
	"net/http"
	"strconv"

	"github.com/livingwaters/fundraiser-backend/api/middleware"
	"github.com/livingwaters/fundraiser-backend/api/responses"
	"github.com/livingwaters/fundraiser-backend/internal/journal"
	pkgerrors "github.com/livingwaters/fundraiser-backend/pkg/errors"
	"github.com/livingwaters/fundraiser-backend/pkg/logger"
)

const maxJournalLimit = 500

// JournalEntries serves the durable order audit trail, newest first. The
// journal is optional wiring; without it the endpoint reports a missing
// dependency.
func JournalEntries(jrnl *journal.Journal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jrnl == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "order journal is not configured"))
			return
		}

		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > maxJournalLimit {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "limit must be between 1 and 500"))
				return
			}
			limit = parsed
		}

		ctx := logg.WithFields(r.Context(), map[string]any{
			"role":      middleware.RoleFromContext(r.Context()),
			"sessionId": middleware.SessionIDFromContext(r.Context()),
		})

		records, err := jrnl.Recent(ctx, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading order journal"))
			return
		}
		logg.Info(ctx, "audit journal read")
		responses.WriteSuccess(w, records)
	}
}
