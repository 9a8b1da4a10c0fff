package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/livingwaters/fundraiser-backend/api/responses"
	"github.com/livingwaters/fundraiser-backend/internal/schedule"
	pkgerrors "github.com/livingwaters/fundraiser-backend/pkg/errors"
	"github.com/livingwaters/fundraiser-backend/pkg/logger"
)

const maxScheduleWeeks = 52

// Schedule returns the upcoming Sunday rotation. An optional weeks query
// parameter overrides the default horizon.
func Schedule(logg *logger.Logger, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		weeks := schedule.DefaultWeeks
		if raw := r.URL.Query().Get("weeks"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > maxScheduleWeeks {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "weeks must be between 1 and 52"))
				return
			}
			weeks = parsed
		}
		responses.WriteSuccess(w, schedule.Upcoming(now(), weeks))
	}
}
