package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/livingwaters/fundraiser-backend/api/responses"
	"github.com/livingwaters/fundraiser-backend/pkg/config"
	pkgerrors "github.com/livingwaters/fundraiser-backend/pkg/errors"
	"github.com/livingwaters/fundraiser-backend/pkg/logger"
)

// Pinger is the dependency health surface; redis and the journal expose it.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Fundraiser-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the optional dependencies; a nil pinger means the
// feature is disabled and never blocks readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, pingers map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Fundraiser-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := map[string]string{"status": "ready"}
		for name, pinger := range pingers {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				status[name] = err.Error()
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").WithDetails(status))
				return
			}
			status[name] = "ok"
		}
		responses.WriteSuccess(w, status)
	}
}
