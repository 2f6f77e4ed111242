package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/dmarroquin/creatorstats-backend/api/responses"
	"github.com/dmarroquin/creatorstats-backend/pkg/config"
	"github.com/dmarroquin/creatorstats-backend/pkg/db"
	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
	"github.com/dmarroquin/creatorstats-backend/pkg/logger"
	"github.com/dmarroquin/creatorstats-backend/pkg/redis"
)

const envHeader = "X-CreatorStats-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the hard dependencies. Nil pingers are skipped so the
// endpoint stays honest when optional collaborators are disabled.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		failures := map[string]string{}
		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				failures["db"] = err.Error()
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				failures["redis"] = err.Error()
			}
		}

		if len(failures) > 0 {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(failures))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
