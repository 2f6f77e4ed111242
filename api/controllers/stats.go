package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmarroquin/creatorstats-backend/api/responses"
	"github.com/dmarroquin/creatorstats-backend/internal/stats"
	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
	"github.com/dmarroquin/creatorstats-backend/pkg/logger"
)

type statsReader interface {
	GetOwner(ctx context.Context, ownerID uuid.UUID) (*stats.SnapshotDTO, error)
	GetChannel(ctx context.Context, channelID string) (*stats.SnapshotDTO, error)
	Overview(ctx context.Context) (*stats.OverviewTotals, error)
}

// OwnerStats serves the owner snapshot; absence maps to 404.
func OwnerStats(svc statsReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}

		ownerID, err := uuid.Parse(chi.URLParam(r, "ownerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid owner id"))
			return
		}

		dto, err := svc.GetOwner(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// ChannelStats serves the channel snapshot keyed by external channel id.
func ChannelStats(svc statsReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}

		channelID := strings.TrimSpace(chi.URLParam(r, "channelId"))
		if channelID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "channel id is required"))
			return
		}

		dto, err := svc.GetChannel(r.Context(), channelID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// StatsOverview serves the admin dashboard totals summed over owner snapshots.
func StatsOverview(svc statsReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}

		totals, err := svc.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}
