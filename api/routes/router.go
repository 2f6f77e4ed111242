package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmarroquin/creatorstats-backend/api/controllers"
	"github.com/dmarroquin/creatorstats-backend/api/middleware"
	"github.com/dmarroquin/creatorstats-backend/internal/channels"
	"github.com/dmarroquin/creatorstats-backend/internal/ingest"
	"github.com/dmarroquin/creatorstats-backend/internal/owners"
	"github.com/dmarroquin/creatorstats-backend/internal/stats"
	"github.com/dmarroquin/creatorstats-backend/internal/statsync"
	"github.com/dmarroquin/creatorstats-backend/pkg/config"
	"github.com/dmarroquin/creatorstats-backend/pkg/db"
	"github.com/dmarroquin/creatorstats-backend/pkg/logger"
	"github.com/dmarroquin/creatorstats-backend/pkg/redis"
)

type syncService interface {
	Run(ctx context.Context, records []ingest.RawRecord) (*statsync.BatchReport, error)
}

type statsService interface {
	GetOwner(ctx context.Context, ownerID uuid.UUID) (*stats.SnapshotDTO, error)
	GetChannel(ctx context.Context, channelID string) (*stats.SnapshotDTO, error)
	Overview(ctx context.Context) (*stats.OverviewTotals, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	syncSvc syncService,
	statsSvc statsService,
	ownersSvc owners.Service,
	channelsSvc channels.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1/stats", func(r chi.Router) {
		r.Get("/owners/{ownerId}", controllers.OwnerStats(statsSvc, logg))
		r.Get("/channels/{channelId}", controllers.ChannelStats(statsSvc, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/analytics/sync", controllers.AnalyticsSync(syncSvc, cfg.Sync.MaxUploadMB, logg))
		r.Get("/stats/overview", controllers.StatsOverview(statsSvc, logg))

		r.Route("/owners", func(r chi.Router) {
			r.Post("/", controllers.OwnerCreate(ownersSvc, logg))
			r.Get("/", controllers.OwnerList(ownersSvc, logg))
			r.Get("/{ownerId}", controllers.OwnerGet(ownersSvc, logg))
			r.Patch("/{ownerId}", controllers.OwnerUpdate(ownersSvc, logg))
			r.Delete("/{ownerId}", controllers.OwnerDelete(ownersSvc, logg))
		})

		r.Route("/channels", func(r chi.Router) {
			r.Post("/", controllers.ChannelBind(channelsSvc, logg))
			r.Post("/bulk", controllers.ChannelBindBulk(channelsSvc, logg))
			r.Get("/", controllers.ChannelList(channelsSvc, logg))
			r.Get("/{channelId}", controllers.ChannelGet(channelsSvc, logg))
			r.Delete("/{channelId}", controllers.ChannelUnbind(channelsSvc, logg))
		})
	})

	return r
}
