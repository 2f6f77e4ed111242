package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmarroquin/creatorstats-backend/api/routes"
	"github.com/dmarroquin/creatorstats-backend/internal/archive"
	"github.com/dmarroquin/creatorstats-backend/internal/channels"
	"github.com/dmarroquin/creatorstats-backend/internal/owners"
	"github.com/dmarroquin/creatorstats-backend/internal/ownership"
	"github.com/dmarroquin/creatorstats-backend/internal/report"
	"github.com/dmarroquin/creatorstats-backend/internal/stats"
	"github.com/dmarroquin/creatorstats-backend/internal/statsync"
	"github.com/dmarroquin/creatorstats-backend/pkg/bigquery"
	"github.com/dmarroquin/creatorstats-backend/pkg/config"
	"github.com/dmarroquin/creatorstats-backend/pkg/db"
	"github.com/dmarroquin/creatorstats-backend/pkg/logger"
	"github.com/dmarroquin/creatorstats-backend/pkg/metrics"
	"github.com/dmarroquin/creatorstats-backend/pkg/migrate"
	"github.com/dmarroquin/creatorstats-backend/pkg/pubsub"
	"github.com/dmarroquin/creatorstats-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var archiver *archive.Writer
	if cfg.FeatureFlags.ArchiveRows {
		bqClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap bigquery", err)
			os.Exit(1)
		}
		defer bqClient.Close()

		archiver, err = archive.New(bqClient, archive.Config{})
		if err != nil {
			logg.Error(context.Background(), "failed to create archive writer", err)
			os.Exit(1)
		}
	}

	var publisher *statsync.NoticePublisher
	if cfg.FeatureFlags.PublishSyncNotices {
		psClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer psClient.Close()

		publisher, err = statsync.NewNoticePublisher(psClient)
		if err != nil {
			logg.Error(context.Background(), "failed to create sync notice publisher", err)
			os.Exit(1)
		}
	}

	ownersService, err := owners.NewService(owners.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create owners service", err)
		os.Exit(1)
	}

	channelsService, err := channels.NewService(channels.NewRepository(dbClient.DB()), owners.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create channels service", err)
		os.Exit(1)
	}

	statsService, err := stats.NewService(stats.ServiceParams{
		Repo:     stats.NewRepository(dbClient.DB()),
		Cache:    redisClient,
		CacheTTL: cfg.Sync.SnapshotCacheTTL,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	syncParams := statsync.ServiceParams{
		Ownership: ownership.NewRepository(dbClient.DB()),
		Store:     statsService,
		Metrics:   metrics.NewSyncMetrics(prometheus.DefaultRegisterer),
		Policy: report.Policy{
			ExposeChannelGross: cfg.Sync.ExposeChannelGross,
			TopContentLimit:    cfg.Sync.TopContentLimit,
		},
		Logger: logg,
	}
	if archiver != nil {
		syncParams.Archiver = archiver
	}
	if publisher != nil {
		syncParams.Publisher = publisher
	}
	syncService, err := statsync.NewService(syncParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, syncService, statsService, ownersService, channelsService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
