package statsync

import (
	"context"
	"fmt"
	"time"

	"github.com/dmarroquin/creatorstats-backend/internal/aggregate"
	"github.com/dmarroquin/creatorstats-backend/internal/ingest"
	"github.com/dmarroquin/creatorstats-backend/internal/ownership"
	"github.com/dmarroquin/creatorstats-backend/internal/report"
	"github.com/dmarroquin/creatorstats-backend/internal/stats"
	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	"github.com/dmarroquin/creatorstats-backend/pkg/enums"
	"github.com/dmarroquin/creatorstats-backend/pkg/logger"
	"github.com/dmarroquin/creatorstats-backend/pkg/metrics"
	"github.com/google/uuid"
)

const metricSource = "analytics-export"

type ownershipSource interface {
	ListBindings(ctx context.Context) ([]models.Channel, error)
	ListOwners(ctx context.Context) ([]models.Owner, error)
}

type statsPersister interface {
	PersistBatch(ctx context.Context, snapshots []stats.KeyedSnapshot) (*stats.PersistReport, error)
}

type rowArchiver interface {
	Archive(ctx context.Context, batchID string, rows []ingest.UsageRow) error
}

type noticePublisher interface {
	PublishSyncNotice(ctx context.Context, notice Notice) error
}

// Notice is the completion message emitted after a batch.
type Notice struct {
	BatchID          string    `json:"batchId"`
	RowsMatched      int       `json:"rowsMatched"`
	RowsOrphaned     int       `json:"rowsOrphaned"`
	OrphanedChannels []string  `json:"orphanedChannels"`
	SyncedAt         time.Time `json:"syncedAt"`
}

// BatchReport is the caller-facing outcome of one sync: matched/orphaned
// tallies plus the per-key persistence report, never a bare boolean.
type BatchReport struct {
	BatchID          string               `json:"batchId"`
	RowsMatched      int                  `json:"rowsMatched"`
	RowsOrphaned     int                  `json:"rowsOrphaned"`
	OrphanedChannels []string             `json:"orphanedChannels"`
	Persist          *stats.PersistReport `json:"persist,omitempty"`
	SyncedAt         time.Time            `json:"syncedAt"`
}

// OrphanedCount is the number of distinct unresolved channel identifiers.
func (b *BatchReport) OrphanedCount() int {
	return len(b.OrphanedChannels)
}

// Service runs the sync pipeline: resolve ownership, normalize, archive,
// fold, build snapshots, persist, notify.
type Service struct {
	ownership ownershipSource
	store     statsPersister
	archiver  rowArchiver
	publisher noticePublisher
	metrics   *metrics.SyncMetrics
	builder   *report.Builder
	logg      *logger.Logger
	now       func() time.Time
}

// ServiceParams wires the sync service. Archiver and Publisher are optional.
type ServiceParams struct {
	Ownership ownershipSource
	Store     statsPersister
	Archiver  rowArchiver
	Publisher noticePublisher
	Metrics   *metrics.SyncMetrics
	Policy    report.Policy
	Logger    *logger.Logger
	Clock     func() time.Time
}

// NewService builds the sync orchestrator.
func NewService(params ServiceParams) (*Service, error) {
	if params.Ownership == nil {
		return nil, fmt.Errorf("ownership source required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("stats store required")
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &Service{
		ownership: params.Ownership,
		store:     params.Store,
		archiver:  params.Archiver,
		publisher: params.Publisher,
		metrics:   params.Metrics,
		builder:   report.NewBuilder(params.Policy),
		logg:      params.Logger,
		now:       now,
	}, nil
}

// Run processes one export batch. The ownership view is fetched fresh at
// batch start and a fetch failure aborts before any persistence. The
// returned report carries per-key persistence outcomes even when Run also
// returns an error.
func (s *Service) Run(ctx context.Context, records []ingest.RawRecord) (*BatchReport, error) {
	batchID := uuid.New().String()
	if s.logg != nil {
		ctx = s.logg.WithBatchID(ctx, batchID)
	}
	started := s.now()

	resolver, err := ownership.Build(ctx, s.ownership)
	if err != nil {
		s.metrics.IncFailure(metricSource)
		return nil, err
	}

	rows := ingest.NormalizeAll(records)
	s.archive(ctx, batchID, rows)

	result := aggregate.Fold(rows, resolver)
	syncedAt := s.now()

	rep := &BatchReport{
		BatchID:          batchID,
		RowsMatched:      result.MatchedRows,
		RowsOrphaned:     result.OrphanedRows,
		OrphanedChannels: result.Orphaned,
		SyncedAt:         syncedAt,
	}

	persistRep, err := s.store.PersistBatch(ctx, s.buildSnapshots(result, syncedAt))
	rep.Persist = persistRep
	if err != nil {
		s.metrics.IncFailure(metricSource)
		return rep, err
	}

	s.metrics.ObserveDuration(metricSource, s.now().Sub(started))
	s.metrics.AddMatchedRows(metricSource, result.MatchedRows)
	s.metrics.AddOrphanedRows(metricSource, result.OrphanedRows)
	s.metrics.IncSuccess(metricSource)

	s.notify(ctx, rep)

	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("sync complete: %d rows matched, %d channels orphaned",
			rep.RowsMatched, rep.OrphanedCount()))
	}
	return rep, nil
}

func (s *Service) buildSnapshots(result *aggregate.Result, syncedAt time.Time) []stats.KeyedSnapshot {
	keyed := make([]stats.KeyedSnapshot, 0, len(result.Owners)+len(result.Channels))
	for ownerID, acc := range result.Owners {
		if snap := s.builder.Owner(acc, syncedAt); snap != nil {
			keyed = append(keyed, stats.KeyedSnapshot{
				Scope:    enums.SnapshotScopeOwner,
				Key:      ownerID.String(),
				Snapshot: snap,
			})
		}
	}
	for channelID, acc := range result.Channels {
		if snap := s.builder.Channel(acc, syncedAt); snap != nil {
			keyed = append(keyed, stats.KeyedSnapshot{
				Scope:    enums.SnapshotScopeChannel,
				Key:      channelID,
				Snapshot: snap,
			})
		}
	}
	return keyed
}

func (s *Service) archive(ctx context.Context, batchID string, rows []ingest.UsageRow) {
	if s.archiver == nil || len(rows) == 0 {
		return
	}
	// the archive is a side corpus; a write failure never aborts the sync
	if err := s.archiver.Archive(ctx, batchID, rows); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "usage row archive failed: "+err.Error())
	}
}

func (s *Service) notify(ctx context.Context, rep *BatchReport) {
	if s.publisher == nil {
		return
	}
	notice := Notice{
		BatchID:          rep.BatchID,
		RowsMatched:      rep.RowsMatched,
		RowsOrphaned:     rep.RowsOrphaned,
		OrphanedChannels: rep.OrphanedChannels,
		SyncedAt:         rep.SyncedAt,
	}
	if err := s.publisher.PublishSyncNotice(ctx, notice); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "sync notice publish failed: "+err.Error())
	}
}
