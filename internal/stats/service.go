package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmarroquin/creatorstats-backend/internal/report"
	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	"github.com/dmarroquin/creatorstats-backend/pkg/enums"
	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
	"github.com/dmarroquin/creatorstats-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type snapshotRepository interface {
	UpsertBatch(ctx context.Context, snapshots []models.StatSnapshot) (*PersistReport, error)
	Get(ctx context.Context, scope enums.SnapshotScope, key string) (*models.StatSnapshot, error)
	Overview(ctx context.Context) (*OverviewTotals, error)
}

type snapshotCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SnapshotKey(scope, key string) string
}

// KeyedSnapshot pairs one built snapshot with its persistence key.
type KeyedSnapshot struct {
	Scope    enums.SnapshotScope
	Key      string
	Snapshot *report.Snapshot
}

// Service is the stats store surface: batch writes, cached reads and the
// admin overview.
type Service struct {
	repo     snapshotRepository
	cache    snapshotCache
	cacheTTL time.Duration
	logg     *logger.Logger
}

// ServiceParams wires the stats service.
type ServiceParams struct {
	Repo     snapshotRepository
	Cache    snapshotCache
	CacheTTL time.Duration
	Logger   *logger.Logger
}

// NewService builds a stats service. The cache is optional; reads fall
// through to the store when it is absent or unavailable.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("snapshot repository required")
	}
	return &Service{
		repo:     params.Repo,
		cache:    params.Cache,
		cacheTTL: params.CacheTTL,
		logg:     params.Logger,
	}, nil
}

// PersistBatch writes every snapshot of one sync batch and returns the
// per-key report. The write is all-or-nothing; cache entries for the batch
// keys are invalidated after a successful commit.
func (s *Service) PersistBatch(ctx context.Context, snapshots []KeyedSnapshot) (*PersistReport, error) {
	rows := make([]models.StatSnapshot, 0, len(snapshots))
	for _, keyed := range snapshots {
		if keyed.Snapshot == nil {
			continue
		}
		row, err := toModel(keyed.Scope, keyed.Key, keyed.Snapshot)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	rep, err := s.repo.UpsertBatch(ctx, rows)
	if err != nil {
		return rep, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist snapshot batch")
	}

	s.invalidate(ctx, snapshots)
	return rep, nil
}

func (s *Service) invalidate(ctx context.Context, snapshots []KeyedSnapshot) {
	if s.cache == nil || len(snapshots) == 0 {
		return
	}
	keys := make([]string, 0, len(snapshots))
	for _, keyed := range snapshots {
		keys = append(keys, s.cache.SnapshotKey(string(keyed.Scope), keyed.Key))
	}
	if err := s.cache.Del(ctx, keys...); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "snapshot cache invalidation failed: "+err.Error())
	}
}

// GetOwner reads the owner snapshot; absence is NOT_FOUND, the correct
// representation of "no data yet".
func (s *Service) GetOwner(ctx context.Context, ownerID uuid.UUID) (*SnapshotDTO, error) {
	return s.get(ctx, enums.SnapshotScopeOwner, ownerID.String())
}

// GetChannel reads the channel snapshot keyed by the external channel id.
func (s *Service) GetChannel(ctx context.Context, channelID string) (*SnapshotDTO, error) {
	return s.get(ctx, enums.SnapshotScopeChannel, channelID)
}

func (s *Service) get(ctx context.Context, scope enums.SnapshotScope, key string) (*SnapshotDTO, error) {
	if dto := s.cached(ctx, scope, key); dto != nil {
		return dto, nil
	}

	model, err := s.repo.Get(ctx, scope, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "snapshot not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load snapshot")
	}

	dto, err := fromModel(model)
	if err != nil {
		return nil, err
	}
	s.store(ctx, scope, key, dto)
	return dto, nil
}

func (s *Service) cached(ctx context.Context, scope enums.SnapshotScope, key string) *SnapshotDTO {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cache.SnapshotKey(string(scope), key))
	if err != nil || raw == "" {
		return nil
	}
	var dto SnapshotDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return nil
	}
	return &dto
}

func (s *Service) store(ctx context.Context, scope enums.SnapshotScope, key string, dto *SnapshotDTO) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(dto)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.SnapshotKey(string(scope), key), string(raw), s.cacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "snapshot cache write failed: "+err.Error())
	}
}

// Overview sums owner snapshots for the admin dashboard.
func (s *Service) Overview(ctx context.Context) (*OverviewTotals, error) {
	totals, err := s.repo.Overview(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stats overview")
	}
	return totals, nil
}
