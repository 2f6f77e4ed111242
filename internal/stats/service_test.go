package stats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dmarroquin/creatorstats-backend/internal/report"
	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	"github.com/dmarroquin/creatorstats-backend/pkg/enums"
	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubSnapshotRepo struct {
	byKey      map[string]*models.StatSnapshot
	upsertRep  *PersistReport
	upsertErr  error
	overview   *OverviewTotals
	lastUpsert []models.StatSnapshot
}

func (s *stubSnapshotRepo) UpsertBatch(ctx context.Context, snapshots []models.StatSnapshot) (*PersistReport, error) {
	s.lastUpsert = snapshots
	if s.upsertRep == nil && s.upsertErr == nil {
		return &PersistReport{Committed: true}, nil
	}
	return s.upsertRep, s.upsertErr
}

func (s *stubSnapshotRepo) Get(ctx context.Context, scope enums.SnapshotScope, key string) (*models.StatSnapshot, error) {
	if snap, ok := s.byKey[string(scope)+":"+key]; ok {
		return snap, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubSnapshotRepo) Overview(ctx context.Context) (*OverviewTotals, error) {
	if s.overview == nil {
		return nil, errors.New("overview unavailable")
	}
	return s.overview, nil
}

type stubCache struct {
	values  map[string]string
	deleted []string
}

func (c *stubCache) Get(ctx context.Context, key string) (string, error) {
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	return "", errors.New("cache miss")
}

func (c *stubCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.values == nil {
		c.values = map[string]string{}
	}
	c.values[key] = value.(string)
	return nil
}

func (c *stubCache) Del(ctx context.Context, keys ...string) error {
	c.deleted = append(c.deleted, keys...)
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *stubCache) SnapshotKey(scope, key string) string {
	return "cs:snapshot:" + scope + ":" + key
}

func storedSnapshot(scope enums.SnapshotScope, key string) *models.StatSnapshot {
	return &models.StatSnapshot{
		Scope:           scope,
		Key:             key,
		TotalViews:      42,
		TotalNetRevenue: decimal.NewFromInt(7),
		DailySeries:     json.RawMessage(`[{"date":"2024-03-01","views":42,"premiumViews":0,"grossRevenue":"0","netRevenue":"7"}]`),
		TopCountries:    json.RawMessage(`[]`),
		TopContent:      json.RawMessage(`[]`),
		LastSyncedAt:    time.Now().UTC(),
	}
}

func newTestService(t *testing.T, repo *stubSnapshotRepo, cache *stubCache) *Service {
	t.Helper()
	params := ServiceParams{Repo: repo, CacheTTL: time.Minute}
	if cache != nil {
		params.Cache = cache
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error without repository")
	}
}

func TestGetOwnerMissingIsNotFound(t *testing.T) {
	svc := newTestService(t, &stubSnapshotRepo{}, nil)

	_, err := svc.GetOwner(context.Background(), uuid.New())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestGetChannelReadsStoreAndFillsCache(t *testing.T) {
	repo := &stubSnapshotRepo{byKey: map[string]*models.StatSnapshot{
		"channel:UC1": storedSnapshot(enums.SnapshotScopeChannel, "UC1"),
	}}
	cache := &stubCache{}
	svc := newTestService(t, repo, cache)

	dto, err := svc.GetChannel(context.Background(), "UC1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Snapshot.TotalViews != 42 {
		t.Fatalf("unexpected views: %d", dto.Snapshot.TotalViews)
	}
	if len(dto.Snapshot.DailySeries) != 1 {
		t.Fatalf("expected decoded daily series, got %+v", dto.Snapshot.DailySeries)
	}
	if _, ok := cache.values["cs:snapshot:channel:UC1"]; !ok {
		t.Fatal("expected cache fill after store read")
	}
}

func TestGetChannelServesFromCache(t *testing.T) {
	cached, _ := json.Marshal(&SnapshotDTO{
		Scope:    enums.SnapshotScopeChannel,
		Key:      "UC1",
		Snapshot: report.Snapshot{TotalViews: 9},
	})
	cache := &stubCache{values: map[string]string{
		"cs:snapshot:channel:UC1": string(cached),
	}}
	// repo is empty: a store read would return NOT_FOUND
	svc := newTestService(t, &stubSnapshotRepo{}, cache)

	dto, err := svc.GetChannel(context.Background(), "UC1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Snapshot.TotalViews != 9 {
		t.Fatalf("expected cached snapshot, got %+v", dto)
	}
}

func TestPersistBatchInvalidatesCache(t *testing.T) {
	repo := &stubSnapshotRepo{}
	cache := &stubCache{values: map[string]string{
		"cs:snapshot:owner:o1": "stale",
	}}
	svc := newTestService(t, repo, cache)

	rep, err := svc.PersistBatch(context.Background(), []KeyedSnapshot{
		{
			Scope:    enums.SnapshotScopeOwner,
			Key:      "o1",
			Snapshot: &report.Snapshot{TotalViews: 1},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rep.Committed {
		t.Fatal("expected committed report")
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != "cs:snapshot:owner:o1" {
		t.Fatalf("expected cache invalidation, got %v", cache.deleted)
	}
	if len(repo.lastUpsert) != 1 {
		t.Fatalf("expected one row upserted, got %d", len(repo.lastUpsert))
	}
}

func TestPersistBatchSkipsNilSnapshots(t *testing.T) {
	repo := &stubSnapshotRepo{}
	svc := newTestService(t, repo, nil)

	_, err := svc.PersistBatch(context.Background(), []KeyedSnapshot{
		{Scope: enums.SnapshotScopeOwner, Key: "o1", Snapshot: nil},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.lastUpsert) != 0 {
		t.Fatal("nil snapshots must not reach the store")
	}
}

func TestPersistBatchWrapsStoreFailure(t *testing.T) {
	repo := &stubSnapshotRepo{
		upsertRep: &PersistReport{},
		upsertErr: errors.New("connection reset"),
	}
	svc := newTestService(t, repo, nil)

	_, err := svc.PersistBatch(context.Background(), []KeyedSnapshot{
		{Scope: enums.SnapshotScopeOwner, Key: "o1", Snapshot: &report.Snapshot{}},
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestOverviewWrapsFailure(t *testing.T) {
	svc := newTestService(t, &stubSnapshotRepo{}, nil)

	_, err := svc.Overview(context.Background())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestOverviewPassThrough(t *testing.T) {
	svc := newTestService(t, &stubSnapshotRepo{overview: &OverviewTotals{
		Owners:          2,
		TotalViews:      150,
		TotalNetRevenue: decimal.NewFromInt(105),
	}}, nil)

	totals, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.Owners != 2 || totals.TotalViews != 150 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}
