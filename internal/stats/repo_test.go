package stats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	"github.com/dmarroquin/creatorstats-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStatsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS stat_snapshots (
  id TEXT PRIMARY KEY,
  scope TEXT NOT NULL,
  key TEXT NOT NULL,
  total_views INTEGER NOT NULL DEFAULT 0,
  total_premium_views INTEGER NOT NULL DEFAULT 0,
  total_net_revenue TEXT NOT NULL DEFAULT '0',
  daily_series TEXT NOT NULL DEFAULT '[]',
  top_countries TEXT NOT NULL DEFAULT '[]',
  top_content TEXT NOT NULL DEFAULT '[]',
  last_synced_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (scope, key)
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func snapshotRow(scope enums.SnapshotScope, key string, views int64, net string) models.StatSnapshot {
	return models.StatSnapshot{
		Scope:             scope,
		Key:               key,
		TotalViews:        views,
		TotalNetRevenue:   decimal.RequireFromString(net),
		DailySeries:       json.RawMessage(`[]`),
		TopCountries:      json.RawMessage(`[]`),
		TopContent:        json.RawMessage(`[]`),
		LastSyncedAt:      time.Now().UTC(),
	}
}

func TestUpsertBatchInsertsAndReplaces(t *testing.T) {
	db := setupStatsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	rep, err := repo.UpsertBatch(ctx, []models.StatSnapshot{
		snapshotRow(enums.SnapshotScopeOwner, "owner-1", 100, "70"),
		snapshotRow(enums.SnapshotScopeChannel, "UC1", 100, "70"),
	})
	require.NoError(t, err)
	assert.True(t, rep.Committed)
	assert.Len(t, rep.Applied, 2)
	assert.Empty(t, rep.Failed)

	// a later sync fully replaces the row for the same key
	rep, err = repo.UpsertBatch(ctx, []models.StatSnapshot{
		snapshotRow(enums.SnapshotScopeOwner, "owner-1", 250, "175"),
	})
	require.NoError(t, err)
	assert.True(t, rep.Committed)

	got, err := repo.Get(ctx, enums.SnapshotScopeOwner, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(250), got.TotalViews)
	assert.True(t, got.TotalNetRevenue.Equal(decimal.RequireFromString("175")))

	var count int64
	require.NoError(t, db.Model(&models.StatSnapshot{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestUpsertBatchEmptyIsNoop(t *testing.T) {
	repo := NewRepository(setupStatsTestDB(t))

	rep, err := repo.UpsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, rep.Committed)
	assert.Empty(t, rep.Applied)
}

func TestUpsertBatchRollsBackOnFailure(t *testing.T) {
	db := setupStatsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	rep, err := repo.UpsertBatch(ctx, []models.StatSnapshot{
		snapshotRow(enums.SnapshotScopeOwner, "owner-ok", 10, "1"),
		func() models.StatSnapshot {
			// nil jsonb violates the NOT NULL constraint
			s := snapshotRow(enums.SnapshotScopeOwner, "owner-bad", 10, "1")
			s.DailySeries = nil
			return s
		}(),
	})
	require.Error(t, err)
	assert.False(t, rep.Committed)
	require.Len(t, rep.Failed, 1)
	assert.Equal(t, "owner-bad", rep.Failed[0].Key)

	// the whole batch rolled back, including the key that succeeded
	_, err = repo.Get(ctx, enums.SnapshotScopeOwner, "owner-ok")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetMissingSnapshot(t *testing.T) {
	repo := NewRepository(setupStatsTestDB(t))

	_, err := repo.Get(context.Background(), enums.SnapshotScopeOwner, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOverviewSumsOwnerSnapshotsOnly(t *testing.T) {
	repo := NewRepository(setupStatsTestDB(t))
	ctx := context.Background()

	_, err := repo.UpsertBatch(ctx, []models.StatSnapshot{
		snapshotRow(enums.SnapshotScopeOwner, "owner-1", 100, "70"),
		snapshotRow(enums.SnapshotScopeOwner, "owner-2", 50, "35"),
		snapshotRow(enums.SnapshotScopeChannel, "UC1", 999, "999"),
	})
	require.NoError(t, err)

	totals, err := repo.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.Owners)
	assert.Equal(t, int64(150), totals.TotalViews)
	assert.True(t, totals.TotalNetRevenue.Equal(decimal.RequireFromString("105")))
}
