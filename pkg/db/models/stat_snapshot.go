package models

import (
	"encoding/json"
	"time"

	"github.com/dmarroquin/creatorstats-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatSnapshot is the persisted aggregated report for one owner or one
// channel. A sync fully replaces the row for a (scope, key) pair; the table
// never accumulates across batches.
type StatSnapshot struct {
	ID                uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Scope             enums.SnapshotScope `gorm:"column:scope;type:text;not null;uniqueIndex:idx_stat_snapshots_scope_key,priority:1"`
	Key               string              `gorm:"column:key;type:text;not null;uniqueIndex:idx_stat_snapshots_scope_key,priority:2"`
	TotalViews        int64               `gorm:"column:total_views;not null"`
	TotalPremiumViews int64               `gorm:"column:total_premium_views;not null"`
	TotalNetRevenue   decimal.Decimal     `gorm:"column:total_net_revenue;type:numeric(14,4);not null"`
	DailySeries       json.RawMessage     `gorm:"column:daily_series;type:jsonb;not null"`
	TopCountries      json.RawMessage     `gorm:"column:top_countries;type:jsonb;not null"`
	TopContent        json.RawMessage     `gorm:"column:top_content;type:jsonb;not null"`
	LastSyncedAt      time.Time           `gorm:"column:last_synced_at;not null"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
