package stats

import (
	"context"
	"fmt"

	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	"github.com/dmarroquin/creatorstats-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles snapshot persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to snapshot operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var upsertColumns = []string{
	"total_views",
	"total_premium_views",
	"total_net_revenue",
	"daily_series",
	"top_countries",
	"top_content",
	"last_synced_at",
	"updated_at",
}

// UpsertBatch writes every snapshot in one transaction. Each key is attempted
// behind a savepoint so one bad row does not poison the rest and the report
// carries an accurate per-key outcome; when any key fails the whole
// transaction rolls back.
func (r *Repository) UpsertBatch(ctx context.Context, snapshots []models.StatSnapshot) (*PersistReport, error) {
	rep := &PersistReport{}
	if len(snapshots) == 0 {
		rep.Committed = true
		return rep, nil
	}

	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range snapshots {
			snap := snapshots[i]
			if snap.ID == uuid.Nil {
				snap.ID = uuid.New()
			}
			key := KeyRef{Scope: snap.Scope, Key: snap.Key}
			sp := fmt.Sprintf("snap_%d", i)

			tx.SavePoint(sp)
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "scope"}, {Name: "key"}},
				DoUpdates: clause.AssignmentColumns(upsertColumns),
			}).Create(&snap).Error
			if err != nil {
				tx.RollbackTo(sp)
				rep.recordFailure(key, err)
				continue
			}
			rep.recordApplied(key)
		}
		return rep.Err()
	})

	if txErr != nil {
		return rep, txErr
	}
	rep.Committed = true
	return rep, nil
}

// Get loads one snapshot by scope and key.
func (r *Repository) Get(ctx context.Context, scope enums.SnapshotScope, key string) (*models.StatSnapshot, error) {
	var snap models.StatSnapshot
	if err := r.db.WithContext(ctx).
		Where("scope = ? AND key = ?", scope, key).
		First(&snap).Error; err != nil {
		return nil, err
	}
	return &snap, nil
}

// OverviewTotals sums the owner-scope snapshots for the global dashboard.
type OverviewTotals struct {
	Owners            int64           `json:"owners"`
	TotalViews        int64           `json:"totalViews"`
	TotalPremiumViews int64           `json:"totalPremiumViews"`
	TotalNetRevenue   decimal.Decimal `json:"totalNetRevenue"`
}

// Overview aggregates all owner snapshots into one summary row.
func (r *Repository) Overview(ctx context.Context) (*OverviewTotals, error) {
	var row struct {
		Owners            int64
		TotalViews        int64
		TotalPremiumViews int64
		TotalNetRevenue   decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.StatSnapshot{}).
		Select(
			"COUNT(*) AS owners, " +
				"COALESCE(SUM(total_views), 0) AS total_views, " +
				"COALESCE(SUM(total_premium_views), 0) AS total_premium_views, " +
				"COALESCE(SUM(total_net_revenue), 0) AS total_net_revenue",
		).
		Where("scope = ?", enums.SnapshotScopeOwner).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &OverviewTotals{
		Owners:            row.Owners,
		TotalViews:        row.TotalViews,
		TotalPremiumViews: row.TotalPremiumViews,
		TotalNetRevenue:   row.TotalNetRevenue,
	}, nil
}
