package stats

import (
	"encoding/json"

	"github.com/dmarroquin/creatorstats-backend/internal/report"
	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	"github.com/dmarroquin/creatorstats-backend/pkg/enums"
	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
)

// SnapshotDTO is the read-side view of one persisted snapshot.
type SnapshotDTO struct {
	Scope    enums.SnapshotScope `json:"scope"`
	Key      string              `json:"key"`
	Snapshot report.Snapshot     `json:"snapshot"`
}

func toModel(scope enums.SnapshotScope, key string, snap *report.Snapshot) (models.StatSnapshot, error) {
	daily, err := json.Marshal(snap.DailySeries)
	if err != nil {
		return models.StatSnapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode daily series")
	}
	countries, err := json.Marshal(snap.TopCountries)
	if err != nil {
		return models.StatSnapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode top countries")
	}
	content, err := json.Marshal(snap.TopContent)
	if err != nil {
		return models.StatSnapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode top content")
	}

	return models.StatSnapshot{
		Scope:             scope,
		Key:               key,
		TotalViews:        snap.TotalViews,
		TotalPremiumViews: snap.TotalPremiumViews,
		TotalNetRevenue:   snap.TotalNetRevenue,
		DailySeries:       daily,
		TopCountries:      countries,
		TopContent:        content,
		LastSyncedAt:      snap.LastSyncedAt,
	}, nil
}

func fromModel(model *models.StatSnapshot) (*SnapshotDTO, error) {
	dto := &SnapshotDTO{
		Scope: model.Scope,
		Key:   model.Key,
		Snapshot: report.Snapshot{
			TotalViews:        model.TotalViews,
			TotalPremiumViews: model.TotalPremiumViews,
			TotalNetRevenue:   model.TotalNetRevenue,
			LastSyncedAt:      model.LastSyncedAt,
		},
	}
	if err := json.Unmarshal(model.DailySeries, &dto.Snapshot.DailySeries); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode daily series")
	}
	if err := json.Unmarshal(model.TopCountries, &dto.Snapshot.TopCountries); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode top countries")
	}
	if err := json.Unmarshal(model.TopContent, &dto.Snapshot.TopContent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode top content")
	}
	return dto, nil
}
