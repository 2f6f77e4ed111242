package channels

import (
	"context"
	"fmt"

	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles channel binding persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to channel operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes one binding; a conflict on external_id atomically replaces
// the prior owner binding instead of duplicating it.
func (r *Repository) Upsert(ctx context.Context, channel *models.Channel) error {
	if channel == nil {
		return fmt.Errorf("channel is required")
	}
	if channel.ID == uuid.Nil {
		channel.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner_id", "name", "updated_at"}),
	}).Create(channel).Error
}

// FindByExternalID loads a binding by the third-party channel identifier.
func (r *Repository) FindByExternalID(ctx context.Context, externalID string) (*models.Channel, error) {
	var channel models.Channel
	if err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&channel).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

// List returns every binding ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]models.Channel, error) {
	var channels []models.Channel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

// ListByOwner returns the bindings for one owner.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Channel, error) {
	var channels []models.Channel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

// Delete removes one binding by external id.
func (r *Repository) Delete(ctx context.Context, externalID string) error {
	res := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		Delete(&models.Channel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
