package ownership

import (
	"context"

	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository provides the read-only ownership view consumed at batch start.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to ownership reads.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListBindings returns every current channel binding.
func (r *Repository) ListBindings(ctx context.Context) ([]models.Channel, error) {
	var channels []models.Channel
	if err := r.db.WithContext(ctx).Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

// ListOwners returns every owner record with its current revenue share.
func (r *Repository) ListOwners(ctx context.Context) ([]models.Owner, error) {
	var owners []models.Owner
	if err := r.db.WithContext(ctx).Find(&owners).Error; err != nil {
		return nil, err
	}
	return owners, nil
}
