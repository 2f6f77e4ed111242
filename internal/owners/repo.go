package owners

import (
	"context"
	"fmt"

	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles owner persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to owner operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new owner row.
func (r *Repository) Create(ctx context.Context, owner *models.Owner) error {
	if owner == nil {
		return fmt.Errorf("owner is required")
	}
	if owner.ID == uuid.Nil {
		owner.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(owner).Error
}

// FindByID loads an owner by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Owner, error) {
	var owner models.Owner
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&owner).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}

// FindByUsername loads an owner by its unique username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.Owner, error) {
	var owner models.Owner
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&owner).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}

// List returns every owner ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]models.Owner, error) {
	var owners []models.Owner
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&owners).Error; err != nil {
		return nil, err
	}
	return owners, nil
}

// Update saves the provided owner.
func (r *Repository) Update(ctx context.Context, owner *models.Owner) error {
	if owner == nil {
		return fmt.Errorf("owner is required")
	}
	return r.db.WithContext(ctx).Save(owner).Error
}

// Delete removes an owner; channel bindings cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Owner{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
