package owners

import (
	"time"

	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	"github.com/dmarroquin/creatorstats-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OwnerDTO is the outward view of an owner record. The password hash never
// leaves the package.
type OwnerDTO struct {
	ID                  uuid.UUID         `json:"id"`
	Username            string            `json:"username"`
	Role                enums.OwnerRole   `json:"role"`
	RevenueSharePercent decimal.Decimal   `json:"revenueSharePercent"`
	Status              enums.OwnerStatus `json:"status"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// FromModel converts a persisted owner into its DTO.
func FromModel(owner *models.Owner) *OwnerDTO {
	if owner == nil {
		return nil
	}
	return &OwnerDTO{
		ID:                  owner.ID,
		Username:            owner.Username,
		Role:                owner.Role,
		RevenueSharePercent: owner.RevenueSharePercent,
		Status:              owner.Status,
		CreatedAt:           owner.CreatedAt,
		UpdatedAt:           owner.UpdatedAt,
	}
}
