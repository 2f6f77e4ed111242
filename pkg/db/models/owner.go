package models

import (
	"time"

	"github.com/dmarroquin/creatorstats-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Owner is an account entitled to a revenue share from one or more channels.
type Owner struct {
	ID                  uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username            string            `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash        string            `gorm:"column:password_hash;not null"`
	Role                enums.OwnerRole   `gorm:"column:role;not null;default:'creator'"`
	RevenueSharePercent decimal.Decimal   `gorm:"column:revenue_share_percent;type:numeric(5,2);not null"`
	Status              enums.OwnerStatus `gorm:"column:status;not null;default:'active'"`
	CreatedAt           time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
