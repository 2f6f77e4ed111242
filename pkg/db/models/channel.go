package models

import (
	"time"

	"github.com/google/uuid"
)

// Channel binds one external channel identifier to exactly one owner.
// ExternalID carries a unique index so a rebind always replaces the prior
// binding instead of duplicating it.
type Channel struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID    uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`
	ExternalID string    `gorm:"column:external_id;type:text;not null;uniqueIndex"`
	Name       *string   `gorm:"column:name"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
