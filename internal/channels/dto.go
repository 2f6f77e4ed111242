package channels

import (
	"time"

	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ChannelDTO is the outward view of one channel binding.
type ChannelDTO struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"ownerId"`
	ExternalID string    `json:"externalId"`
	Name       *string   `json:"name,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FromModel converts a persisted channel into its DTO.
func FromModel(channel *models.Channel) *ChannelDTO {
	if channel == nil {
		return nil
	}
	return &ChannelDTO{
		ID:         channel.ID,
		OwnerID:    channel.OwnerID,
		ExternalID: channel.ExternalID,
		Name:       channel.Name,
		CreatedAt:  channel.CreatedAt,
		UpdatedAt:  channel.UpdatedAt,
	}
}
