package channels

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type channelRepository interface {
	Upsert(ctx context.Context, channel *models.Channel) error
	FindByExternalID(ctx context.Context, externalID string) (*models.Channel, error)
	List(ctx context.Context) ([]models.Channel, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Channel, error)
	Delete(ctx context.Context, externalID string) error
}

type ownerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Owner, error)
}

// Service exposes channel binding operations.
type Service interface {
	Bind(ctx context.Context, input BindInput) (*ChannelDTO, error)
	BindBulk(ctx context.Context, inputs []BindInput) (*BulkResult, error)
	Get(ctx context.Context, externalID string) (*ChannelDTO, error)
	List(ctx context.Context) ([]ChannelDTO, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]ChannelDTO, error)
	Unbind(ctx context.Context, externalID string) error
}

type service struct {
	repo   channelRepository
	owners ownerFinder
}

// NewService builds a channel service with the provided repositories.
func NewService(repo channelRepository, owners ownerFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("channel repository required")
	}
	if owners == nil {
		return nil, fmt.Errorf("owner finder required")
	}
	return &service{repo: repo, owners: owners}, nil
}

// BindInput captures one channel→owner binding. External ids are opaque
// strings; no format is enforced.
type BindInput struct {
	OwnerID    uuid.UUID
	ExternalID string
	Name       *string
}

// BulkResult reports the per-item outcome of a bulk bind.
type BulkResult struct {
	Bound  []ChannelDTO      `json:"bound"`
	Failed map[string]string `json:"failed,omitempty"`
}

func (s *service) Bind(ctx context.Context, input BindInput) (*ChannelDTO, error) {
	externalID := strings.TrimSpace(input.ExternalID)
	if externalID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "channel external id is required")
	}
	if input.OwnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}

	if _, err := s.owners.FindByID(ctx, input.OwnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup owner")
	}

	channel := &models.Channel{
		OwnerID:    input.OwnerID,
		ExternalID: externalID,
		Name:       input.Name,
	}
	if err := s.repo.Upsert(ctx, channel); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bind channel")
	}

	// re-read so a rebind reports the surviving row, not the insert attempt
	bound, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load channel")
	}
	return FromModel(bound), nil
}

func (s *service) BindBulk(ctx context.Context, inputs []BindInput) (*BulkResult, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no bindings provided")
	}

	result := &BulkResult{}
	for _, input := range inputs {
		dto, err := s.Bind(ctx, input)
		if err != nil {
			if result.Failed == nil {
				result.Failed = map[string]string{}
			}
			result.Failed[input.ExternalID] = err.Error()
			continue
		}
		result.Bound = append(result.Bound, *dto)
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, externalID string) (*ChannelDTO, error) {
	channel, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "channel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load channel")
	}
	return FromModel(channel), nil
}

func (s *service) List(ctx context.Context) ([]ChannelDTO, error) {
	channels, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list channels")
	}
	return toDTOs(channels), nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]ChannelDTO, error) {
	channels, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owner channels")
	}
	return toDTOs(channels), nil
}

func (s *service) Unbind(ctx context.Context, externalID string) error {
	if err := s.repo.Delete(ctx, externalID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "channel not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unbind channel")
	}
	return nil
}

func toDTOs(channels []models.Channel) []ChannelDTO {
	dtos := make([]ChannelDTO, 0, len(channels))
	for i := range channels {
		dtos = append(dtos, *FromModel(&channels[i]))
	}
	return dtos
}
