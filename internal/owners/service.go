package owners

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	"github.com/dmarroquin/creatorstats-backend/pkg/enums"
	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultSharePercent is the revenue share applied when a new owner does not
// specify one.
var DefaultSharePercent = decimal.NewFromInt(70)

type ownerRepository interface {
	Create(ctx context.Context, owner *models.Owner) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Owner, error)
	FindByUsername(ctx context.Context, username string) (*models.Owner, error)
	List(ctx context.Context) ([]models.Owner, error)
	Update(ctx context.Context, owner *models.Owner) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes owner account operations.
type Service interface {
	Create(ctx context.Context, input CreateOwnerInput) (*OwnerDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OwnerDTO, error)
	List(ctx context.Context) ([]OwnerDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateOwnerInput) (*OwnerDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo ownerRepository
}

// NewService builds an owner service with the provided repository.
func NewService(repo ownerRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("owner repository required")
	}
	return &service{repo: repo}, nil
}

// CreateOwnerInput captures the data required to create an owner.
type CreateOwnerInput struct {
	Username            string
	Password            string
	Role                enums.OwnerRole
	RevenueSharePercent *decimal.Decimal
}

// UpdateOwnerInput captures the allowed owner fields for mutation.
type UpdateOwnerInput struct {
	Password            *string
	RevenueSharePercent *decimal.Decimal
	Status              *enums.OwnerStatus
}

func (s *service) Create(ctx context.Context, input CreateOwnerInput) (*OwnerDTO, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	role := input.Role
	if role == "" {
		role = enums.OwnerRoleCreator
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	share := DefaultSharePercent
	if input.RevenueSharePercent != nil {
		share = *input.RevenueSharePercent
	}
	if err := validateShare(share); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup owner")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	owner := &models.Owner{
		Username:            username,
		PasswordHash:        string(hash),
		Role:                role,
		RevenueSharePercent: share,
		Status:              enums.OwnerStatusActive,
	}
	if err := s.repo.Create(ctx, owner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create owner")
	}
	return FromModel(owner), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OwnerDTO, error) {
	owner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "owner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner")
	}
	return FromModel(owner), nil
}

func (s *service) List(ctx context.Context) ([]OwnerDTO, error) {
	owners, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owners")
	}
	dtos := make([]OwnerDTO, 0, len(owners))
	for i := range owners {
		dtos = append(dtos, *FromModel(&owners[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateOwnerInput) (*OwnerDTO, error) {
	owner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "owner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner")
	}

	if input.Password != nil {
		if strings.TrimSpace(*input.Password) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password cannot be blank")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		owner.PasswordHash = string(hash)
	}
	if input.RevenueSharePercent != nil {
		if err := validateShare(*input.RevenueSharePercent); err != nil {
			return nil, err
		}
		// share changes apply from the next sync batch onward; persisted
		// snapshots keep the net figures computed at their batch's share
		owner.RevenueSharePercent = *input.RevenueSharePercent
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		owner.Status = *input.Status
	}

	if err := s.repo.Update(ctx, owner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update owner")
	}
	return FromModel(owner), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "owner not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete owner")
	}
	return nil
}

func validateShare(share decimal.Decimal) error {
	if share.IsNegative() || share.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "revenue share must be between 0 and 100")
	}
	return nil
}
