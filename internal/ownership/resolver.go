package ownership

import (
	"context"

	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type bindingRepository interface {
	ListBindings(ctx context.Context) ([]models.Channel, error)
	ListOwners(ctx context.Context) ([]models.Owner, error)
}

// Resolution is the outcome of resolving one channel identifier: the owner it
// belongs to and that owner's revenue share at batch start.
type Resolution struct {
	OwnerID      uuid.UUID
	SharePercent decimal.Decimal
}

// Resolver maps channel identifiers to their owner resolution. It is built
// once per batch from a fresh read of bindings and owner records, then reused
// for every row.
type Resolver struct {
	byChannel map[string]Resolution
}

// Build fetches the current bindings and owner records and constructs the
// batch resolver. A fetch failure aborts the batch before any persistence; a
// channel bound to a missing owner record is left unresolved.
func Build(ctx context.Context, repo bindingRepository) (*Resolver, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "binding repository required")
	}

	bindings, err := repo.ListBindings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch channel bindings")
	}
	owners, err := repo.ListOwners(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch owner records")
	}

	shares := make(map[uuid.UUID]decimal.Decimal, len(owners))
	for _, owner := range owners {
		shares[owner.ID] = owner.RevenueSharePercent
	}

	byChannel := make(map[string]Resolution, len(bindings))
	for _, binding := range bindings {
		share, ok := shares[binding.OwnerID]
		if !ok {
			continue
		}
		byChannel[binding.ExternalID] = Resolution{
			OwnerID:      binding.OwnerID,
			SharePercent: share,
		}
	}

	return &Resolver{byChannel: byChannel}, nil
}

// Resolve returns the resolution for a channel identifier, or false when the
// channel is unbound or bound to a missing owner.
func (r *Resolver) Resolve(channelID string) (Resolution, bool) {
	if r == nil {
		return Resolution{}, false
	}
	res, ok := r.byChannel[channelID]
	return res, ok
}

// Lookup serves single-channel drill-down independent of batch folding.
func (r *Resolver) Lookup(channelID string) (Resolution, bool) {
	return r.Resolve(channelID)
}

// Size reports the number of resolvable channels.
func (r *Resolver) Size() int {
	if r == nil {
		return 0
	}
	return len(r.byChannel)
}
