package ownership

import (
	"context"
	"errors"
	"testing"

	"github.com/dmarroquin/creatorstats-backend/pkg/db/models"
	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubBindingRepo struct {
	bindings    []models.Channel
	owners      []models.Owner
	bindingsErr error
	ownersErr   error
}

func (s *stubBindingRepo) ListBindings(ctx context.Context) ([]models.Channel, error) {
	return s.bindings, s.bindingsErr
}

func (s *stubBindingRepo) ListOwners(ctx context.Context) ([]models.Owner, error) {
	return s.owners, s.ownersErr
}

func TestBuildResolvesBoundChannels(t *testing.T) {
	ownerID := uuid.New()
	repo := &stubBindingRepo{
		bindings: []models.Channel{{OwnerID: ownerID, ExternalID: "UC123"}},
		owners: []models.Owner{{
			ID:                  ownerID,
			RevenueSharePercent: decimal.NewFromInt(70),
		}},
	}

	resolver, err := Build(context.Background(), repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, ok := resolver.Resolve("UC123")
	if !ok {
		t.Fatal("expected UC123 to resolve")
	}
	if res.OwnerID != ownerID {
		t.Fatalf("unexpected owner: %s", res.OwnerID)
	}
	if !res.SharePercent.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("unexpected share: %s", res.SharePercent)
	}
}

func TestBuildTreatsMissingOwnerAsUnresolved(t *testing.T) {
	repo := &stubBindingRepo{
		bindings: []models.Channel{{OwnerID: uuid.New(), ExternalID: "UC999"}},
	}

	resolver, err := Build(context.Background(), repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := resolver.Resolve("UC999"); ok {
		t.Fatal("channel bound to missing owner must be unresolved")
	}
}

func TestBuildFailsOnFetchError(t *testing.T) {
	repo := &stubBindingRepo{bindingsErr: errors.New("connection refused")}

	_, err := Build(context.Background(), repo)
	if err == nil {
		t.Fatal("expected error")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestResolveUnboundChannel(t *testing.T) {
	resolver, err := Build(context.Background(), &stubBindingRepo{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := resolver.Resolve("UC-unbound"); ok {
		t.Fatal("unbound channel must not resolve")
	}
	if resolver.Size() != 0 {
		t.Fatalf("expected empty resolver, got %d", resolver.Size())
	}
}
