package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmarroquin/creatorstats-backend/api/responses"
	"github.com/dmarroquin/creatorstats-backend/api/validators"
	"github.com/dmarroquin/creatorstats-backend/internal/owners"
	"github.com/dmarroquin/creatorstats-backend/pkg/enums"
	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
	"github.com/dmarroquin/creatorstats-backend/pkg/logger"
)

type ownerCreateRequest struct {
	Username            string           `json:"username" validate:"required"`
	Password            string           `json:"password" validate:"required,min=8"`
	Role                string           `json:"role" validate:"omitempty,oneof=admin creator"`
	RevenueSharePercent *decimal.Decimal `json:"revenueSharePercent"`
}

type ownerUpdateRequest struct {
	Password            *string          `json:"password" validate:"omitempty,min=8"`
	RevenueSharePercent *decimal.Decimal `json:"revenueSharePercent"`
	Status              *string          `json:"status" validate:"omitempty,oneof=active suspended"`
}

// OwnerCreate registers a new owner account.
func OwnerCreate(svc owners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "owner service unavailable"))
			return
		}

		var payload ownerCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), owners.CreateOwnerInput{
			Username:            payload.Username,
			Password:            payload.Password,
			Role:                enums.OwnerRole(payload.Role),
			RevenueSharePercent: payload.RevenueSharePercent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// OwnerList returns every owner account.
func OwnerList(svc owners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "owner service unavailable"))
			return
		}

		dtos, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

// OwnerGet returns a single owner account.
func OwnerGet(svc owners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "owner service unavailable"))
			return
		}

		id, err := parseOwnerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// OwnerUpdate mutates password, revenue share or status. Share changes take
// effect from the next sync batch.
func OwnerUpdate(svc owners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "owner service unavailable"))
			return
		}

		id, err := parseOwnerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload ownerUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := owners.UpdateOwnerInput{
			Password:            payload.Password,
			RevenueSharePercent: payload.RevenueSharePercent,
		}
		if payload.Status != nil {
			status := enums.OwnerStatus(*payload.Status)
			input.Status = &status
		}

		dto, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// OwnerDelete removes an owner account.
func OwnerDelete(svc owners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "owner service unavailable"))
			return
		}

		id, err := parseOwnerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseOwnerID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "ownerId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid owner id")
	}
	return id, nil
}
