package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmarroquin/creatorstats-backend/api/responses"
	"github.com/dmarroquin/creatorstats-backend/api/validators"
	"github.com/dmarroquin/creatorstats-backend/internal/channels"
	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
	"github.com/dmarroquin/creatorstats-backend/pkg/logger"
)

type channelBindRequest struct {
	OwnerID    string  `json:"ownerId" validate:"required"`
	ExternalID string  `json:"externalId" validate:"required"`
	Name       *string `json:"name"`
}

type channelBindBulkRequest struct {
	// items are validated individually so one bad binding surfaces in the
	// per-item report instead of failing the whole request
	Bindings []channelBindRequest `json:"bindings" validate:"required,min=1"`
}

func (r channelBindRequest) toInput() (channels.BindInput, error) {
	ownerID, err := uuid.Parse(strings.TrimSpace(r.OwnerID))
	if err != nil {
		return channels.BindInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid owner id")
	}
	return channels.BindInput{
		OwnerID:    ownerID,
		ExternalID: strings.TrimSpace(r.ExternalID),
		Name:       r.Name,
	}, nil
}

// ChannelBind binds one external channel id to an owner; rebinding replaces
// the previous owner.
func ChannelBind(svc channels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "channel service unavailable"))
			return
		}

		var payload channelBindRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Bind(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ChannelBindBulk imports many bindings and reports per-item outcomes.
func ChannelBindBulk(svc channels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "channel service unavailable"))
			return
		}

		var payload channelBindBulkRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs := make([]channels.BindInput, 0, len(payload.Bindings))
		for _, binding := range payload.Bindings {
			input, err := binding.toInput()
			if err != nil {
				// carry the malformed item into the per-item report
				input = channels.BindInput{ExternalID: strings.TrimSpace(binding.ExternalID)}
			}
			inputs = append(inputs, input)
		}

		result, err := svc.BindBulk(r.Context(), inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ChannelList returns bindings, optionally filtered by ?ownerId=.
func ChannelList(svc channels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "channel service unavailable"))
			return
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("ownerId")); raw != "" {
			ownerID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid owner id"))
				return
			}
			dtos, err := svc.ListByOwner(r.Context(), ownerID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, dtos)
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

// ChannelGet returns one binding by external channel id.
func ChannelGet(svc channels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "channel service unavailable"))
			return
		}

		dto, err := svc.Get(r.Context(), chi.URLParam(r, "channelId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// ChannelUnbind removes one binding.
func ChannelUnbind(svc channels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "channel service unavailable"))
			return
		}

		if err := svc.Unbind(r.Context(), chi.URLParam(r, "channelId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unbound"})
	}
}
