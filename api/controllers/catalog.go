package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ovenmade/ovenmade-backend/api/responses"
	"github.com/ovenmade/ovenmade-backend/api/validators"
	"github.com/ovenmade/ovenmade-backend/internal/catalog"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
)

type createCatalogEntryRequest struct {
	Category   string `json:"category" validate:"required"`
	Key        string `json:"key" validate:"required"`
	Label      string `json:"label" validate:"required"`
	PriceCents int64  `json:"price_cents" validate:"gte=0"`
	Position   int    `json:"position"`
	Active     *bool  `json:"active"`
}

// CatalogCreate adds an entry to the baker's price list.
func CatalogCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createCatalogEntryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := enums.ParseCatalogCategory(payload.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}

		entry, err := svc.Create(r.Context(), bakerID, catalog.EntryInput{
			Category:   category,
			Key:        validators.SanitizeString(payload.Key, 64),
			Label:      validators.SanitizeString(payload.Label, 120),
			PriceCents: payload.PriceCents,
			Position:   payload.Position,
			Active:     payload.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCatalogEntryResponse(entry))
	}
}

// CatalogList returns the baker's full price list including inactive
// entries.
func CatalogList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.List(r.Context(), bakerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]catalogEntryResponse, len(entries))
		for i := range entries {
			out[i] = newCatalogEntryResponse(&entries[i])
		}
		responses.WriteSuccess(w, out)
	}
}

type updateCatalogEntryRequest struct {
	Label      *string `json:"label"`
	PriceCents *int64  `json:"price_cents"`
	Position   *int    `json:"position"`
	Active     *bool   `json:"active"`
}

// CatalogUpdate edits an entry; nil fields are untouched.
func CatalogUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entryID, err := parseCatalogEntryID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCatalogEntryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Update(r.Context(), entryID, bakerID, catalog.EntryUpdate{
			Label:      payload.Label,
			PriceCents: payload.PriceCents,
			Position:   payload.Position,
			Active:     payload.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCatalogEntryResponse(entry))
	}
}

// CatalogDelete removes an entry from the price list. Quotes keep their
// snapshots; deleting an entry never reprices anything already assembled.
func CatalogDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entryID, err := parseCatalogEntryID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), entryID, bakerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseCatalogEntryID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "entryId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "entry id is required")
	}
	entryID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entry id")
	}
	return entryID, nil
}
