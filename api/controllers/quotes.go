package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ovenmade/ovenmade-backend/api/middleware"
	"github.com/ovenmade/ovenmade-backend/api/responses"
	"github.com/ovenmade/ovenmade-backend/api/validators"
	"github.com/ovenmade/ovenmade-backend/internal/pricing"
	"github.com/ovenmade/ovenmade-backend/internal/quotes"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
	"github.com/ovenmade/ovenmade-backend/pkg/pagination"
)

type createQuoteRequest struct {
	CustomerID uuid.UUID           `json:"customer_id" validate:"required"`
	Title      string              `json:"title" validate:"required"`
	EventDate  *time.Time          `json:"event_date"`
	Notes      *string             `json:"notes"`
	Build      *pricing.Build      `json:"build,omitempty"`
	Items      []quotes.ManualItem `json:"items,omitempty"`
}

// QuoteCreate assembles a draft quote from a priced build or a manual item
// list.
func QuoteCreate(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Assemble(r.Context(), quotes.AssembleInput{
			BakerID:    bakerID,
			CustomerID: payload.CustomerID,
			Title:      validators.SanitizeString(payload.Title, 160),
			EventDate:  payload.EventDate,
			Notes:      payload.Notes,
			Build:      payload.Build,
			Items:      payload.Items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newQuoteResponse(quote))
	}
}

type updateQuoteRequest struct {
	Title     *string             `json:"title"`
	EventDate *time.Time          `json:"event_date"`
	Notes     *string             `json:"notes"`
	Items     []quotes.ManualItem `json:"items,omitempty"`
}

// QuoteUpdate edits a draft's header fields and item list.
func QuoteUpdate(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quoteID, err := parseQuoteID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.UpdateDraft(r.Context(), quotes.UpdateDraftInput{
			QuoteID:   quoteID,
			BakerID:   bakerID,
			Title:     payload.Title,
			EventDate: payload.EventDate,
			Notes:     payload.Notes,
			Items:     payload.Items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

type lifecycleAction func(svc quotes.Service, r *http.Request, quoteID uuid.UUID, actor quotes.Actor) (any, error)

func quoteLifecycle(svc quotes.Service, logg *logger.Logger, action lifecycleAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quoteID, err := parseQuoteID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := quotes.Actor{BakerID: &bakerID, Source: "baker"}
		result, err := action(svc, r, quoteID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// QuoteSend freezes the draft and numbers it into the sent state.
func QuoteSend(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return quoteLifecycle(svc, logg, func(svc quotes.Service, r *http.Request, quoteID uuid.UUID, actor quotes.Actor) (any, error) {
		quote, err := svc.Send(r.Context(), quoteID, actor)
		if err != nil {
			return nil, err
		}
		return newQuoteResponse(quote), nil
	})
}

// QuoteAccept approves a sent quote on the customer's behalf.
func QuoteAccept(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return quoteLifecycle(svc, logg, func(svc quotes.Service, r *http.Request, quoteID uuid.UUID, actor quotes.Actor) (any, error) {
		quote, err := svc.Accept(r.Context(), quoteID, actor)
		if err != nil {
			return nil, err
		}
		return newQuoteResponse(quote), nil
	})
}

// QuoteDecline rejects a sent quote on the customer's behalf.
func QuoteDecline(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return quoteLifecycle(svc, logg, func(svc quotes.Service, r *http.Request, quoteID uuid.UUID, actor quotes.Actor) (any, error) {
		quote, err := svc.Decline(r.Context(), quoteID, actor)
		if err != nil {
			return nil, err
		}
		return newQuoteResponse(quote), nil
	})
}

// QuoteRevert pulls a sent quote back to draft for editing.
func QuoteRevert(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return quoteLifecycle(svc, logg, func(svc quotes.Service, r *http.Request, quoteID uuid.UUID, actor quotes.Actor) (any, error) {
		quote, err := svc.Revert(r.Context(), quoteID, actor)
		if err != nil {
			return nil, err
		}
		return newQuoteResponse(quote), nil
	})
}

// QuoteDuplicate copies a quote into a fresh unnumbered draft.
func QuoteDuplicate(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return quoteLifecycle(svc, logg, func(svc quotes.Service, r *http.Request, quoteID uuid.UUID, actor quotes.Actor) (any, error) {
		quote, err := svc.Duplicate(r.Context(), quoteID, *actor.BakerID)
		if err != nil {
			return nil, err
		}
		return newQuoteResponse(quote), nil
	})
}

// QuoteArchive hides a quote from default listings.
func QuoteArchive(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return quoteLifecycle(svc, logg, func(svc quotes.Service, r *http.Request, quoteID uuid.UUID, actor quotes.Actor) (any, error) {
		if err := svc.Archive(r.Context(), quoteID, *actor.BakerID); err != nil {
			return nil, err
		}
		return map[string]string{"status": "archived"}, nil
	})
}

// QuoteUnarchive restores an archived quote to listings.
func QuoteUnarchive(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return quoteLifecycle(svc, logg, func(svc quotes.Service, r *http.Request, quoteID uuid.UUID, actor quotes.Actor) (any, error) {
		if err := svc.Unarchive(r.Context(), quoteID, *actor.BakerID); err != nil {
			return nil, err
		}
		return map[string]string{"status": "active"}, nil
	})
}

// QuoteGet returns a single owned quote with its items.
func QuoteGet(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quoteID, err := parseQuoteID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Get(r.Context(), quoteID, bakerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

type quoteListResponse struct {
	Quotes     []quoteResponse `json:"quotes"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// QuoteList returns the baker's quotes, newest first, excluding archived
// quotes unless asked.
func QuoteList(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters, err := buildQuoteFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), bakerID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quoteListResponse{
			Quotes:     newQuoteListResponse(list.Quotes),
			NextCursor: list.NextCursor,
		})
	}
}

func buildQuoteFilters(r *http.Request) (quotes.ListFilters, error) {
	filters := quotes.ListFilters{
		Query: validators.SanitizeString(r.URL.Query().Get("q"), 120),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseQuoteStatus(raw)
		if err != nil {
			return quotes.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("payment_status")); raw != "" {
		status, err := enums.ParseQuotePaymentStatus(raw)
		if err != nil {
			return quotes.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status filter")
		}
		filters.PaymentStatus = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("include_archived")); raw != "" {
		filters.IncludeArchived = strings.EqualFold(raw, "true") || raw == "1"
	}
	return filters, nil
}

func bakerIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.BakerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "baker context missing")
	}
	bakerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid baker id")
	}
	return bakerID, nil
}

func parseQuoteID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "quoteId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id is required")
	}
	quoteID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quote id")
	}
	return quoteID, nil
}
