package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ovenmade/ovenmade-backend/api/responses"
	"github.com/ovenmade/ovenmade-backend/api/validators"
	"github.com/ovenmade/ovenmade-backend/internal/leads"
	"github.com/ovenmade/ovenmade-backend/internal/pricing"
	"github.com/ovenmade/ovenmade-backend/internal/quotes"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
)

type estimateLineResponse struct {
	Category        string          `json:"category"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPriceCents  int64           `json:"unit_price_cents"`
	TotalPriceCents int64           `json:"total_price_cents"`
}

type estimateResponse struct {
	Breakdown pricing.Breakdown      `json:"breakdown"`
	Lines     []estimateLineResponse `json:"lines"`
}

func newEstimateResponse(estimate *leads.Estimate) estimateResponse {
	lines := make([]estimateLineResponse, len(estimate.Lines))
	for i, line := range estimate.Lines {
		lines[i] = estimateLineResponse{
			Category:        string(line.Category),
			Name:            line.Name,
			Quantity:        line.Quantity,
			UnitPriceCents:  line.UnitPriceCents,
			TotalPriceCents: line.TotalPriceCents,
		}
	}
	return estimateResponse{Breakdown: estimate.Breakdown, Lines: lines}
}

// PublicEstimate prices a calculator selection against a baker's catalog
// without storing anything.
func PublicEstimate(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "leads service unavailable"))
			return
		}

		bakerID, err := parseBakerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		estimate, err := svc.Estimate(r.Context(), bakerID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newEstimateResponse(estimate))
	}
}

type leadCaptureRequest struct {
	Name    string          `json:"name" validate:"required"`
	Email   string          `json:"email" validate:"required,email"`
	Phone   *string         `json:"phone"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// PublicLeadCapture stores a calculator submission with its priced total.
func PublicLeadCapture(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "leads service unavailable"))
			return
		}

		bakerID, err := parseBakerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload leadCaptureRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lead, err := svc.Capture(r.Context(), leads.CaptureInput{
			BakerID:       bakerID,
			CustomerName:  validators.SanitizeString(payload.Name, 120),
			CustomerEmail: validators.SanitizeString(payload.Email, 254),
			CustomerPhone: payload.Phone,
			Payload:       payload.Payload,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"lead_id":      lead.ID,
			"quoted_cents": lead.QuotedCents,
		})
	}
}

// PublicQuoteGet returns the customer-facing view of a sent quote.
func PublicQuoteGet(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		quoteID, err := parseQuoteID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.GetPublic(r.Context(), quoteID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

// PublicQuoteAccept approves a sent quote from the customer link.
func PublicQuoteAccept(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return publicDecision(svc, logg, func(svc quotes.Service, r *http.Request, quoteID uuid.UUID, actor quotes.Actor) (any, error) {
		quote, err := svc.Accept(r.Context(), quoteID, actor)
		if err != nil {
			return nil, err
		}
		return newQuoteResponse(quote), nil
	})
}

// PublicQuoteDecline rejects a sent quote from the customer link.
func PublicQuoteDecline(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return publicDecision(svc, logg, func(svc quotes.Service, r *http.Request, quoteID uuid.UUID, actor quotes.Actor) (any, error) {
		quote, err := svc.Decline(r.Context(), quoteID, actor)
		if err != nil {
			return nil, err
		}
		return newQuoteResponse(quote), nil
	})
}

func publicDecision(svc quotes.Service, logg *logger.Logger, action lifecycleAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		quoteID, err := parseQuoteID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.GetPublic(r.Context(), quoteID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := quotes.Actor{CustomerID: &quote.CustomerID, Source: "customer"}
		result, err := action(svc, r, quoteID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseBakerID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "bakerId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "baker id is required")
	}
	bakerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid baker id")
	}
	return bakerID, nil
}
