package controllers

import (
	"net/http"

	"github.com/ovenmade/ovenmade-backend/api/responses"
	"github.com/ovenmade/ovenmade-backend/api/validators"
	"github.com/ovenmade/ovenmade-backend/internal/payments"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
)

type paymentRequestBody struct {
	Type string `json:"type" validate:"required"`
}

// PaymentRequestCreate computes the next payment ask against a quote. The
// amount is server-computed and capped at the outstanding balance.
func PaymentRequestCreate(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
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

		var payload paymentRequestBody
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		paymentType, err := enums.ParsePaymentType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment type"))
			return
		}

		request, err := svc.RequestPayment(r.Context(), payments.RequestInput{
			QuoteID: quoteID,
			BakerID: bakerID,
			Type:    paymentType,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

type requiredDepositResponse struct {
	QuoteID      string `json:"quote_id"`
	DepositCents int64  `json:"deposit_cents"`
}

// RequiredDeposit reports the deposit the baker's settings require for a
// quote.
func RequiredDeposit(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
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

		cents, err := svc.RequiredDeposit(r.Context(), quoteID, bakerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, requiredDepositResponse{
			QuoteID:      quoteID.String(),
			DepositCents: cents,
		})
	}
}

// PaymentsListByQuote returns the payment ledger recorded against a quote.
func PaymentsListByQuote(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
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

		records, err := svc.ListByQuote(r.Context(), quoteID, bakerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newPaymentListResponse(records))
	}
}
