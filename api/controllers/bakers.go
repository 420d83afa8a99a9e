package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ovenmade/ovenmade-backend/api/responses"
	"github.com/ovenmade/ovenmade-backend/api/validators"
	"github.com/ovenmade/ovenmade-backend/internal/bakers"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
)

// BakerSettings returns the authenticated baker's pricing configuration.
func BakerSettings(svc bakers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bakers service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		baker, err := svc.Get(r.Context(), bakerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBakerSettingsResponse(baker))
	}
}

type updateSettingsRequest struct {
	TaxRate           *decimal.Decimal `json:"tax_rate"`
	DepositType       *string          `json:"deposit_type"`
	DepositPercent    *decimal.Decimal `json:"deposit_percent"`
	DepositFixedCents *int64           `json:"deposit_fixed_cents"`
}

// BakerSettingsUpdate edits the pricing configuration; nil fields are
// untouched. Existing quotes keep their snapshots.
func BakerSettingsUpdate(svc bakers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bakers service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := bakers.PricingSettingsInput{
			TaxRate:           payload.TaxRate,
			DepositPercent:    payload.DepositPercent,
			DepositFixedCents: payload.DepositFixedCents,
		}
		if payload.DepositType != nil {
			depositType, err := enums.ParseDepositType(*payload.DepositType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid deposit type"))
				return
			}
			input.DepositType = &depositType
		}

		baker, err := svc.UpdatePricingSettings(r.Context(), bakerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBakerSettingsResponse(baker))
	}
}
