package controllers

import (
	"net/http"

	"github.com/ovenmade/ovenmade-backend/api/responses"
	"github.com/ovenmade/ovenmade-backend/internal/leads"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
)

// LeadsList returns the baker's captured calculator leads, newest first.
func LeadsList(svc leads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "leads service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), bakerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newLeadListResponse(list))
	}
}
