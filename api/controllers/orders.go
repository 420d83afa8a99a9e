package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ovenmade/ovenmade-backend/api/responses"
	"github.com/ovenmade/ovenmade-backend/api/validators"
	internalorders "github.com/ovenmade/ovenmade-backend/internal/orders"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
)

// OrdersList returns the baker's fulfillment orders, newest first.
func OrdersList(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
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
		responses.WriteSuccess(w, newOrderListResponse(list))
	}
}

// OrdersCalendar returns dated orders inside a [from, to) window.
func OrdersCalendar(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		window, err := parseCalendarRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Calendar(r.Context(), bakerID, window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderListResponse(list))
	}
}

// OrderDetail returns a single owned order.
func OrderDetail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID, bakerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

type moveFulfillmentRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderMoveFulfillment advances an order through its fulfillment states.
func OrderMoveFulfillment(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		bakerID, err := bakerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload moveFulfillmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseFulfillmentStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fulfillment status"))
			return
		}

		order, err := svc.MoveFulfillment(r.Context(), orderID, bakerID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return orderID, nil
}

func parseCalendarRange(r *http.Request) (internalorders.CalendarRange, error) {
	rawFrom := strings.TrimSpace(r.URL.Query().Get("from"))
	rawTo := strings.TrimSpace(r.URL.Query().Get("to"))
	if rawFrom == "" || rawTo == "" {
		return internalorders.CalendarRange{}, pkgerrors.New(pkgerrors.CodeValidation, "from and to are required")
	}

	from, err := parseCalendarTime(rawFrom)
	if err != nil {
		return internalorders.CalendarRange{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from date")
	}
	to, err := parseCalendarTime(rawTo)
	if err != nil {
		return internalorders.CalendarRange{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to date")
	}
	if !to.After(from) {
		return internalorders.CalendarRange{}, pkgerrors.New(pkgerrors.CodeValidation, "to must be after from")
	}
	return internalorders.CalendarRange{From: from, To: to}, nil
}

func parseCalendarTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
