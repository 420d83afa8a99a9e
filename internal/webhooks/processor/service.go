package processorwebhook

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ovenmade/ovenmade-backend/internal/payments"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
)

// Event is the payment processor's webhook envelope.
type Event struct {
	EventID string    `json:"event_id"`
	Type    string    `json:"type"`
	Data    EventData `json:"data"`
}

// EventData carries the payment fields the processor reports.
type EventData struct {
	PaymentID        string    `json:"payment_id"`
	QuoteID          uuid.UUID `json:"quote_id"`
	PaymentType      string    `json:"payment_type"`
	AmountCents      int64     `json:"amount_cents"`
	PlatformFeeCents int64     `json:"platform_fee_cents"`
}

type ServiceParams struct {
	Payments payments.Service
	Guard    *IdempotencyGuard
	Logger   *logger.Logger
}

// Service translates processor webhook events into payment notifications.
type Service struct {
	payments payments.Service
	guard    *IdempotencyGuard
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments service required")
	}
	if params.Guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard required")
	}
	return &Service{
		payments: params.Payments,
		guard:    params.Guard,
		logg:     params.Logger,
	}, nil
}

// HandleEvent processes one webhook delivery. Unknown event types are
// acknowledged without side effects so the processor stops retrying them.
func (s *Service) HandleEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "event required")
	}
	if event.EventID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}

	status, known := statusForEventType(event.Type)
	if !known {
		if s.logg != nil {
			s.logg.Debug(ctx, "ignoring unhandled webhook event type "+event.Type)
		}
		return nil
	}

	seen, err := s.guard.CheckAndMark(ctx, event.EventID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "webhook idempotency check")
	}
	if seen {
		if s.logg != nil {
			s.logg.Warn(ctx, "webhook delivery replayed, skipping")
		}
		return nil
	}

	input, err := notificationInput(event, status)
	if err != nil {
		return err
	}

	if _, err := s.payments.RecordNotification(ctx, input); err != nil {
		// unmark so the processor's retry is not swallowed by the guard
		if delErr := s.guard.Delete(ctx, event.EventID); delErr != nil && s.logg != nil {
			s.logg.Error(ctx, "failed to unmark webhook event", delErr)
		}
		return err
	}
	return nil
}

func notificationInput(event *Event, status enums.PaymentRecordStatus) (payments.NotificationInput, error) {
	paymentType, err := enums.ParsePaymentType(event.Data.PaymentType)
	if err != nil {
		return payments.NotificationInput{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment type: "+event.Data.PaymentType)
	}
	return payments.NotificationInput{
		ExternalID:       event.Data.PaymentID,
		QuoteID:          event.Data.QuoteID,
		Type:             paymentType,
		Status:           status,
		AmountCents:      event.Data.AmountCents,
		PlatformFeeCents: event.Data.PlatformFeeCents,
	}, nil
}

func statusForEventType(eventType string) (enums.PaymentRecordStatus, bool) {
	switch strings.ToLower(eventType) {
	case "payment.succeeded":
		return enums.PaymentRecordStatusSucceeded, true
	case "payment.failed":
		return enums.PaymentRecordStatusFailed, true
	case "payment.pending":
		return enums.PaymentRecordStatusPending, true
	default:
		return "", false
	}
}
