package payments

import (
	"github.com/google/uuid"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

// NotificationInput is one processor notification, keyed by the processor's
// idempotent external id.
type NotificationInput struct {
	ExternalID       string
	QuoteID          uuid.UUID
	Type             enums.PaymentType
	Status           enums.PaymentRecordStatus
	AmountCents      int64
	PlatformFeeCents int64
}

// RecordResult reports what a notification did. Duplicate means the
// external id was already recorded and the replay was absorbed.
type RecordResult struct {
	Payment   *models.Payment
	Quote     *models.Quote
	Duplicate bool
}

// RequestInput asks for the next payment amount against a quote.
type RequestInput struct {
	QuoteID uuid.UUID
	BakerID uuid.UUID
	Type    enums.PaymentType
}

// PaymentRequest is the server-computed amount for a payment ask; requested
// amounts are always capped at the outstanding balance.
type PaymentRequest struct {
	QuoteID          uuid.UUID         `json:"quote_id"`
	Type             enums.PaymentType `json:"type"`
	AmountCents      int64             `json:"amount_cents"`
	OutstandingCents int64             `json:"outstanding_cents"`
}

// PaymentRecordedEvent is emitted when a succeeded payment reconciles.
type PaymentRecordedEvent struct {
	PaymentID       uuid.UUID                `json:"payment_id"`
	QuoteID         uuid.UUID                `json:"quote_id"`
	BakerID         uuid.UUID                `json:"baker_id"`
	Type            enums.PaymentType        `json:"type"`
	AmountCents     int64                    `json:"amount_cents"`
	AmountPaidCents int64                    `json:"amount_paid_cents"`
	PaymentStatus   enums.QuotePaymentStatus `json:"payment_status"`
}

// PaymentFailedEvent is emitted when the processor reports a failure.
type PaymentFailedEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	QuoteID     uuid.UUID `json:"quote_id"`
	BakerID     uuid.UUID `json:"baker_id"`
	AmountCents int64     `json:"amount_cents"`
	Reason      string    `json:"reason,omitempty"`
}
