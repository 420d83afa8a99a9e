package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

// Payment is an append-only record of one processor notification against a
// quote. ExternalID is the processor's idempotency key; the unique index is
// what makes webhook replays harmless across service instances.
type Payment struct {
	ID               uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID          uuid.UUID                 `gorm:"column:quote_id;type:uuid;not null;index:ix_payments_quote"`
	ExternalID       string                    `gorm:"column:external_id;not null;uniqueIndex:ux_payments_external_id"`
	Type             enums.PaymentType         `gorm:"column:type;type:payment_type;not null"`
	Status           enums.PaymentRecordStatus `gorm:"column:status;type:payment_record_status;not null;default:'pending'"`
	AmountCents      int64                     `gorm:"column:amount_cents;not null"`
	PlatformFeeCents int64                     `gorm:"column:platform_fee_cents;not null;default:0"`
	FailureReason    *string                   `gorm:"column:failure_reason"`
	CreatedAt        time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
