package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

// Quote is the numbered, itemized estimate a baker sends to a customer.
// Money fields and the tax rate are snapshots: once the quote leaves draft
// they never move again, regardless of later catalog or config edits.
type Quote struct {
	ID              uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BakerID         uuid.UUID                `gorm:"column:baker_id;type:uuid;not null;uniqueIndex:ux_quotes_baker_number"`
	CustomerID      uuid.UUID                `gorm:"column:customer_id;type:uuid;not null"`
	QuoteNumber     int64                    `gorm:"column:quote_number;not null;uniqueIndex:ux_quotes_baker_number"`
	Title           string                   `gorm:"column:title;not null"`
	EventDate       *time.Time               `gorm:"column:event_date"`
	Status          enums.QuoteStatus        `gorm:"column:status;type:quote_status;not null;default:'draft'"`
	Currency        enums.Currency           `gorm:"column:currency;type:text;not null;default:'USD'"`
	TaxRate         decimal.Decimal          `gorm:"column:tax_rate;type:numeric(6,4);not null;default:0"`
	SubtotalCents   int64                    `gorm:"column:subtotal_cents;not null;default:0"`
	TaxCents        int64                    `gorm:"column:tax_cents;not null;default:0"`
	TotalCents      int64                    `gorm:"column:total_cents;not null;default:0"`
	PaymentStatus   enums.QuotePaymentStatus `gorm:"column:payment_status;type:quote_payment_status;not null;default:'unpaid'"`
	AmountPaidCents int64                    `gorm:"column:amount_paid_cents;not null;default:0"`
	Notes           *string                  `gorm:"column:notes"`
	ArchivedAt      *time.Time               `gorm:"column:archived_at"`
	SentAt          *time.Time               `gorm:"column:sent_at"`
	DecidedAt       *time.Time               `gorm:"column:decided_at"`
	Items           []QuoteItem              `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// OutstandingCents is the balance still owed against the quote total.
func (q Quote) OutstandingCents() int64 {
	remaining := q.TotalCents - q.AmountPaidCents
	if remaining < 0 {
		return 0
	}
	return remaining
}
