package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

// Order is the fulfillment projection of an approved quote. It never
// replaces the quote as the money authority; amount_cents is a copy taken at
// approval time for calendar and reporting reads.
type Order struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID           uuid.UUID               `gorm:"column:quote_id;type:uuid;not null;uniqueIndex:ux_orders_quote"`
	BakerID           uuid.UUID               `gorm:"column:baker_id;type:uuid;not null;index:ix_orders_baker"`
	Title             string                  `gorm:"column:title;not null"`
	EventDate         *time.Time              `gorm:"column:event_date"`
	AmountCents       int64                   `gorm:"column:amount_cents;not null"`
	FulfillmentStatus enums.FulfillmentStatus `gorm:"column:fulfillment_status;type:fulfillment_status;not null;default:'booked'"`
	CompletedAt       *time.Time              `gorm:"column:completed_at"`
	CancelledAt       *time.Time              `gorm:"column:cancelled_at"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
