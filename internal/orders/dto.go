package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

// CalendarRange bounds a calendar listing; To is exclusive.
type CalendarRange struct {
	From time.Time
	To   time.Time
}

// OrderCreatedEvent is published when an approved quote is projected into an
// order.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID  `json:"order_id"`
	QuoteID     uuid.UUID  `json:"quote_id"`
	BakerID     uuid.UUID  `json:"baker_id"`
	Title       string     `json:"title"`
	EventDate   *time.Time `json:"event_date,omitempty"`
	AmountCents int64      `json:"amount_cents"`
}

// OrderFulfillmentMovedEvent is published on every fulfillment transition.
type OrderFulfillmentMovedEvent struct {
	OrderID uuid.UUID               `json:"order_id"`
	QuoteID uuid.UUID               `json:"quote_id"`
	BakerID uuid.UUID               `json:"baker_id"`
	From    enums.FulfillmentStatus `json:"from"`
	To      enums.FulfillmentStatus `json:"to"`
}
