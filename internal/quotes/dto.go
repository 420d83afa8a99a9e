package quotes

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ovenmade/ovenmade-backend/internal/pricing"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

// ManualItem is one baker-authored line in the quote builder.
type ManualItem struct {
	Category       enums.ItemCategory `json:"category" validate:"required"`
	Name           string             `json:"name" validate:"required"`
	Description    *string            `json:"description,omitempty"`
	Quantity       decimal.Decimal    `json:"quantity"`
	UnitPriceCents int64              `json:"unit_price_cents" validate:"gte=0"`
}

// AssembleInput captures both entry paths into a draft quote: a priced
// build, or a manual item list. Exactly one of Build and Items is set.
type AssembleInput struct {
	BakerID    uuid.UUID
	CustomerID uuid.UUID
	Title      string
	EventDate  *time.Time
	Notes      *string
	Build      *pricing.Build
	Items      []ManualItem
}

// UpdateDraftInput swaps the item list and header fields of a draft quote.
type UpdateDraftInput struct {
	QuoteID   uuid.UUID
	BakerID   uuid.UUID
	Title     *string
	EventDate *time.Time
	Notes     *string
	Items     []ManualItem
}

// Actor identifies who initiated a lifecycle action.
type Actor struct {
	BakerID    *uuid.UUID
	CustomerID *uuid.UUID
	Source     string
}

// QuoteSentEvent is emitted when a quote moves from draft to sent.
type QuoteSentEvent struct {
	QuoteID     uuid.UUID `json:"quote_id"`
	BakerID     uuid.UUID `json:"baker_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	QuoteNumber int64     `json:"quote_number"`
	TotalCents  int64     `json:"total_cents"`
}

// QuoteDecisionEvent is emitted when a sent quote is accepted or declined.
type QuoteDecisionEvent struct {
	QuoteID     uuid.UUID         `json:"quote_id"`
	BakerID     uuid.UUID         `json:"baker_id"`
	CustomerID  uuid.UUID         `json:"customer_id"`
	QuoteNumber int64             `json:"quote_number"`
	Status      enums.QuoteStatus `json:"status"`
	TotalCents  int64             `json:"total_cents"`
}

// QuoteRevertedEvent is emitted when a sent quote returns to draft.
type QuoteRevertedEvent struct {
	QuoteID uuid.UUID `json:"quote_id"`
	BakerID uuid.UUID `json:"baker_id"`
}
