package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

// QuoteItem captures the snapshot of one line within a quote. Quantity is a
// decimal because half-dozen treat pricing is expressed as 0.5.
type QuoteItem struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID         uuid.UUID          `gorm:"column:quote_id;type:uuid;not null;index:ix_quote_items_quote"`
	Category        enums.ItemCategory `gorm:"column:category;type:item_category;not null;default:'other'"`
	Name            string             `gorm:"column:name;not null"`
	Description     *string            `gorm:"column:description"`
	Quantity        decimal.Decimal    `gorm:"column:quantity;type:numeric(10,2);not null;default:1"`
	UnitPriceCents  int64              `gorm:"column:unit_price_cents;not null"`
	TotalPriceCents int64              `gorm:"column:total_price_cents;not null"`
	Position        int                `gorm:"column:position;not null;default:0"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
