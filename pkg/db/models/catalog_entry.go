package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

// CatalogEntry is one priced selection in a baker's price list. For sizes
// the price is a base amount; for shapes, flavors, and frostings it is a
// per-tier modifier; for add-ons and treats it is a unit price.
type CatalogEntry struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BakerID    uuid.UUID             `gorm:"column:baker_id;type:uuid;not null;index:ix_catalog_entries_baker"`
	Category   enums.CatalogCategory `gorm:"column:category;type:catalog_category;not null"`
	Key        string                `gorm:"column:key;not null"`
	Label      string                `gorm:"column:label;not null"`
	PriceCents int64                 `gorm:"column:price_cents;not null;default:0"`
	Position   int                   `gorm:"column:position;not null;default:0"`
	Active     bool                  `gorm:"column:active;not null"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
