package models

import (
	"time"

	"github.com/google/uuid"
)

// QuoteCounter hands out per-baker quote numbers. Numbers only ever move
// forward; deleting a quote never returns its number to the pool.
type QuoteCounter struct {
	BakerID    uuid.UUID `gorm:"column:baker_id;type:uuid;primaryKey"`
	LastNumber int64     `gorm:"column:last_number;not null;default:0"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
