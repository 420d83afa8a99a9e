package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

// Baker holds the per-business configuration the pricing and reconciliation
// paths consume. Authentication and profile editing live outside this
// service; this record is the pricing-relevant projection of a baker.
type Baker struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BusinessName      string            `gorm:"column:business_name;not null"`
	Email             string            `gorm:"column:email;not null"`
	Currency          enums.Currency    `gorm:"column:currency;type:text;not null;default:'USD'"`
	TaxRate           decimal.Decimal   `gorm:"column:tax_rate;type:numeric(6,4);not null;default:0"`
	DepositType       enums.DepositType `gorm:"column:deposit_type;type:deposit_type;not null;default:'none'"`
	DepositPercent    decimal.Decimal   `gorm:"column:deposit_percent;type:numeric(5,2);not null;default:0"`
	DepositFixedCents int64             `gorm:"column:deposit_fixed_cents;not null;default:0"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
