package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Lead stores a public calculator submission. Payload is the decoded,
// tagged selection (see internal/leads); it is discriminated once at
// ingestion and stored with its kind, never re-sniffed on read.
type Lead struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BakerID       uuid.UUID       `gorm:"column:baker_id;type:uuid;not null;index:ix_leads_baker"`
	CustomerName  string          `gorm:"column:customer_name;not null"`
	CustomerEmail string          `gorm:"column:customer_email;not null"`
	CustomerPhone *string         `gorm:"column:customer_phone"`
	PayloadKind   string          `gorm:"column:payload_kind;not null"`
	Payload       json.RawMessage `gorm:"column:payload;type:jsonb;not null"`
	QuotedCents   int64           `gorm:"column:quoted_cents;not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
