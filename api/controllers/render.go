package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
)

// Response shapes are explicit so the persistence models never leak gorm
// column metadata or internal fields into the API surface.

type quoteItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	Category        string          `json:"category"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPriceCents  int64           `json:"unit_price_cents"`
	TotalPriceCents int64           `json:"total_price_cents"`
	Position        int             `json:"position"`
}

type quoteResponse struct {
	ID               uuid.UUID           `json:"id"`
	BakerID          uuid.UUID           `json:"baker_id"`
	CustomerID       uuid.UUID           `json:"customer_id"`
	QuoteNumber      int64               `json:"quote_number"`
	Title            string              `json:"title"`
	EventDate        *time.Time          `json:"event_date,omitempty"`
	Status           string              `json:"status"`
	Currency         string              `json:"currency"`
	TaxRate          decimal.Decimal     `json:"tax_rate"`
	SubtotalCents    int64               `json:"subtotal_cents"`
	TaxCents         int64               `json:"tax_cents"`
	TotalCents       int64               `json:"total_cents"`
	PaymentStatus    string              `json:"payment_status"`
	AmountPaidCents  int64               `json:"amount_paid_cents"`
	OutstandingCents int64               `json:"outstanding_cents"`
	Notes            *string             `json:"notes,omitempty"`
	ArchivedAt       *time.Time          `json:"archived_at,omitempty"`
	SentAt           *time.Time          `json:"sent_at,omitempty"`
	DecidedAt        *time.Time          `json:"decided_at,omitempty"`
	Items            []quoteItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func newQuoteResponse(quote *models.Quote) quoteResponse {
	items := make([]quoteItemResponse, len(quote.Items))
	for i, item := range quote.Items {
		items[i] = quoteItemResponse{
			ID:              item.ID,
			Category:        string(item.Category),
			Name:            item.Name,
			Description:     item.Description,
			Quantity:        item.Quantity,
			UnitPriceCents:  item.UnitPriceCents,
			TotalPriceCents: item.TotalPriceCents,
			Position:        item.Position,
		}
	}
	return quoteResponse{
		ID:               quote.ID,
		BakerID:          quote.BakerID,
		CustomerID:       quote.CustomerID,
		QuoteNumber:      quote.QuoteNumber,
		Title:            quote.Title,
		EventDate:        quote.EventDate,
		Status:           string(quote.Status),
		Currency:         string(quote.Currency),
		TaxRate:          quote.TaxRate,
		SubtotalCents:    quote.SubtotalCents,
		TaxCents:         quote.TaxCents,
		TotalCents:       quote.TotalCents,
		PaymentStatus:    string(quote.PaymentStatus),
		AmountPaidCents:  quote.AmountPaidCents,
		OutstandingCents: quote.OutstandingCents(),
		Notes:            quote.Notes,
		ArchivedAt:       quote.ArchivedAt,
		SentAt:           quote.SentAt,
		DecidedAt:        quote.DecidedAt,
		Items:            items,
		CreatedAt:        quote.CreatedAt,
		UpdatedAt:        quote.UpdatedAt,
	}
}

func newQuoteListResponse(quotes []models.Quote) []quoteResponse {
	out := make([]quoteResponse, len(quotes))
	for i := range quotes {
		out[i] = newQuoteResponse(&quotes[i])
	}
	return out
}

type orderResponse struct {
	ID                uuid.UUID  `json:"id"`
	QuoteID           uuid.UUID  `json:"quote_id"`
	BakerID           uuid.UUID  `json:"baker_id"`
	Title             string     `json:"title"`
	EventDate         *time.Time `json:"event_date,omitempty"`
	AmountCents       int64      `json:"amount_cents"`
	FulfillmentStatus string     `json:"fulfillment_status"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	return orderResponse{
		ID:                order.ID,
		QuoteID:           order.QuoteID,
		BakerID:           order.BakerID,
		Title:             order.Title,
		EventDate:         order.EventDate,
		AmountCents:       order.AmountCents,
		FulfillmentStatus: string(order.FulfillmentStatus),
		CompletedAt:       order.CompletedAt,
		CancelledAt:       order.CancelledAt,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

func newOrderListResponse(orders []models.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = newOrderResponse(&orders[i])
	}
	return out
}

type paymentResponse struct {
	ID               uuid.UUID `json:"id"`
	QuoteID          uuid.UUID `json:"quote_id"`
	ExternalID       string    `json:"external_id"`
	Type             string    `json:"type"`
	Status           string    `json:"status"`
	AmountCents      int64     `json:"amount_cents"`
	PlatformFeeCents int64     `json:"platform_fee_cents"`
	FailureReason    *string   `json:"failure_reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func newPaymentListResponse(payments []models.Payment) []paymentResponse {
	out := make([]paymentResponse, len(payments))
	for i, p := range payments {
		out[i] = paymentResponse{
			ID:               p.ID,
			QuoteID:          p.QuoteID,
			ExternalID:       p.ExternalID,
			Type:             string(p.Type),
			Status:           string(p.Status),
			AmountCents:      p.AmountCents,
			PlatformFeeCents: p.PlatformFeeCents,
			FailureReason:    p.FailureReason,
			CreatedAt:        p.CreatedAt,
		}
	}
	return out
}

type catalogEntryResponse struct {
	ID         uuid.UUID `json:"id"`
	Category   string    `json:"category"`
	Key        string    `json:"key"`
	Label      string    `json:"label"`
	PriceCents int64     `json:"price_cents"`
	Position   int       `json:"position"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func newCatalogEntryResponse(entry *models.CatalogEntry) catalogEntryResponse {
	return catalogEntryResponse{
		ID:         entry.ID,
		Category:   string(entry.Category),
		Key:        entry.Key,
		Label:      entry.Label,
		PriceCents: entry.PriceCents,
		Position:   entry.Position,
		Active:     entry.Active,
		CreatedAt:  entry.CreatedAt,
		UpdatedAt:  entry.UpdatedAt,
	}
}

type bakerSettingsResponse struct {
	ID                uuid.UUID       `json:"id"`
	BusinessName      string          `json:"business_name"`
	Email             string          `json:"email"`
	Currency          string          `json:"currency"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	DepositType       string          `json:"deposit_type"`
	DepositPercent    decimal.Decimal `json:"deposit_percent"`
	DepositFixedCents int64           `json:"deposit_fixed_cents"`
}

func newBakerSettingsResponse(baker *models.Baker) bakerSettingsResponse {
	return bakerSettingsResponse{
		ID:                baker.ID,
		BusinessName:      baker.BusinessName,
		Email:             baker.Email,
		Currency:          string(baker.Currency),
		TaxRate:           baker.TaxRate,
		DepositType:       string(baker.DepositType),
		DepositPercent:    baker.DepositPercent,
		DepositFixedCents: baker.DepositFixedCents,
	}
}

type leadResponse struct {
	ID            uuid.UUID `json:"id"`
	BakerID       uuid.UUID `json:"baker_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone *string   `json:"customer_phone,omitempty"`
	PayloadKind   string    `json:"payload_kind"`
	QuotedCents   int64     `json:"quoted_cents"`
	CreatedAt     time.Time `json:"created_at"`
}

func newLeadListResponse(leads []models.Lead) []leadResponse {
	out := make([]leadResponse, len(leads))
	for i, lead := range leads {
		out[i] = leadResponse{
			ID:            lead.ID,
			BakerID:       lead.BakerID,
			CustomerName:  lead.CustomerName,
			CustomerEmail: lead.CustomerEmail,
			CustomerPhone: lead.CustomerPhone,
			PayloadKind:   lead.PayloadKind,
			QuotedCents:   lead.QuotedCents,
			CreatedAt:     lead.CreatedAt,
		}
	}
	return out
}
