package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	"github.com/ovenmade/ovenmade-backend/pkg/pagination"
)

// Repository defines persistence operations for quotes and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	FindByBakerAndNumber(ctx context.Context, bakerID uuid.UUID, number int64) (*models.Quote, error)
	List(ctx context.Context, bakerID uuid.UUID, params pagination.Params, filters ListFilters) (*QuoteList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []models.QuoteItem) error
	NextQuoteNumber(ctx context.Context, bakerID uuid.UUID) (int64, error)
	FindSentBefore(ctx context.Context, cutoff time.Time) ([]models.Quote, error)
}

// ListFilters describe the inputs supported by the quote list.
type ListFilters struct {
	Status          *enums.QuoteStatus
	PaymentStatus   *enums.QuotePaymentStatus
	IncludeArchived bool
	Query           string
}

// QuoteList wraps the paginated quotes plus the next page cursor.
type QuoteList struct {
	Quotes     []models.Quote `json:"quotes"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
