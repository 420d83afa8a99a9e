package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
)

// Repository defines persistence operations for order projections.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByQuoteID(ctx context.Context, quoteID uuid.UUID) (*models.Order, error)
	ListByBaker(ctx context.Context, bakerID uuid.UUID) ([]models.Order, error)
	ListCalendar(ctx context.Context, bakerID uuid.UUID, from, to time.Time) ([]models.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
