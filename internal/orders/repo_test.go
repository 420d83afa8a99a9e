package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	ddl := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  quote_id TEXT NOT NULL UNIQUE,
  baker_id TEXT NOT NULL,
  title TEXT NOT NULL,
  event_date DATETIME,
  amount_cents INTEGER NOT NULL DEFAULT 0,
  fulfillment_status TEXT NOT NULL DEFAULT 'booked',
  completed_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func mustCreateOrder(t *testing.T, repo Repository, bakerID uuid.UUID, eventDate *time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:                uuid.New(),
		QuoteID:           uuid.New(),
		BakerID:           bakerID,
		Title:             "Wedding Cake",
		EventDate:         eventDate,
		AmountCents:       43200,
		FulfillmentStatus: enums.FulfillmentStatusBooked,
	}
	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestCreateAndFindByQuoteID(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	bakerID := uuid.New()

	created := mustCreateOrder(t, repo, bakerID, nil)

	found, err := repo.FindByQuoteID(context.Background(), created.QuoteID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, enums.FulfillmentStatusBooked, found.FulfillmentStatus)
	assert.Equal(t, int64(43200), found.AmountCents)
}

func TestQuoteCanOnlyProjectOneOrder(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	bakerID := uuid.New()

	created := mustCreateOrder(t, repo, bakerID, nil)

	_, err := repo.Create(context.Background(), &models.Order{
		ID:      uuid.New(),
		QuoteID: created.QuoteID,
		BakerID: bakerID,
		Title:   "Duplicate",
	})
	require.Error(t, err)
}

func TestListCalendarFiltersAndOrders(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	bakerID := uuid.New()

	june10 := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	june20 := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	july5 := time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC)

	late := mustCreateOrder(t, repo, bakerID, &june20)
	early := mustCreateOrder(t, repo, bakerID, &june10)
	mustCreateOrder(t, repo, bakerID, &july5)
	mustCreateOrder(t, repo, bakerID, nil) // undated, never on the calendar
	mustCreateOrder(t, repo, uuid.New(), &june10)

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	orders, err := repo.ListCalendar(context.Background(), bakerID, from, to)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, early.ID, orders[0].ID)
	assert.Equal(t, late.ID, orders[1].ID)
}

func TestUpdateFulfillmentStatus(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	created := mustCreateOrder(t, repo, uuid.New(), nil)

	err := repo.Update(context.Background(), created.ID, map[string]any{
		"fulfillment_status": enums.FulfillmentStatusInProgress,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.FulfillmentStatusInProgress, found.FulfillmentStatus)

	err = repo.Update(context.Background(), uuid.New(), map[string]any{
		"fulfillment_status": enums.FulfillmentStatusInProgress,
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
