package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS catalog_entries (
  id TEXT PRIMARY KEY,
  baker_id TEXT NOT NULL,
  category TEXT NOT NULL,
  key TEXT NOT NULL,
  label TEXT NOT NULL,
  price_cents INTEGER NOT NULL DEFAULT 0,
  position INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func TestCatalogRepositoryListsByBakerInPositionOrder(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	bakerID := uuid.New()
	otherBaker := uuid.New()

	second := &models.CatalogEntry{
		ID:       uuid.New(),
		BakerID:  bakerID,
		Category: enums.CatalogCategorySize,
		Key:      "10-round",
		Label:    `10" Round`,
		Position: 2,
		Active:   true,
	}
	first := &models.CatalogEntry{
		ID:       uuid.New(),
		BakerID:  bakerID,
		Category: enums.CatalogCategorySize,
		Key:      "8-round",
		Label:    `8" Round`,
		Position: 1,
		Active:   true,
	}
	foreign := &models.CatalogEntry{
		ID:       uuid.New(),
		BakerID:  otherBaker,
		Category: enums.CatalogCategorySize,
		Key:      "6-round",
		Label:    `6" Round`,
		Active:   true,
	}

	for _, entry := range []*models.CatalogEntry{second, first, foreign} {
		_, err := repo.Create(ctx, entry)
		require.NoError(t, err)
	}

	entries, err := repo.ListByBaker(ctx, bakerID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "8-round", entries[0].Key)
	assert.Equal(t, "10-round", entries[1].Key)
}

func TestCatalogRepositoryListActiveSkipsInactive(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	bakerID := uuid.New()

	active := &models.CatalogEntry{
		ID:       uuid.New(),
		BakerID:  bakerID,
		Category: enums.CatalogCategoryFlavor,
		Key:      "vanilla",
		Label:    "Vanilla",
		Active:   true,
	}
	retired := &models.CatalogEntry{
		ID:       uuid.New(),
		BakerID:  bakerID,
		Category: enums.CatalogCategoryFlavor,
		Key:      "red-velvet",
		Label:    "Red Velvet",
		Active:   false,
	}

	for _, entry := range []*models.CatalogEntry{active, retired} {
		_, err := repo.Create(ctx, entry)
		require.NoError(t, err)
	}

	entries, err := repo.ListActiveByBaker(ctx, bakerID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "vanilla", entries[0].Key)
}

func TestCatalogRepositoryUpdateAndDelete(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	entry := &models.CatalogEntry{
		ID:       uuid.New(),
		BakerID:  uuid.New(),
		Category: enums.CatalogCategoryAddon,
		Key:      "cupcakes",
		Label:    "Cupcakes (dozen)",
		Active:   true,
	}
	_, err := repo.Create(ctx, entry)
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, entry.ID, map[string]any{"price_cents": 3600}))

	updated, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), updated.PriceCents)

	require.NoError(t, repo.Delete(ctx, entry.ID))

	_, err = repo.FindByID(ctx, entry.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
