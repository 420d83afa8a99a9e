package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
)

// Repository defines persistence operations for a baker's price list.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.CatalogEntry) (*models.CatalogEntry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CatalogEntry, error)
	ListByBaker(ctx context.Context, bakerID uuid.UUID) ([]models.CatalogEntry, error)
	ListActiveByBaker(ctx context.Context, bakerID uuid.UUID) ([]models.CatalogEntry, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.CatalogEntry) (*models.CatalogEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) ListByBaker(ctx context.Context, bakerID uuid.UUID) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	err := r.db.WithContext(ctx).
		Where("baker_id = ?", bakerID).
		Order("category ASC").
		Order("position ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListActiveByBaker(ctx context.Context, bakerID uuid.UUID) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	err := r.db.WithContext(ctx).
		Where("baker_id = ? AND active = ?", bakerID, true).
		Order("category ASC").
		Order("position ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.CatalogEntry{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.CatalogEntry{}).Error
}
