package leads

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
)

// Repository persists captured leads.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, lead *models.Lead) (*models.Lead, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	ListByBaker(ctx context.Context, bakerID uuid.UUID) ([]models.Lead, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a leads repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *repository) ListByBaker(ctx context.Context, bakerID uuid.UUID) ([]models.Lead, error) {
	var leads []models.Lead
	err := r.db.WithContext(ctx).
		Where("baker_id = ?", bakerID).
		Order("created_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}
