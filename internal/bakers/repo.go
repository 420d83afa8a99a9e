package bakers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
)

// Repository persists baker pricing configuration.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, baker *models.Baker) (*models.Baker, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Baker, error)
	FindByEmail(ctx context.Context, email string) (*models.Baker, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a bakers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, baker *models.Baker) (*models.Baker, error) {
	if baker.ID == uuid.Nil {
		baker.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(baker).Error; err != nil {
		return nil, err
	}
	return baker, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Baker, error) {
	var baker models.Baker
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&baker).Error; err != nil {
		return nil, err
	}
	return &baker, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.Baker, error) {
	var baker models.Baker
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&baker).Error; err != nil {
		return nil, err
	}
	return &baker, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.Baker{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
