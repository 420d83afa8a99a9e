package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

// Repository defines persistence operations for payment records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.Payment, error)
	ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.Payment, error)
	ApplySucceededAmount(ctx context.Context, quoteID uuid.UUID, amountCents, toleranceCents int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) FindByExternalID(ctx context.Context, externalID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) ListByQuote(ctx context.Context, quoteID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// ApplySucceededAmount adds a succeeded payment amount to the quote's
// running total. The guard is in the WHERE clause so two concurrent
// notifications can never push amount_paid past the total: the losing
// update simply matches zero rows and reports not applied.
func (r *repository) ApplySucceededAmount(ctx context.Context, quoteID uuid.UUID, amountCents, toleranceCents int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", quoteID).
		Where("amount_paid_cents + ? <= total_cents + ?", amountCents, toleranceCents).
		Update("amount_paid_cents", gorm.Expr("amount_paid_cents + ?", amountCents))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// paymentStatusFor recomputes a quote's payment status from its running
// amount. Only succeeded amounts ever reach here.
func paymentStatusFor(amountPaidCents, totalCents, requiredDepositCents, toleranceCents int64, current enums.QuotePaymentStatus) enums.QuotePaymentStatus {
	if amountPaidCents >= totalCents-toleranceCents && totalCents > 0 {
		return enums.QuotePaymentStatusPaid
	}
	if requiredDepositCents > 0 && amountPaidCents >= requiredDepositCents {
		return enums.QuotePaymentStatusDepositPaid
	}
	return current
}
