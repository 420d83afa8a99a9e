package bakers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
)

// PricingSettingsInput carries the editable pricing configuration. Nil fields
// are left untouched.
type PricingSettingsInput struct {
	TaxRate           *decimal.Decimal
	DepositType       *enums.DepositType
	DepositPercent    *decimal.Decimal
	DepositFixedCents *int64
}

// Service exposes baker lookups and pricing configuration edits.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Baker, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Baker, error)
	UpdatePricingSettings(ctx context.Context, id uuid.UUID, input PricingSettingsInput) (*models.Baker, error)
}

type service struct {
	repo Repository
}

// NewService builds a bakers service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bakers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Baker, error) {
	baker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "baker not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load baker")
	}
	return baker, nil
}

// FindByID satisfies the baker source the quotes and payments services
// depend on.
func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*models.Baker, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdatePricingSettings(ctx context.Context, id uuid.UUID, input PricingSettingsInput) (*models.Baker, error) {
	updates := map[string]any{}

	if input.TaxRate != nil {
		if input.TaxRate.IsNegative() || input.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be between 0 and 1")
		}
		updates["tax_rate"] = *input.TaxRate
	}
	if input.DepositType != nil {
		if !input.DepositType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid deposit type")
		}
		updates["deposit_type"] = *input.DepositType
	}
	if input.DepositPercent != nil {
		if input.DepositPercent.IsNegative() || input.DepositPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "deposit percent must be between 0 and 100")
		}
		updates["deposit_percent"] = *input.DepositPercent
	}
	if input.DepositFixedCents != nil {
		if *input.DepositFixedCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "deposit amount cannot be negative")
		}
		updates["deposit_fixed_cents"] = *input.DepositFixedCents
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "baker not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update baker settings")
	}
	return s.Get(ctx, id)
}
