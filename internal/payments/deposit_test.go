package payments

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

func TestRequiredDepositNone(t *testing.T) {
	baker := &models.Baker{DepositType: enums.DepositTypeNone}
	assert.Equal(t, int64(0), RequiredDepositCents(30000, baker))
}

func TestRequiredDepositPercentage(t *testing.T) {
	baker := &models.Baker{
		DepositType:    enums.DepositTypePercentage,
		DepositPercent: decimal.NewFromInt(50),
	}
	assert.Equal(t, int64(15000), RequiredDepositCents(30000, baker))
}

func TestRequiredDepositPercentageRoundsHalfUp(t *testing.T) {
	baker := &models.Baker{
		DepositType:    enums.DepositTypePercentage,
		DepositPercent: decimal.NewFromInt(25),
	}
	// 25% of $1.25 = 31.25 cents, rounds to 31
	assert.Equal(t, int64(31), RequiredDepositCents(125, baker))

	// 50% of $0.25 = 12.5 cents, rounds up to 13
	half := &models.Baker{
		DepositType:    enums.DepositTypePercentage,
		DepositPercent: decimal.NewFromInt(50),
	}
	assert.Equal(t, int64(13), RequiredDepositCents(25, half))
}

func TestRequiredDepositFixedCappedAtTotal(t *testing.T) {
	baker := &models.Baker{
		DepositType:       enums.DepositTypeFixed,
		DepositFixedCents: 50000,
	}
	// fixed deposit larger than the total degrades to pay-in-full
	assert.Equal(t, int64(30000), RequiredDepositCents(30000, baker))
	assert.Equal(t, int64(50000), RequiredDepositCents(80000, baker))
}

func TestRequiredDepositDegenerateInputs(t *testing.T) {
	assert.Equal(t, int64(0), RequiredDepositCents(30000, nil))
	assert.Equal(t, int64(0), RequiredDepositCents(0, &models.Baker{DepositType: enums.DepositTypeFixed, DepositFixedCents: 1000}))
	assert.Equal(t, int64(0), RequiredDepositCents(30000, &models.Baker{
		DepositType:    enums.DepositTypePercentage,
		DepositPercent: decimal.Zero,
	}))
}
