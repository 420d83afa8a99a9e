package payments

import (
	"github.com/shopspring/decimal"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

var oneHundred = decimal.NewFromInt(100)

// RequiredDepositCents derives the deposit a baker asks for up front.
// Percentage deposits round half-up to the minor unit; fixed deposits are
// capped at the total, so a fixed deposit larger than the quote degrades to
// pay-in-full. A baker with no deposit concept requires zero.
func RequiredDepositCents(totalCents int64, baker *models.Baker) int64 {
	if baker == nil || totalCents <= 0 {
		return 0
	}
	switch baker.DepositType {
	case enums.DepositTypePercentage:
		if baker.DepositPercent.IsZero() || baker.DepositPercent.IsNegative() {
			return 0
		}
		deposit := decimal.NewFromInt(totalCents).
			Mul(baker.DepositPercent).
			Div(oneHundred).
			Round(0).
			IntPart()
		if deposit > totalCents {
			return totalCents
		}
		return deposit
	case enums.DepositTypeFixed:
		if baker.DepositFixedCents <= 0 {
			return 0
		}
		if baker.DepositFixedCents > totalCents {
			return totalCents
		}
		return baker.DepositFixedCents
	default:
		return 0
	}
}
