package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ovenmade/ovenmade-backend/internal/catalog"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

// Breakdown decomposes a priced build. All fields are minor units (cents);
// SubtotalCents is exactly the sum of the five component fields and
// TotalCents is exactly SubtotalCents + TaxCents.
type Breakdown struct {
	TiersCents       int64 `json:"tiers_cents"`
	DecorationsCents int64 `json:"decorations_cents"`
	AddonsCents      int64 `json:"addons_cents"`
	TreatsCents      int64 `json:"treats_cents"`
	DeliveryCents    int64 `json:"delivery_cents"`
	SubtotalCents    int64 `json:"subtotal_cents"`
	TaxCents         int64 `json:"tax_cents"`
	TotalCents       int64 `json:"total_cents"`
}

// Line is one synthesized quote line. TotalPriceCents is the rounded
// product of unit price and quantity.
type Line struct {
	Category        enums.ItemCategory
	Name            string
	Quantity        decimal.Decimal
	UnitPriceCents  int64
	TotalPriceCents int64
}

// Miss records a selection key that did not resolve in the catalog. Misses
// never fail a calculation; the selection prices at zero and the caller
// decides whether to surface the data-quality signal.
type Miss struct {
	Category enums.CatalogCategory
	Key      string
}

// Calculate prices a build against a catalog snapshot. Pure: no I/O, no
// clock, deterministic for identical inputs. Unresolved selections price at
// zero and are reported as misses rather than errors.
func Calculate(build Build, snap catalog.Snapshot, taxRate decimal.Decimal) (Breakdown, []Miss) {
	lines, misses := Itemize(build, snap)
	return Summarize(lines, taxRate), misses
}

// Itemize synthesizes quote lines from a build: one per tier, one per
// decoration, one per add-on and treat, and one for delivery when a
// non-pickup option is selected. Zero-priced lines are kept so catalog gaps
// stay visible on the quote.
func Itemize(build Build, snap catalog.Snapshot) ([]Line, []Miss) {
	var lines []Line
	var misses []Miss

	resolve := func(category enums.CatalogCategory, key string) int64 {
		if key == "" {
			return 0
		}
		cents, ok := snap.Price(category, key)
		if !ok {
			misses = append(misses, Miss{Category: category, Key: key})
		}
		return cents
	}

	for i, tier := range build.Tiers {
		unit := resolve(enums.CatalogCategorySize, tier.Size) +
			resolve(enums.CatalogCategoryShape, tier.Shape) +
			resolve(enums.CatalogCategoryFlavor, tier.Flavor) +
			resolve(enums.CatalogCategoryFrosting, tier.Frosting)
		lines = append(lines, Line{
			Category:        enums.ItemCategoryCake,
			Name:            tierName(i, tier, snap),
			Quantity:        decimal.NewFromInt(1),
			UnitPriceCents:  unit,
			TotalPriceCents: unit,
		})
	}

	for _, key := range build.Decorations {
		unit := resolve(enums.CatalogCategoryDecoration, key)
		lines = append(lines, Line{
			Category:        enums.ItemCategoryDecoration,
			Name:            snap.Label(enums.CatalogCategoryDecoration, key),
			Quantity:        decimal.NewFromInt(1),
			UnitPriceCents:  unit,
			TotalPriceCents: unit,
		})
	}

	for _, addon := range build.Addons {
		unit := resolve(enums.CatalogCategoryAddon, addon.Key)
		qty := addon.effectiveQuantity()
		lines = append(lines, Line{
			Category:        enums.ItemCategoryAddon,
			Name:            snap.Label(enums.CatalogCategoryAddon, addon.Key),
			Quantity:        qty,
			UnitPriceCents:  unit,
			TotalPriceCents: extend(unit, qty),
		})
	}

	for _, treat := range build.Treats {
		unit := resolve(enums.CatalogCategoryTreat, treat.Key)
		qty := treat.effectiveQuantity()
		lines = append(lines, Line{
			Category:        enums.ItemCategoryTreat,
			Name:            snap.Label(enums.CatalogCategoryTreat, treat.Key),
			Quantity:        qty,
			UnitPriceCents:  unit,
			TotalPriceCents: extend(unit, qty),
		})
	}

	if build.DeliveryOption != "" && build.DeliveryOption != DeliveryPickup {
		unit := resolve(enums.CatalogCategoryDelivery, build.DeliveryOption)
		lines = append(lines, Line{
			Category:        enums.ItemCategoryDelivery,
			Name:            snap.Label(enums.CatalogCategoryDelivery, build.DeliveryOption),
			Quantity:        decimal.NewFromInt(1),
			UnitPriceCents:  unit,
			TotalPriceCents: unit,
		})
	}

	return lines, misses
}

// Summarize folds lines into a breakdown and applies the tax rate. Tax is
// rounded half-up to the minor unit.
func Summarize(lines []Line, taxRate decimal.Decimal) Breakdown {
	var b Breakdown
	for _, line := range lines {
		switch line.Category {
		case enums.ItemCategoryCake:
			b.TiersCents += line.TotalPriceCents
		case enums.ItemCategoryDecoration:
			b.DecorationsCents += line.TotalPriceCents
		case enums.ItemCategoryAddon:
			b.AddonsCents += line.TotalPriceCents
		case enums.ItemCategoryTreat:
			b.TreatsCents += line.TotalPriceCents
		case enums.ItemCategoryDelivery:
			b.DeliveryCents += line.TotalPriceCents
		default:
			b.AddonsCents += line.TotalPriceCents
		}
	}
	b.SubtotalCents = b.TiersCents + b.DecorationsCents + b.AddonsCents + b.TreatsCents + b.DeliveryCents
	b.TaxCents = TaxCents(b.SubtotalCents, taxRate)
	b.TotalCents = b.SubtotalCents + b.TaxCents
	return b
}

// TaxCents computes tax on a subtotal, rounded half-up to the minor unit.
func TaxCents(subtotalCents int64, taxRate decimal.Decimal) int64 {
	if taxRate.IsZero() || subtotalCents == 0 {
		return 0
	}
	return decimal.NewFromInt(subtotalCents).Mul(taxRate).Round(0).IntPart()
}

// extend multiplies a unit price by a possibly fractional quantity,
// rounding half-up. A quantity of 0.5 against a per-dozen price is the
// half-dozen rule.
func extend(unitCents int64, qty decimal.Decimal) int64 {
	return decimal.NewFromInt(unitCents).Mul(qty).Round(0).IntPart()
}

func tierName(index int, tier Tier, snap catalog.Snapshot) string {
	size := snap.Label(enums.CatalogCategorySize, tier.Size)
	flavor := snap.Label(enums.CatalogCategoryFlavor, tier.Flavor)
	if flavor == "" {
		return fmt.Sprintf("Tier %d: %s", index+1, size)
	}
	return fmt.Sprintf("Tier %d: %s %s", index+1, size, flavor)
}
