package pricing

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovenmade/ovenmade-backend/internal/catalog"
	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

func testSnapshot() catalog.Snapshot {
	return catalog.NewSnapshot([]models.CatalogEntry{
		{Category: enums.CatalogCategorySize, Key: "8-round", Label: `8" Round`, PriceCents: 4000, Active: true},
		{Category: enums.CatalogCategorySize, Key: "10-round", Label: `10" Round`, PriceCents: 6500, Active: true},
		{Category: enums.CatalogCategoryShape, Key: "round", Label: "Round", PriceCents: 0, Active: true},
		{Category: enums.CatalogCategoryShape, Key: "heart", Label: "Heart", PriceCents: 1500, Active: true},
		{Category: enums.CatalogCategoryFlavor, Key: "vanilla", Label: "Vanilla", PriceCents: 0, Active: true},
		{Category: enums.CatalogCategoryFlavor, Key: "red-velvet", Label: "Red Velvet", PriceCents: 500, Active: true},
		{Category: enums.CatalogCategoryFrosting, Key: "buttercream", Label: "Buttercream", PriceCents: 0, Active: true},
		{Category: enums.CatalogCategoryDecoration, Key: "fresh-flowers", Label: "Fresh Flowers", PriceCents: 2500, Active: true},
		{Category: enums.CatalogCategoryAddon, Key: "cupcakes", Label: "Cupcakes (dozen)", PriceCents: 3600, Active: true},
		{Category: enums.CatalogCategoryAddon, Key: "dessert-table", Label: "Dessert Table", PriceCents: 800, Active: true},
		{Category: enums.CatalogCategoryTreat, Key: "macarons", Label: "Macarons (dozen)", PriceCents: 3000, Active: true},
		{Category: enums.CatalogCategoryDelivery, Key: "local", Label: "Local Delivery", PriceCents: 1500, Active: true},
	})
}

func TestCalculateSingleTierPickup(t *testing.T) {
	build := Build{
		Category: enums.BuildCategoryCake,
		Tiers: []Tier{
			{Size: "8-round", Shape: "round", Flavor: "vanilla", Frosting: "buttercream"},
		},
		DeliveryOption: DeliveryPickup,
	}

	breakdown, misses := Calculate(build, testSnapshot(), decimal.RequireFromString("0.08"))

	assert.Empty(t, misses)
	assert.Equal(t, int64(4000), breakdown.TiersCents)
	assert.Equal(t, int64(0), breakdown.DecorationsCents)
	assert.Equal(t, int64(0), breakdown.DeliveryCents)
	assert.Equal(t, int64(4000), breakdown.SubtotalCents)
	assert.Equal(t, int64(320), breakdown.TaxCents)
	assert.Equal(t, int64(4320), breakdown.TotalCents)
}

func TestCalculateSumsTierModifiers(t *testing.T) {
	build := Build{
		Category: enums.BuildCategoryCake,
		Tiers: []Tier{
			{Size: "10-round", Shape: "heart", Flavor: "red-velvet", Frosting: "buttercream"},
		},
	}

	breakdown, misses := Calculate(build, testSnapshot(), decimal.Zero)

	assert.Empty(t, misses)
	// 6500 base + 1500 shape + 500 flavor + 0 frosting
	assert.Equal(t, int64(8500), breakdown.TiersCents)
	assert.Equal(t, breakdown.SubtotalCents, breakdown.TotalCents)
}

func TestCalculateHalfDozenRule(t *testing.T) {
	build := Build{
		Category: enums.BuildCategoryTreat,
		Treats: []Treat{
			{Key: "macarons", Quantity: decimal.RequireFromString("0.5")},
		},
	}

	breakdown, misses := Calculate(build, testSnapshot(), decimal.Zero)

	assert.Empty(t, misses)
	assert.Equal(t, int64(1500), breakdown.TreatsCents)
}

func TestCalculateAttendeesOverrideQuantity(t *testing.T) {
	attendees := 40
	build := Build{
		Category: enums.BuildCategoryCake,
		Addons: []Addon{
			{Key: "dessert-table", Quantity: decimal.NewFromInt(1), Attendees: &attendees},
		},
	}

	breakdown, _ := Calculate(build, testSnapshot(), decimal.Zero)

	assert.Equal(t, int64(32000), breakdown.AddonsCents)
}

func TestCalculateUnresolvedSelectionPricesZeroAndReportsMiss(t *testing.T) {
	build := Build{
		Category: enums.BuildCategoryCake,
		Tiers: []Tier{
			{Size: "8-round", Shape: "round", Flavor: "pistachio", Frosting: "buttercream"},
		},
		Decorations: []string{"gold-leaf"},
	}

	breakdown, misses := Calculate(build, testSnapshot(), decimal.Zero)

	require.Len(t, misses, 2)
	assert.Equal(t, enums.CatalogCategoryFlavor, misses[0].Category)
	assert.Equal(t, "pistachio", misses[0].Key)
	assert.Equal(t, enums.CatalogCategoryDecoration, misses[1].Category)

	// the gap prices at zero but the lines still exist
	assert.Equal(t, int64(4000), breakdown.TiersCents)
	assert.Equal(t, int64(0), breakdown.DecorationsCents)
}

func TestItemizeKeepsZeroPricedLines(t *testing.T) {
	build := Build{
		Category:    enums.BuildCategoryCake,
		Decorations: []string{"gold-leaf"},
	}

	lines, _ := Itemize(build, testSnapshot())

	require.Len(t, lines, 1)
	assert.Equal(t, int64(0), lines[0].TotalPriceCents)
	assert.Equal(t, "gold-leaf", lines[0].Name)
}

func TestItemizeSkipsDeliveryLineForPickup(t *testing.T) {
	build := Build{
		Category:       enums.BuildCategoryCake,
		Tiers:          []Tier{{Size: "8-round"}},
		DeliveryOption: DeliveryPickup,
	}

	lines, _ := Itemize(build, testSnapshot())

	for _, line := range lines {
		assert.NotEqual(t, enums.ItemCategoryDelivery, line.Category)
	}
}

func TestBreakdownAdditivityRandomized(t *testing.T) {
	snap := testSnapshot()
	rng := rand.New(rand.NewSource(1))

	sizes := []string{"8-round", "10-round", "nonexistent-size"}
	shapes := []string{"round", "heart", ""}
	flavors := []string{"vanilla", "red-velvet", "pistachio"}
	decorations := []string{"fresh-flowers", "gold-leaf"}
	addons := []string{"cupcakes", "dessert-table", "mystery-addon"}
	treats := []string{"macarons", "mystery-treat"}
	deliveries := []string{"", DeliveryPickup, "local", "regional"}
	rates := []string{"0", "0.05", "0.08", "0.0825", "0.1"}

	for i := 0; i < 10000; i++ {
		build := Build{Category: enums.BuildCategoryCake}
		for n := rng.Intn(4); n > 0; n-- {
			build.Tiers = append(build.Tiers, Tier{
				Size:     sizes[rng.Intn(len(sizes))],
				Shape:    shapes[rng.Intn(len(shapes))],
				Flavor:   flavors[rng.Intn(len(flavors))],
				Frosting: "buttercream",
			})
		}
		for n := rng.Intn(3); n > 0; n-- {
			build.Decorations = append(build.Decorations, decorations[rng.Intn(len(decorations))])
		}
		for n := rng.Intn(3); n > 0; n-- {
			build.Addons = append(build.Addons, Addon{
				Key:      addons[rng.Intn(len(addons))],
				Quantity: decimal.NewFromInt(int64(rng.Intn(5))),
			})
		}
		for n := rng.Intn(3); n > 0; n-- {
			qty := decimal.NewFromInt(int64(1 + rng.Intn(4)))
			if rng.Intn(4) == 0 {
				qty = decimal.RequireFromString("0.5")
			}
			build.Treats = append(build.Treats, Treat{
				Key:      treats[rng.Intn(len(treats))],
				Quantity: qty,
			})
		}
		build.DeliveryOption = deliveries[rng.Intn(len(deliveries))]

		rate := decimal.RequireFromString(rates[rng.Intn(len(rates))])
		breakdown, _ := Calculate(build, snap, rate)

		label := fmt.Sprintf("build %d", i)
		componentSum := breakdown.TiersCents + breakdown.DecorationsCents +
			breakdown.AddonsCents + breakdown.TreatsCents + breakdown.DeliveryCents
		require.Equal(t, componentSum, breakdown.SubtotalCents, label)
		require.Equal(t, breakdown.SubtotalCents+breakdown.TaxCents, breakdown.TotalCents, label)

		lines, _ := Itemize(build, snap)
		var lineSum int64
		for _, line := range lines {
			lineSum += line.TotalPriceCents
		}
		require.Equal(t, breakdown.SubtotalCents, lineSum, label)
	}
}
