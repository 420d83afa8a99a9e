package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

// Tier is one layer of a cake build. Size carries the base price; shape,
// flavor, and frosting are additive modifiers.
type Tier struct {
	Size     string `json:"size"`
	Shape    string `json:"shape"`
	Flavor   string `json:"flavor"`
	Frosting string `json:"frosting"`
}

// Addon is an extra priced per unit. When Attendees is set it overrides
// Quantity (head-count priced add-ons like dessert tables).
type Addon struct {
	Key       string          `json:"key"`
	Quantity  decimal.Decimal `json:"quantity"`
	Attendees *int            `json:"attendees,omitempty"`
}

// Treat is a non-cake bake priced per unit. A quantity of 0.5 means half a
// dozen at half the per-dozen unit price.
type Treat struct {
	Key      string          `json:"key"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Build is a customer's raw selection set. It is ephemeral: builds are
// priced and itemized but never persisted beyond the lead that carried them.
type Build struct {
	Category        enums.BuildCategory `json:"category"`
	Tiers           []Tier              `json:"tiers,omitempty"`
	Decorations     []string            `json:"decorations,omitempty"`
	Addons          []Addon             `json:"addons,omitempty"`
	Treats          []Treat             `json:"treats,omitempty"`
	DeliveryOption  string              `json:"delivery_option,omitempty"`
	DeliveryAddress *string             `json:"delivery_address,omitempty"`
	SpecialRequest  *string             `json:"special_request,omitempty"`
}

// DeliveryPickup is the delivery option that always prices at zero.
const DeliveryPickup = "pickup"

func (a Addon) effectiveQuantity() decimal.Decimal {
	if a.Attendees != nil {
		return decimal.NewFromInt(int64(*a.Attendees))
	}
	if a.Quantity.IsZero() {
		return decimal.NewFromInt(1)
	}
	return a.Quantity
}

func (t Treat) effectiveQuantity() decimal.Decimal {
	if t.Quantity.IsZero() {
		return decimal.NewFromInt(1)
	}
	return t.Quantity
}
