package enums

import "fmt"

// ItemCategory labels a quote line item for display and reporting.
type ItemCategory string

const (
	ItemCategoryCake       ItemCategory = "cake"
	ItemCategoryDecoration ItemCategory = "decoration"
	ItemCategoryAddon      ItemCategory = "addon"
	ItemCategoryTreat      ItemCategory = "treat"
	ItemCategoryDelivery   ItemCategory = "delivery"
	ItemCategoryOther      ItemCategory = "other"
)

var validItemCategories = []ItemCategory{
	ItemCategoryCake,
	ItemCategoryDecoration,
	ItemCategoryAddon,
	ItemCategoryTreat,
	ItemCategoryDelivery,
	ItemCategoryOther,
}

// String implements fmt.Stringer.
func (i ItemCategory) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemCategory.
func (i ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}
