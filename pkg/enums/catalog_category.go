package enums

import "fmt"

// CatalogCategory partitions a baker's price list. Sizes are base prices;
// shapes, flavors, and frostings are per-tier modifiers; the rest are flat
// or per-quantity prices.
type CatalogCategory string

const (
	CatalogCategorySize       CatalogCategory = "size"
	CatalogCategoryShape      CatalogCategory = "shape"
	CatalogCategoryFlavor     CatalogCategory = "flavor"
	CatalogCategoryFrosting   CatalogCategory = "frosting"
	CatalogCategoryDecoration CatalogCategory = "decoration"
	CatalogCategoryAddon      CatalogCategory = "addon"
	CatalogCategoryTreat      CatalogCategory = "treat"
	CatalogCategoryDelivery   CatalogCategory = "delivery"
)

var validCatalogCategories = []CatalogCategory{
	CatalogCategorySize,
	CatalogCategoryShape,
	CatalogCategoryFlavor,
	CatalogCategoryFrosting,
	CatalogCategoryDecoration,
	CatalogCategoryAddon,
	CatalogCategoryTreat,
	CatalogCategoryDelivery,
}

// String implements fmt.Stringer.
func (c CatalogCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CatalogCategory.
func (c CatalogCategory) IsValid() bool {
	for _, candidate := range validCatalogCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCatalogCategory converts raw input into a CatalogCategory.
func ParseCatalogCategory(value string) (CatalogCategory, error) {
	for _, candidate := range validCatalogCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid catalog category %q", value)
}
