package enums

import "fmt"

// BuildCategory discriminates what kind of product a customer is pricing.
type BuildCategory string

const (
	BuildCategoryCake  BuildCategory = "cake"
	BuildCategoryTreat BuildCategory = "treat"
)

var validBuildCategories = []BuildCategory{
	BuildCategoryCake,
	BuildCategoryTreat,
}

// String implements fmt.Stringer.
func (b BuildCategory) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BuildCategory.
func (b BuildCategory) IsValid() bool {
	for _, candidate := range validBuildCategories {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBuildCategory converts raw input into a BuildCategory.
func ParseBuildCategory(value string) (BuildCategory, error) {
	for _, candidate := range validBuildCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid build category %q", value)
}
