package enums

import "fmt"

// DepositType selects how a baker collects money up front.
type DepositType string

const (
	// DepositTypeNone means the baker only ever requests the full amount.
	DepositTypeNone       DepositType = "none"
	DepositTypePercentage DepositType = "percentage"
	DepositTypeFixed      DepositType = "fixed"
)

var validDepositTypes = []DepositType{
	DepositTypeNone,
	DepositTypePercentage,
	DepositTypeFixed,
}

// String implements fmt.Stringer.
func (d DepositType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DepositType.
func (d DepositType) IsValid() bool {
	for _, candidate := range validDepositTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDepositType converts raw input into a DepositType.
func ParseDepositType(value string) (DepositType, error) {
	for _, candidate := range validDepositTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deposit type %q", value)
}
