package enums

import "fmt"

// FulfillmentStatus tracks the production side of an order independently of
// how much of the quote has been paid.
type FulfillmentStatus string

const (
	FulfillmentStatusBooked     FulfillmentStatus = "booked"
	FulfillmentStatusInProgress FulfillmentStatus = "in_progress"
	FulfillmentStatusCompleted  FulfillmentStatus = "completed"
	FulfillmentStatusCancelled  FulfillmentStatus = "cancelled"
)

var validFulfillmentStatuses = []FulfillmentStatus{
	FulfillmentStatusBooked,
	FulfillmentStatusInProgress,
	FulfillmentStatusCompleted,
	FulfillmentStatusCancelled,
}

// String implements fmt.Stringer.
func (f FulfillmentStatus) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FulfillmentStatus.
func (f FulfillmentStatus) IsValid() bool {
	for _, candidate := range validFulfillmentStatuses {
		if candidate == f {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further fulfillment transitions are allowed.
func (f FulfillmentStatus) IsTerminal() bool {
	return f == FulfillmentStatusCompleted || f == FulfillmentStatusCancelled
}

// ParseFulfillmentStatus converts raw input into a FulfillmentStatus.
func ParseFulfillmentStatus(value string) (FulfillmentStatus, error) {
	for _, candidate := range validFulfillmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fulfillment status %q", value)
}
