package enums

import "fmt"

// PaymentRecordStatus is the processor-reported outcome of a single payment.
type PaymentRecordStatus string

const (
	PaymentRecordStatusPending   PaymentRecordStatus = "pending"
	PaymentRecordStatusSucceeded PaymentRecordStatus = "succeeded"
	PaymentRecordStatusFailed    PaymentRecordStatus = "failed"
)

var validPaymentRecordStatuses = []PaymentRecordStatus{
	PaymentRecordStatusPending,
	PaymentRecordStatusSucceeded,
	PaymentRecordStatusFailed,
}

// String implements fmt.Stringer.
func (p PaymentRecordStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentRecordStatus.
func (p PaymentRecordStatus) IsValid() bool {
	for _, candidate := range validPaymentRecordStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentRecordStatus converts raw input into a PaymentRecordStatus.
func ParsePaymentRecordStatus(value string) (PaymentRecordStatus, error) {
	for _, candidate := range validPaymentRecordStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment record status %q", value)
}
