package enums

import "fmt"

// QuotePaymentStatus is the reconciled payment position of a quote.
type QuotePaymentStatus string

const (
	QuotePaymentStatusUnpaid      QuotePaymentStatus = "unpaid"
	QuotePaymentStatusDepositPaid QuotePaymentStatus = "deposit_paid"
	QuotePaymentStatusPaid        QuotePaymentStatus = "paid"
)

var validQuotePaymentStatuses = []QuotePaymentStatus{
	QuotePaymentStatusUnpaid,
	QuotePaymentStatusDepositPaid,
	QuotePaymentStatusPaid,
}

// String implements fmt.Stringer.
func (q QuotePaymentStatus) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QuotePaymentStatus.
func (q QuotePaymentStatus) IsValid() bool {
	for _, candidate := range validQuotePaymentStatuses {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQuotePaymentStatus converts raw input into a QuotePaymentStatus.
func ParseQuotePaymentStatus(value string) (QuotePaymentStatus, error) {
	for _, candidate := range validQuotePaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote payment status %q", value)
}
