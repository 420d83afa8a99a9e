package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateQuote   OutboxAggregateType = "quote"
	AggregateOrder   OutboxAggregateType = "order"
	AggregatePayment OutboxAggregateType = "payment"
	AggregateLead    OutboxAggregateType = "lead"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateQuote,
	AggregateOrder,
	AggregatePayment,
	AggregateLead,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventQuoteSent             OutboxEventType = "quote_sent"
	EventQuoteAccepted         OutboxEventType = "quote_accepted"
	EventQuoteDeclined         OutboxEventType = "quote_declined"
	EventQuoteReverted         OutboxEventType = "quote_reverted"
	EventQuoteFollowUpDue      OutboxEventType = "quote_follow_up_due"
	EventOrderCreated          OutboxEventType = "order_created"
	EventOrderFulfillmentMoved OutboxEventType = "order_fulfillment_moved"
	EventPaymentRecorded       OutboxEventType = "payment_recorded"
	EventPaymentFailed         OutboxEventType = "payment_failed"
	EventLeadCaptured          OutboxEventType = "lead_captured"
)

var validOutboxEventTypes = []OutboxEventType{
	EventQuoteSent,
	EventQuoteAccepted,
	EventQuoteDeclined,
	EventQuoteReverted,
	EventQuoteFollowUpDue,
	EventOrderCreated,
	EventOrderFulfillmentMoved,
	EventPaymentRecorded,
	EventPaymentFailed,
	EventLeadCaptured,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
