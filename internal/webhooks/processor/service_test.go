package processorwebhook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ovenmade/ovenmade-backend/internal/payments"
	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
)

type fakePaymentsService struct {
	inputs []payments.NotificationInput
	err    error
}

func (f *fakePaymentsService) RecordNotification(ctx context.Context, input payments.NotificationInput) (*payments.RecordResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, input)
	return &payments.RecordResult{Payment: &models.Payment{}}, nil
}

func (f *fakePaymentsService) RequestPayment(ctx context.Context, input payments.RequestInput) (*payments.PaymentRequest, error) {
	panic("not implemented")
}

func (f *fakePaymentsService) RequiredDeposit(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) (int64, error) {
	panic("not implemented")
}

func (f *fakePaymentsService) ListByQuote(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) ([]models.Payment, error) {
	panic("not implemented")
}

type fakeIdempotencyStore struct {
	keys map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: make(map[string]bool)}
}

func (f *fakeIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (f *fakeIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "om:idem:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.keys, key)
	}
	return nil
}

func newWebhookService(t *testing.T, paymentsSvc payments.Service) *Service {
	t.Helper()
	guard, err := NewIdempotencyGuard(newFakeIdempotencyStore(), time.Hour, "processor-webhook")
	if err != nil {
		t.Fatalf("construct guard: %v", err)
	}
	svc, err := NewService(ServiceParams{Payments: paymentsSvc, Guard: guard})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return svc
}

func succeededEvent() *Event {
	return &Event{
		EventID: "evt_1",
		Type:    "payment.succeeded",
		Data: EventData{
			PaymentID:   "pay_abc",
			QuoteID:     uuid.New(),
			PaymentType: "deposit",
			AmountCents: 15000,
		},
	}
}

func TestHandleEventRecordsNotification(t *testing.T) {
	paymentsSvc := &fakePaymentsService{}
	svc := newWebhookService(t, paymentsSvc)

	if err := svc.HandleEvent(context.Background(), succeededEvent()); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(paymentsSvc.inputs) != 1 {
		t.Fatalf("expected one notification, got %d", len(paymentsSvc.inputs))
	}
	input := paymentsSvc.inputs[0]
	if input.ExternalID != "pay_abc" || input.Status != enums.PaymentRecordStatusSucceeded {
		t.Fatalf("unexpected input %+v", input)
	}
	if input.Type != enums.PaymentTypeDeposit {
		t.Fatalf("expected deposit type, got %s", input.Type)
	}
}

func TestHandleEventDropsReplayedDeliveries(t *testing.T) {
	paymentsSvc := &fakePaymentsService{}
	svc := newWebhookService(t, paymentsSvc)

	event := succeededEvent()
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("replayed delivery must be absorbed: %v", err)
	}
	if len(paymentsSvc.inputs) != 1 {
		t.Fatalf("replay must not reach payments, got %d calls", len(paymentsSvc.inputs))
	}
}

func TestHandleEventUnmarksOnFailure(t *testing.T) {
	paymentsSvc := &fakePaymentsService{err: errors.New("db down")}
	svc := newWebhookService(t, paymentsSvc)

	event := succeededEvent()
	if err := svc.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("expected error")
	}

	// retry after the failure must reach the payments service again
	paymentsSvc.err = nil
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(paymentsSvc.inputs) != 1 {
		t.Fatalf("expected retry to record, got %d calls", len(paymentsSvc.inputs))
	}
}

func TestHandleEventIgnoresUnknownTypes(t *testing.T) {
	paymentsSvc := &fakePaymentsService{}
	svc := newWebhookService(t, paymentsSvc)

	event := succeededEvent()
	event.Type = "refund.created"
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unknown types must be acknowledged: %v", err)
	}
	if len(paymentsSvc.inputs) != 0 {
		t.Fatal("unknown types must not reach payments")
	}
}

func TestHandleEventValidatesPaymentType(t *testing.T) {
	svc := newWebhookService(t, &fakePaymentsService{})

	event := succeededEvent()
	event.Data.PaymentType = "tip"
	if err := svc.HandleEvent(context.Background(), event); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
