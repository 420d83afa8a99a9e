package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
	"github.com/ovenmade/ovenmade-backend/pkg/outbox"
)

type stubOrdersRepo struct {
	order   *models.Order
	byQuote map[uuid.UUID]*models.Order
	created []*models.Order
	updates map[string]any
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{byQuote: make(map[uuid.UUID]*models.Order)}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.created = append(s.created, order)
	s.byQuote[order.QuoteID] = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrdersRepo) FindByQuoteID(ctx context.Context, quoteID uuid.UUID) (*models.Order, error) {
	order, ok := s.byQuote[quoteID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrdersRepo) ListByBaker(ctx context.Context, bakerID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrdersRepo) ListCalendar(ctx context.Context, bakerID uuid.UUID, from, to time.Time) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrdersRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.order == nil || s.order.ID != id {
		return gorm.ErrRecordNotFound
	}
	s.updates = updates
	return nil
}

type stubOrdersTxRunner struct{}

func (stubOrdersTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOrdersOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOrdersOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newOrdersTestService(t *testing.T, repo Repository, outboxStub *stubOrdersOutbox) Service {
	t.Helper()
	svc, err := NewService(repo, stubOrdersTxRunner{}, outboxStub, nil)
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return svc
}

func approvedQuoteFixture() *models.Quote {
	eventDate := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	return &models.Quote{
		ID:         uuid.New(),
		BakerID:    uuid.New(),
		Title:      "Wedding Cake",
		EventDate:  &eventDate,
		TotalCents: 43200,
		Status:     enums.QuoteStatusApproved,
	}
}

func TestProjectApprovedCreatesOrderAndEmitsEvent(t *testing.T) {
	repo := newStubOrdersRepo()
	outboxStub := &stubOrdersOutbox{}
	svc := newOrdersTestService(t, repo, outboxStub)

	quote := approvedQuoteFixture()
	if err := svc.ProjectApproved(context.Background(), nil, quote); err != nil {
		t.Fatalf("project approved: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one order, got %d", len(repo.created))
	}
	order := repo.created[0]
	if order.QuoteID != quote.ID || order.BakerID != quote.BakerID {
		t.Fatal("order must reference the source quote and baker")
	}
	if order.AmountCents != quote.TotalCents {
		t.Fatalf("order amount must copy the quote total, got %d", order.AmountCents)
	}
	if order.FulfillmentStatus != enums.FulfillmentStatusBooked {
		t.Fatalf("expected booked, got %s", order.FulfillmentStatus)
	}
	if len(outboxStub.events) != 1 || outboxStub.events[0].EventType != enums.EventOrderCreated {
		t.Fatalf("expected order_created event, got %+v", outboxStub.events)
	}
}

func TestProjectApprovedIsIdempotent(t *testing.T) {
	repo := newStubOrdersRepo()
	outboxStub := &stubOrdersOutbox{}
	svc := newOrdersTestService(t, repo, outboxStub)

	quote := approvedQuoteFixture()
	if err := svc.ProjectApproved(context.Background(), nil, quote); err != nil {
		t.Fatalf("first projection: %v", err)
	}
	if err := svc.ProjectApproved(context.Background(), nil, quote); err != nil {
		t.Fatalf("replayed projection must be a no-op, got %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected a single order, got %d", len(repo.created))
	}
	if len(outboxStub.events) != 1 {
		t.Fatalf("expected a single event, got %d", len(outboxStub.events))
	}
}

func TestMoveFulfillmentHappyPath(t *testing.T) {
	repo := newStubOrdersRepo()
	outboxStub := &stubOrdersOutbox{}
	svc := newOrdersTestService(t, repo, outboxStub)

	bakerID := uuid.New()
	repo.order = &models.Order{
		ID:                uuid.New(),
		QuoteID:           uuid.New(),
		BakerID:           bakerID,
		FulfillmentStatus: enums.FulfillmentStatusBooked,
	}

	order, err := svc.MoveFulfillment(context.Background(), repo.order.ID, bakerID, enums.FulfillmentStatusInProgress)
	if err != nil {
		t.Fatalf("move to in_progress: %v", err)
	}
	if order.FulfillmentStatus != enums.FulfillmentStatusInProgress {
		t.Fatalf("expected in_progress, got %s", order.FulfillmentStatus)
	}

	order, err = svc.MoveFulfillment(context.Background(), repo.order.ID, bakerID, enums.FulfillmentStatusCompleted)
	if err != nil {
		t.Fatalf("move to completed: %v", err)
	}
	if order.CompletedAt == nil {
		t.Fatal("completed_at must be stamped")
	}
	if len(outboxStub.events) != 2 {
		t.Fatalf("expected two fulfillment events, got %d", len(outboxStub.events))
	}
	if outboxStub.events[1].EventType != enums.EventOrderFulfillmentMoved {
		t.Fatalf("expected order_fulfillment_moved, got %s", outboxStub.events[1].EventType)
	}
}

func TestMoveFulfillmentRejectsInvalidTransitions(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newOrdersTestService(t, repo, &stubOrdersOutbox{})

	bakerID := uuid.New()
	repo.order = &models.Order{
		ID:                uuid.New(),
		BakerID:           bakerID,
		FulfillmentStatus: enums.FulfillmentStatusBooked,
	}

	// cannot skip straight to completed
	if _, err := svc.MoveFulfillment(context.Background(), repo.order.ID, bakerID, enums.FulfillmentStatusCompleted); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}

	// terminal states are frozen
	repo.order.FulfillmentStatus = enums.FulfillmentStatusCancelled
	if _, err := svc.MoveFulfillment(context.Background(), repo.order.ID, bakerID, enums.FulfillmentStatusInProgress); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict from cancelled, got %v", err)
	}

	// moving back to booked is never allowed
	repo.order.FulfillmentStatus = enums.FulfillmentStatusInProgress
	if _, err := svc.MoveFulfillment(context.Background(), repo.order.ID, bakerID, enums.FulfillmentStatusBooked); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCancellationAllowedRegardlessOfPayment(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newOrdersTestService(t, repo, &stubOrdersOutbox{})

	bakerID := uuid.New()
	repo.order = &models.Order{
		ID:                uuid.New(),
		BakerID:           bakerID,
		AmountCents:       43200,
		FulfillmentStatus: enums.FulfillmentStatusInProgress,
	}

	order, err := svc.MoveFulfillment(context.Background(), repo.order.ID, bakerID, enums.FulfillmentStatusCancelled)
	if err != nil {
		t.Fatalf("cancel in_progress order: %v", err)
	}
	if order.CancelledAt == nil {
		t.Fatal("cancelled_at must be stamped")
	}
}

func TestMoveFulfillmentEnforcesOwnership(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newOrdersTestService(t, repo, &stubOrdersOutbox{})

	repo.order = &models.Order{
		ID:                uuid.New(),
		BakerID:           uuid.New(),
		FulfillmentStatus: enums.FulfillmentStatusBooked,
	}

	if _, err := svc.MoveFulfillment(context.Background(), repo.order.ID, uuid.New(), enums.FulfillmentStatusInProgress); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
