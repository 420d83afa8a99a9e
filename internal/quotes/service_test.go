package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/internal/catalog"
	"github.com/ovenmade/ovenmade-backend/internal/pricing"
	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
	"github.com/ovenmade/ovenmade-backend/pkg/outbox"
	"github.com/ovenmade/ovenmade-backend/pkg/pagination"
)

type stubQuotesRepo struct {
	quote      *models.Quote
	updates    map[string]any
	created    *models.Quote
	nextNumber int64
	items      []models.QuoteItem
}

func (s *stubQuotesRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubQuotesRepo) Create(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	s.created = quote
	return quote, nil
}

func (s *stubQuotesRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	if s.quote == nil || s.quote.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.quote, nil
}

func (s *stubQuotesRepo) FindByBakerAndNumber(ctx context.Context, bakerID uuid.UUID, number int64) (*models.Quote, error) {
	panic("not implemented")
}

func (s *stubQuotesRepo) List(ctx context.Context, bakerID uuid.UUID, params pagination.Params, filters ListFilters) (*QuoteList, error) {
	return &QuoteList{}, nil
}

func (s *stubQuotesRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubQuotesRepo) ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []models.QuoteItem) error {
	s.items = items
	return nil
}

func (s *stubQuotesRepo) NextQuoteNumber(ctx context.Context, bakerID uuid.UUID) (int64, error) {
	s.nextNumber++
	return s.nextNumber, nil
}

func (s *stubQuotesRepo) FindSentBefore(ctx context.Context, cutoff time.Time) ([]models.Quote, error) {
	return nil, nil
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubBakerSource struct {
	baker *models.Baker
}

func (s *stubBakerSource) FindByID(ctx context.Context, id uuid.UUID) (*models.Baker, error) {
	if s.baker == nil || s.baker.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.baker, nil
}

type stubSnapshotLoader struct {
	snap catalog.Snapshot
}

func (s *stubSnapshotLoader) Load(ctx context.Context, bakerID uuid.UUID) (catalog.Snapshot, error) {
	return s.snap, nil
}

type stubOrderProjector struct {
	projected []uuid.UUID
	err       error
}

func (s *stubOrderProjector) ProjectApproved(ctx context.Context, tx *gorm.DB, quote *models.Quote) error {
	if s.err != nil {
		return s.err
	}
	s.projected = append(s.projected, quote.ID)
	return nil
}

func newTestService(repo *stubQuotesRepo, outboxStub *stubOutboxPublisher, bakers *stubBakerSource, projector *stubOrderProjector) Service {
	snap := catalog.NewSnapshot([]models.CatalogEntry{
		{Category: enums.CatalogCategorySize, Key: "8-round", Label: `8" Round`, PriceCents: 4000, Active: true},
		{Category: enums.CatalogCategoryFlavor, Key: "vanilla", Label: "Vanilla", Active: true},
	})
	svc, err := NewService(repo, stubTxRunner{}, outboxStub, bakers, &stubSnapshotLoader{snap: snap}, projector, nil, nil)
	if err != nil {
		panic(err)
	}
	return svc
}

func draftQuote(bakerID uuid.UUID) *models.Quote {
	return &models.Quote{
		ID:          uuid.New(),
		BakerID:     bakerID,
		CustomerID:  uuid.New(),
		QuoteNumber: 7,
		Title:       "Birthday Cake",
		Status:      enums.QuoteStatusDraft,
		Currency:    enums.CurrencyUSD,
		TaxRate:     decimal.RequireFromString("0.08"),
		Items: []models.QuoteItem{
			{
				Category:        enums.ItemCategoryCake,
				Name:            `Tier 1: 8" Round Vanilla`,
				Quantity:        decimal.NewFromInt(1),
				UnitPriceCents:  4000,
				TotalPriceCents: 4000,
			},
		},
		SubtotalCents: 4000,
		TaxCents:      320,
		TotalCents:    4320,
	}
}

func TestAssembleFromBuildSnapshotsTaxAndAssignsNumber(t *testing.T) {
	bakerID := uuid.New()
	repo := &stubQuotesRepo{}
	bakers := &stubBakerSource{baker: &models.Baker{
		ID:       bakerID,
		Currency: enums.CurrencyUSD,
		TaxRate:  decimal.RequireFromString("0.08"),
	}}

	svc := newTestService(repo, &stubOutboxPublisher{}, bakers, &stubOrderProjector{})

	quote, err := svc.Assemble(context.Background(), AssembleInput{
		BakerID:    bakerID,
		CustomerID: uuid.New(),
		Title:      "Birthday Cake",
		Build: &pricing.Build{
			Category: enums.BuildCategoryCake,
			Tiers: []pricing.Tier{
				{Size: "8-round", Flavor: "vanilla"},
			},
			DeliveryOption: pricing.DeliveryPickup,
		},
	})
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}

	if quote.QuoteNumber != 1 {
		t.Fatalf("expected quote number 1, got %d", quote.QuoteNumber)
	}
	if quote.Status != enums.QuoteStatusDraft {
		t.Fatalf("expected draft, got %s", quote.Status)
	}
	if quote.SubtotalCents != 4000 || quote.TaxCents != 320 || quote.TotalCents != 4320 {
		t.Fatalf("unexpected totals: %d %d %d", quote.SubtotalCents, quote.TaxCents, quote.TotalCents)
	}
	if len(quote.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(quote.Items))
	}
}

func TestAssembleManualItemsRevalidatesTotals(t *testing.T) {
	bakerID := uuid.New()
	repo := &stubQuotesRepo{}
	bakers := &stubBakerSource{baker: &models.Baker{ID: bakerID, Currency: enums.CurrencyUSD}}

	svc := newTestService(repo, &stubOutboxPublisher{}, bakers, &stubOrderProjector{})

	quote, err := svc.Assemble(context.Background(), AssembleInput{
		BakerID:    bakerID,
		CustomerID: uuid.New(),
		Title:      "Custom Order",
		Items: []ManualItem{
			{Category: enums.ItemCategoryCake, Name: "Sheet cake", UnitPriceCents: 5000},
			{Category: enums.ItemCategoryAddon, Name: "Cupcakes (dozen)", Quantity: decimal.NewFromInt(2), UnitPriceCents: 3600},
		},
	})
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}

	if quote.SubtotalCents != 12200 {
		t.Fatalf("expected subtotal 12200, got %d", quote.SubtotalCents)
	}
	var itemSum int64
	for _, item := range quote.Items {
		itemSum += item.TotalPriceCents
	}
	if itemSum != quote.SubtotalCents {
		t.Fatalf("item sum %d != subtotal %d", itemSum, quote.SubtotalCents)
	}
}

func TestAssembleRejectsEmptyInput(t *testing.T) {
	svc := newTestService(&stubQuotesRepo{}, &stubOutboxPublisher{}, &stubBakerSource{}, &stubOrderProjector{})

	_, err := svc.Assemble(context.Background(), AssembleInput{
		BakerID:    uuid.New(),
		CustomerID: uuid.New(),
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSendEmitsEventAndStampsSentAt(t *testing.T) {
	bakerID := uuid.New()
	quote := draftQuote(bakerID)
	repo := &stubQuotesRepo{quote: quote}
	outboxStub := &stubOutboxPublisher{}

	svc := newTestService(repo, outboxStub, &stubBakerSource{}, &stubOrderProjector{})

	sent, err := svc.Send(context.Background(), quote.ID, Actor{BakerID: &bakerID, Source: "baker"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if sent.Status != enums.QuoteStatusSent {
		t.Fatalf("expected sent, got %s", sent.Status)
	}
	if sent.SentAt == nil {
		t.Fatal("expected sent_at to be stamped")
	}
	if len(outboxStub.events) != 1 || outboxStub.events[0].EventType != enums.EventQuoteSent {
		t.Fatalf("expected quote_sent event, got %+v", outboxStub.events)
	}
}

func TestSendRejectsEmptyQuote(t *testing.T) {
	bakerID := uuid.New()
	quote := draftQuote(bakerID)
	quote.Items = nil
	repo := &stubQuotesRepo{quote: quote}
	outboxStub := &stubOutboxPublisher{}

	svc := newTestService(repo, outboxStub, &stubBakerSource{}, &stubOrderProjector{})

	_, err := svc.Send(context.Background(), quote.ID, Actor{BakerID: &bakerID})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.updates != nil {
		t.Fatal("expected no mutation on rejected send")
	}
	if len(outboxStub.events) != 0 {
		t.Fatal("expected no event on rejected send")
	}
}

func TestSendFailsLoudlyOnSubtotalMismatch(t *testing.T) {
	bakerID := uuid.New()
	quote := draftQuote(bakerID)
	quote.SubtotalCents = 9999
	repo := &stubQuotesRepo{quote: quote}

	svc := newTestService(repo, &stubOutboxPublisher{}, &stubBakerSource{}, &stubOrderProjector{})

	_, err := svc.Send(context.Background(), quote.ID, Actor{BakerID: &bakerID})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestAcceptCreatesOrderProjection(t *testing.T) {
	bakerID := uuid.New()
	quote := draftQuote(bakerID)
	quote.Status = enums.QuoteStatusSent
	repo := &stubQuotesRepo{quote: quote}
	outboxStub := &stubOutboxPublisher{}
	projector := &stubOrderProjector{}

	svc := newTestService(repo, outboxStub, &stubBakerSource{}, projector)

	accepted, err := svc.Accept(context.Background(), quote.ID, Actor{Source: "customer"})
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != enums.QuoteStatusApproved {
		t.Fatalf("expected approved, got %s", accepted.Status)
	}
	if len(projector.projected) != 1 || projector.projected[0] != quote.ID {
		t.Fatalf("expected order projection for quote, got %v", projector.projected)
	}
	if len(outboxStub.events) != 1 || outboxStub.events[0].EventType != enums.EventQuoteAccepted {
		t.Fatalf("expected quote_accepted event, got %+v", outboxStub.events)
	}
}

func TestAcceptIsIdempotentOnApprovedQuote(t *testing.T) {
	bakerID := uuid.New()
	quote := draftQuote(bakerID)
	quote.Status = enums.QuoteStatusApproved
	repo := &stubQuotesRepo{quote: quote}
	outboxStub := &stubOutboxPublisher{}
	projector := &stubOrderProjector{}

	svc := newTestService(repo, outboxStub, &stubBakerSource{}, projector)

	accepted, err := svc.Accept(context.Background(), quote.ID, Actor{Source: "customer"})
	if err != nil {
		t.Fatalf("re-accept should be a no-op, got %v", err)
	}
	if accepted.Status != enums.QuoteStatusApproved {
		t.Fatalf("expected approved, got %s", accepted.Status)
	}
	if len(projector.projected) != 0 {
		t.Fatal("expected no duplicate order projection")
	}
	if len(outboxStub.events) != 0 {
		t.Fatal("expected no duplicate event")
	}
}

func TestTerminalStatesRejectTransitions(t *testing.T) {
	bakerID := uuid.New()
	for _, status := range []enums.QuoteStatus{enums.QuoteStatusApproved, enums.QuoteStatusRejected} {
		quote := draftQuote(bakerID)
		quote.Status = status
		repo := &stubQuotesRepo{quote: quote}
		svc := newTestService(repo, &stubOutboxPublisher{}, &stubBakerSource{}, &stubOrderProjector{})

		if _, err := svc.Send(context.Background(), quote.ID, Actor{BakerID: &bakerID}); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
			t.Fatalf("send from %s: expected state conflict, got %v", status, err)
		}
		if _, err := svc.Revert(context.Background(), quote.ID, Actor{BakerID: &bakerID}); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
			t.Fatalf("revert from %s: expected state conflict, got %v", status, err)
		}
		if status == enums.QuoteStatusRejected {
			if _, err := svc.Accept(context.Background(), quote.ID, Actor{}); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
				t.Fatalf("accept from rejected: expected state conflict, got %v", err)
			}
		}
	}
}

func TestRevertOnlyAllowedFromSent(t *testing.T) {
	bakerID := uuid.New()
	quote := draftQuote(bakerID)
	quote.Status = enums.QuoteStatusSent
	now := time.Now()
	quote.SentAt = &now
	repo := &stubQuotesRepo{quote: quote}
	outboxStub := &stubOutboxPublisher{}

	svc := newTestService(repo, outboxStub, &stubBakerSource{}, &stubOrderProjector{})

	reverted, err := svc.Revert(context.Background(), quote.ID, Actor{BakerID: &bakerID})
	if err != nil {
		t.Fatalf("revert failed: %v", err)
	}
	if reverted.Status != enums.QuoteStatusDraft {
		t.Fatalf("expected draft, got %s", reverted.Status)
	}
	if reverted.SentAt != nil {
		t.Fatal("expected sent_at cleared")
	}
	if len(outboxStub.events) != 1 || outboxStub.events[0].EventType != enums.EventQuoteReverted {
		t.Fatalf("expected quote_reverted event, got %+v", outboxStub.events)
	}
}

func TestDuplicateProducesFreshDraftWithNewNumber(t *testing.T) {
	bakerID := uuid.New()
	quote := draftQuote(bakerID)
	quote.Status = enums.QuoteStatusRejected
	repo := &stubQuotesRepo{quote: quote, nextNumber: 7}

	svc := newTestService(repo, &stubOutboxPublisher{}, &stubBakerSource{}, &stubOrderProjector{})

	duplicate, err := svc.Duplicate(context.Background(), quote.ID, bakerID)
	if err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}
	if duplicate.Status != enums.QuoteStatusDraft {
		t.Fatalf("expected draft, got %s", duplicate.Status)
	}
	if duplicate.QuoteNumber != 8 {
		t.Fatalf("expected number 8, got %d", duplicate.QuoteNumber)
	}
	if duplicate.PaymentStatus != enums.QuotePaymentStatusUnpaid {
		t.Fatalf("expected unpaid, got %s", duplicate.PaymentStatus)
	}
	if quote.Status != enums.QuoteStatusRejected {
		t.Fatal("source quote must not mutate")
	}
	if len(duplicate.Items) != len(quote.Items) {
		t.Fatalf("expected %d items, got %d", len(quote.Items), len(duplicate.Items))
	}
}

func TestGetRejectsForeignBaker(t *testing.T) {
	quote := draftQuote(uuid.New())
	repo := &stubQuotesRepo{quote: quote}

	svc := newTestService(repo, &stubOutboxPublisher{}, &stubBakerSource{}, &stubOrderProjector{})

	_, err := svc.Get(context.Background(), quote.ID, uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestGetPublicHidesDrafts(t *testing.T) {
	quote := draftQuote(uuid.New())
	repo := &stubQuotesRepo{quote: quote}

	svc := newTestService(repo, &stubOutboxPublisher{}, &stubBakerSource{}, &stubOrderProjector{})

	_, err := svc.GetPublic(context.Background(), quote.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for draft, got %v", err)
	}
}
