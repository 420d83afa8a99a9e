package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/internal/catalog"
	"github.com/ovenmade/ovenmade-backend/internal/pricing"
	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
	"github.com/ovenmade/ovenmade-backend/pkg/metrics"
	"github.com/ovenmade/ovenmade-backend/pkg/outbox"
	"github.com/ovenmade/ovenmade-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type bakerSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Baker, error)
}

// OrderProjector creates the fulfillment projection when a quote is accepted.
type OrderProjector interface {
	ProjectApproved(ctx context.Context, tx *gorm.DB, quote *models.Quote) error
}

// Service defines quote assembly and lifecycle operations.
type Service interface {
	Assemble(ctx context.Context, input AssembleInput) (*models.Quote, error)
	UpdateDraft(ctx context.Context, input UpdateDraftInput) (*models.Quote, error)
	Send(ctx context.Context, quoteID uuid.UUID, actor Actor) (*models.Quote, error)
	Accept(ctx context.Context, quoteID uuid.UUID, actor Actor) (*models.Quote, error)
	Decline(ctx context.Context, quoteID uuid.UUID, actor Actor) (*models.Quote, error)
	Revert(ctx context.Context, quoteID uuid.UUID, actor Actor) (*models.Quote, error)
	Duplicate(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) (*models.Quote, error)
	Archive(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) error
	Unarchive(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) error
	Get(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) (*models.Quote, error)
	GetPublic(ctx context.Context, quoteID uuid.UUID) (*models.Quote, error)
	List(ctx context.Context, bakerID uuid.UUID, params pagination.Params, filters ListFilters) (*QuoteList, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	bakers   bakerSource
	catalogs catalog.SnapshotLoader
	orders   OrderProjector
	logg     *logger.Logger
	pricing  *metrics.PricingMetrics
}

// NewService builds a quote service with the required dependencies.
func NewService(
	repo Repository,
	tx txRunner,
	outboxSvc outboxPublisher,
	bakers bakerSource,
	catalogs catalog.SnapshotLoader,
	orders OrderProjector,
	logg *logger.Logger,
	pricingMetrics *metrics.PricingMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quotes repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if bakers == nil {
		return nil, fmt.Errorf("baker source required")
	}
	if catalogs == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order projector required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   outboxSvc,
		bakers:   bakers,
		catalogs: catalogs,
		orders:   orders,
		logg:     logg,
		pricing:  pricingMetrics,
	}, nil
}

func (s *service) Assemble(ctx context.Context, input AssembleInput) (*models.Quote, error) {
	if input.BakerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "baker id required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.Build == nil && len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a build or at least one item is required")
	}
	if input.Build != nil && len(input.Items) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "build and manual items are mutually exclusive")
	}

	baker, err := s.bakers.FindByID(ctx, input.BakerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "baker not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load baker")
	}

	items, err := s.buildItems(ctx, baker, input)
	if err != nil {
		return nil, err
	}

	subtotal := sumItems(items)
	tax := pricing.TaxCents(subtotal, baker.TaxRate)

	quote := &models.Quote{
		BakerID:       baker.ID,
		CustomerID:    input.CustomerID,
		Title:         input.Title,
		EventDate:     input.EventDate,
		Status:        enums.QuoteStatusDraft,
		Currency:      baker.Currency,
		TaxRate:       baker.TaxRate,
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    subtotal + tax,
		PaymentStatus: enums.QuotePaymentStatusUnpaid,
		Notes:         input.Notes,
		Items:         items,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		number, err := repo.NextQuoteNumber(ctx, baker.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign quote number")
		}
		quote.QuoteNumber = number
		if _, err := repo.Create(ctx, quote); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quote")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *service) buildItems(ctx context.Context, baker *models.Baker, input AssembleInput) ([]models.QuoteItem, error) {
	if input.Build != nil {
		snap, err := s.catalogs.Load(ctx, baker.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
		}
		lines, misses := pricing.Itemize(*input.Build, snap)
		s.reportMisses(ctx, baker.ID, misses)
		s.pricing.IncCalculation(input.Build.Category.String())

		items := make([]models.QuoteItem, 0, len(lines))
		for i, line := range lines {
			items = append(items, models.QuoteItem{
				Category:        line.Category,
				Name:            line.Name,
				Quantity:        line.Quantity,
				UnitPriceCents:  line.UnitPriceCents,
				TotalPriceCents: line.TotalPriceCents,
				Position:        i,
			})
		}
		return items, nil
	}

	items := make([]models.QuoteItem, 0, len(input.Items))
	for i, manual := range input.Items {
		if manual.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
		}
		if manual.UnitPriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
		}
		category := manual.Category
		if !category.IsValid() {
			category = enums.ItemCategoryOther
		}
		qty := manual.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		if qty.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity cannot be negative")
		}
		total := decimal.NewFromInt(manual.UnitPriceCents).Mul(qty).Round(0).IntPart()
		items = append(items, models.QuoteItem{
			Category:        category,
			Name:            manual.Name,
			Description:     manual.Description,
			Quantity:        qty,
			UnitPriceCents:  manual.UnitPriceCents,
			TotalPriceCents: total,
			Position:        i,
		})
	}
	return items, nil
}

func (s *service) reportMisses(ctx context.Context, bakerID uuid.UUID, misses []pricing.Miss) {
	for _, miss := range misses {
		s.pricing.IncCatalogMiss(miss.Category.String())
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"baker_id": bakerID.String(),
				"category": miss.Category.String(),
				"key":      miss.Key,
			})
			s.logg.Warn(logCtx, "catalog selection did not resolve, priced at zero")
		}
	}
}

func (s *service) UpdateDraft(ctx context.Context, input UpdateDraftInput) (*models.Quote, error) {
	if input.QuoteID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id required")
	}

	var updated *models.Quote
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := s.loadOwned(ctx, repo, input.QuoteID, input.BakerID)
		if err != nil {
			return err
		}
		if quote.Status != enums.QuoteStatusDraft {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only draft quotes can be edited")
		}

		updates := map[string]any{}
		if input.Title != nil {
			updates["title"] = *input.Title
		}
		if input.EventDate != nil {
			updates["event_date"] = *input.EventDate
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}

		if input.Items != nil {
			items, err := s.buildItems(ctx, &models.Baker{ID: quote.BakerID}, AssembleInput{Items: input.Items})
			if err != nil {
				return err
			}
			if err := repo.ReplaceItems(ctx, quote.ID, items); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace quote items")
			}
			subtotal := sumItems(items)
			tax := pricing.TaxCents(subtotal, quote.TaxRate)
			updates["subtotal_cents"] = subtotal
			updates["tax_cents"] = tax
			updates["total_cents"] = subtotal + tax
		}

		if len(updates) > 0 {
			if err := repo.Update(ctx, quote.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quote")
			}
		}

		updated, err = repo.FindByID(ctx, quote.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload quote")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Send(ctx context.Context, quoteID uuid.UUID, actor Actor) (*models.Quote, error) {
	var sent *models.Quote
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := s.loadOwned(ctx, repo, quoteID, actorBaker(actor))
		if err != nil {
			return err
		}
		if err := ValidateTransition(quote.Status, enums.QuoteStatusSent); err != nil {
			return err
		}
		if len(quote.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quote has no items to send")
		}

		// Item totals are re-validated here rather than trusted from the
		// caller; a mismatch means corrupted financial state.
		if total := sumItems(quote.Items); total != quote.SubtotalCents {
			return pkgerrors.New(pkgerrors.CodeInternal,
				fmt.Sprintf("quote subtotal %d does not match item total %d", quote.SubtotalCents, total))
		}

		now := time.Now()
		updates := map[string]any{
			"status":  enums.QuoteStatusSent,
			"sent_at": now,
		}
		if err := repo.Update(ctx, quote.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark quote sent")
		}
		quote.Status = enums.QuoteStatusSent
		quote.SentAt = &now
		sent = quote

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventQuoteSent,
			AggregateType: enums.AggregateQuote,
			AggregateID:   quote.ID,
			Version:       1,
			Actor:         buildActor(actor),
			Data: QuoteSentEvent{
				QuoteID:     quote.ID,
				BakerID:     quote.BakerID,
				CustomerID:  quote.CustomerID,
				QuoteNumber: quote.QuoteNumber,
				TotalCents:  quote.TotalCents,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return sent, nil
}

func (s *service) Accept(ctx context.Context, quoteID uuid.UUID, actor Actor) (*models.Quote, error) {
	var accepted *models.Quote
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := s.loadOwned(ctx, repo, quoteID, actorBaker(actor))
		if err != nil {
			return err
		}

		// Re-accepting an approved quote is a no-op, not a conflict.
		if quote.Status == enums.QuoteStatusApproved {
			accepted = quote
			return nil
		}
		if err := ValidateTransition(quote.Status, enums.QuoteStatusApproved); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]any{
			"status":     enums.QuoteStatusApproved,
			"decided_at": now,
		}
		if err := repo.Update(ctx, quote.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark quote approved")
		}
		quote.Status = enums.QuoteStatusApproved
		quote.DecidedAt = &now
		accepted = quote

		if err := s.orders.ProjectApproved(ctx, tx, quote); err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventQuoteAccepted,
			AggregateType: enums.AggregateQuote,
			AggregateID:   quote.ID,
			Version:       1,
			Actor:         buildActor(actor),
			Data: QuoteDecisionEvent{
				QuoteID:     quote.ID,
				BakerID:     quote.BakerID,
				CustomerID:  quote.CustomerID,
				QuoteNumber: quote.QuoteNumber,
				Status:      enums.QuoteStatusApproved,
				TotalCents:  quote.TotalCents,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

func (s *service) Decline(ctx context.Context, quoteID uuid.UUID, actor Actor) (*models.Quote, error) {
	var declined *models.Quote
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := s.loadOwned(ctx, repo, quoteID, actorBaker(actor))
		if err != nil {
			return err
		}
		if err := ValidateTransition(quote.Status, enums.QuoteStatusRejected); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]any{
			"status":     enums.QuoteStatusRejected,
			"decided_at": now,
		}
		if err := repo.Update(ctx, quote.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark quote rejected")
		}
		quote.Status = enums.QuoteStatusRejected
		quote.DecidedAt = &now
		declined = quote

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventQuoteDeclined,
			AggregateType: enums.AggregateQuote,
			AggregateID:   quote.ID,
			Version:       1,
			Actor:         buildActor(actor),
			Data: QuoteDecisionEvent{
				QuoteID:     quote.ID,
				BakerID:     quote.BakerID,
				CustomerID:  quote.CustomerID,
				QuoteNumber: quote.QuoteNumber,
				Status:      enums.QuoteStatusRejected,
				TotalCents:  quote.TotalCents,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return declined, nil
}

func (s *service) Revert(ctx context.Context, quoteID uuid.UUID, actor Actor) (*models.Quote, error) {
	var reverted *models.Quote
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := s.loadOwned(ctx, repo, quoteID, actorBaker(actor))
		if err != nil {
			return err
		}
		if err := ValidateTransition(quote.Status, enums.QuoteStatusDraft); err != nil {
			return err
		}

		updates := map[string]any{
			"status":  enums.QuoteStatusDraft,
			"sent_at": nil,
		}
		if err := repo.Update(ctx, quote.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revert quote to draft")
		}
		quote.Status = enums.QuoteStatusDraft
		quote.SentAt = nil
		reverted = quote

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventQuoteReverted,
			AggregateType: enums.AggregateQuote,
			AggregateID:   quote.ID,
			Version:       1,
			Actor:         buildActor(actor),
			Data: QuoteRevertedEvent{
				QuoteID: quote.ID,
				BakerID: quote.BakerID,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return reverted, nil
}

// Duplicate copies a quote into a fresh draft with a new number. The usual
// path is re-quoting after a decline; the rejected quote itself never
// mutates.
func (s *service) Duplicate(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) (*models.Quote, error) {
	var copyQuote *models.Quote
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		source, err := s.loadOwned(ctx, repo, quoteID, bakerID)
		if err != nil {
			return err
		}

		number, err := repo.NextQuoteNumber(ctx, source.BakerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign quote number")
		}

		items := make([]models.QuoteItem, 0, len(source.Items))
		for _, item := range source.Items {
			items = append(items, models.QuoteItem{
				Category:        item.Category,
				Name:            item.Name,
				Description:     item.Description,
				Quantity:        item.Quantity,
				UnitPriceCents:  item.UnitPriceCents,
				TotalPriceCents: item.TotalPriceCents,
				Position:        item.Position,
			})
		}

		copyQuote = &models.Quote{
			BakerID:       source.BakerID,
			CustomerID:    source.CustomerID,
			QuoteNumber:   number,
			Title:         source.Title,
			EventDate:     source.EventDate,
			Status:        enums.QuoteStatusDraft,
			Currency:      source.Currency,
			TaxRate:       source.TaxRate,
			SubtotalCents: source.SubtotalCents,
			TaxCents:      source.TaxCents,
			TotalCents:    source.TotalCents,
			PaymentStatus: enums.QuotePaymentStatusUnpaid,
			Notes:         source.Notes,
			Items:         items,
		}
		if _, err := repo.Create(ctx, copyQuote); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create duplicate quote")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copyQuote, nil
}

func (s *service) Archive(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) error {
	return s.setArchived(ctx, quoteID, bakerID, true)
}

func (s *service) Unarchive(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) error {
	return s.setArchived(ctx, quoteID, bakerID, false)
}

// setArchived flips the archive flag without touching status; archiving is
// a visibility concern, not a lifecycle transition.
func (s *service) setArchived(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID, archived bool) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quote, err := s.loadOwned(ctx, repo, quoteID, bakerID)
		if err != nil {
			return err
		}

		var value any
		if archived {
			value = time.Now()
		}
		if err := repo.Update(ctx, quote.ID, map[string]any{"archived_at": value}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update archive flag")
		}
		return nil
	})
}

func (s *service) Get(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) (*models.Quote, error) {
	return s.loadOwned(ctx, s.repo, quoteID, bakerID)
}

// GetPublic loads a quote for the customer-facing accept/decline page.
// Drafts are invisible to customers.
func (s *service) GetPublic(ctx context.Context, quoteID uuid.UUID) (*models.Quote, error) {
	quote, err := s.repo.FindByID(ctx, quoteID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	if quote.Status == enums.QuoteStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}
	return quote, nil
}

func (s *service) List(ctx context.Context, bakerID uuid.UUID, params pagination.Params, filters ListFilters) (*QuoteList, error) {
	if bakerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "baker id required")
	}
	list, err := s.repo.List(ctx, bakerID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotes")
	}
	return list, nil
}

func (s *service) loadOwned(ctx context.Context, repo Repository, quoteID uuid.UUID, bakerID uuid.UUID) (*models.Quote, error) {
	if quoteID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id required")
	}
	quote, err := repo.FindByID(ctx, quoteID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	if bakerID != uuid.Nil && quote.BakerID != bakerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "quote does not belong to baker")
	}
	return quote, nil
}

func sumItems(items []models.QuoteItem) int64 {
	var total int64
	for _, item := range items {
		total += item.TotalPriceCents
	}
	return total
}

func actorBaker(actor Actor) uuid.UUID {
	if actor.BakerID != nil {
		return *actor.BakerID
	}
	return uuid.Nil
}

func buildActor(actor Actor) *outbox.ActorRef {
	if actor.BakerID == nil && actor.CustomerID == nil && actor.Source == "" {
		return nil
	}
	return &outbox.ActorRef{
		BakerID:    actor.BakerID,
		CustomerID: actor.CustomerID,
		Source:     actor.Source,
	}
}
