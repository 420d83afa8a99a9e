package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
	"github.com/ovenmade/ovenmade-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service owns the fulfillment projection. Fulfillment moves independently of
// payment state: a baker can complete an unpaid order and cancel a paid one.
type Service interface {
	ProjectApproved(ctx context.Context, tx *gorm.DB, quote *models.Quote) error
	MoveFulfillment(ctx context.Context, orderID, bakerID uuid.UUID, to enums.FulfillmentStatus) (*models.Order, error)
	Get(ctx context.Context, orderID, bakerID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, bakerID uuid.UUID) ([]models.Order, error)
	Calendar(ctx context.Context, bakerID uuid.UUID, window CalendarRange) ([]models.Order, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	logg   *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: outboxSvc,
		logg:   logg,
	}, nil
}

// ProjectApproved creates the order projection inside the caller's
// transaction. Re-projecting an already projected quote is a no-op so that a
// replayed approval cannot double-book the calendar.
func (s *service) ProjectApproved(ctx context.Context, tx *gorm.DB, quote *models.Quote) error {
	if quote == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "quote required")
	}
	repo := s.repo.WithTx(tx)

	if existing, err := repo.FindByQuoteID(ctx, quote.ID); err == nil {
		if s.logg != nil {
			logCtx := s.logg.WithQuoteID(ctx, existing.QuoteID.String())
			s.logg.Debug(logCtx, "order already projected for quote")
		}
		return nil
	} else if err != gorm.ErrRecordNotFound {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up order projection")
	}

	order := &models.Order{
		QuoteID:           quote.ID,
		BakerID:           quote.BakerID,
		Title:             quote.Title,
		EventDate:         quote.EventDate,
		AmountCents:       quote.TotalCents,
		FulfillmentStatus: enums.FulfillmentStatusBooked,
	}
	if _, err := repo.Create(ctx, order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order projection")
	}

	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Data: OrderCreatedEvent{
			OrderID:     order.ID,
			QuoteID:     order.QuoteID,
			BakerID:     order.BakerID,
			Title:       order.Title,
			EventDate:   order.EventDate,
			AmountCents: order.AmountCents,
		},
	})
}

// MoveFulfillment advances an order through its production states:
// booked -> in_progress -> completed, with cancellation allowed from any
// non-terminal state.
func (s *service) MoveFulfillment(ctx context.Context, orderID, bakerID uuid.UUID, to enums.FulfillmentStatus) (*models.Order, error) {
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid fulfillment status")
	}
	if to == enums.FulfillmentStatusBooked {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders cannot move back to booked")
	}

	order, err := s.loadOwned(ctx, orderID, bakerID)
	if err != nil {
		return nil, err
	}
	if err := validateFulfillmentTransition(order.FulfillmentStatus, to); err != nil {
		return nil, err
	}

	from := order.FulfillmentStatus
	updates := map[string]any{"fulfillment_status": to}
	now := time.Now().UTC()
	switch to {
	case enums.FulfillmentStatusCompleted:
		updates["completed_at"] = now
		order.CompletedAt = &now
	case enums.FulfillmentStatusCancelled:
		updates["cancelled_at"] = now
		order.CancelledAt = &now
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update fulfillment status")
		}
		order.FulfillmentStatus = to
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderFulfillmentMoved,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: OrderFulfillmentMovedEvent{
				OrderID: order.ID,
				QuoteID: order.QuoteID,
				BakerID: order.BakerID,
				From:    from,
				To:      to,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, orderID, bakerID uuid.UUID) (*models.Order, error) {
	return s.loadOwned(ctx, orderID, bakerID)
}

func (s *service) List(ctx context.Context, bakerID uuid.UUID) ([]models.Order, error) {
	orders, err := s.repo.ListByBaker(ctx, bakerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

func (s *service) Calendar(ctx context.Context, bakerID uuid.UUID, window CalendarRange) ([]models.Order, error) {
	if !window.To.After(window.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "calendar range end must be after start")
	}
	orders, err := s.repo.ListCalendar(ctx, bakerID, window.From, window.To)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list calendar orders")
	}
	return orders, nil
}

func (s *service) loadOwned(ctx context.Context, orderID, bakerID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if bakerID != uuid.Nil && order.BakerID != bakerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to baker")
	}
	return order, nil
}

func validateFulfillmentTransition(from, to enums.FulfillmentStatus) error {
	if from == to {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order is already %s", from))
	}
	if from.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order cannot move from %s to %s", from, to))
	}
	if to == enums.FulfillmentStatusCompleted && from != enums.FulfillmentStatusInProgress {
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order cannot move from %s to %s", from, to))
	}
	return nil
}
