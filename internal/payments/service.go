package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/internal/quotes"
	"github.com/ovenmade/ovenmade-backend/pkg/db"
	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
	"github.com/ovenmade/ovenmade-backend/pkg/metrics"
	"github.com/ovenmade/ovenmade-backend/pkg/outbox"
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

// Service is the sole mutator of amount_paid_cents and payment_status in
// response to processor notifications.
type Service interface {
	RecordNotification(ctx context.Context, input NotificationInput) (*RecordResult, error)
	RequestPayment(ctx context.Context, input RequestInput) (*PaymentRequest, error)
	RequiredDeposit(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) (int64, error)
	ListByQuote(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) ([]models.Payment, error)
}

type service struct {
	repo           Repository
	quotes         quotes.Repository
	bakers         bakerSource
	tx             txRunner
	outbox         outboxPublisher
	logg           *logger.Logger
	metrics        *metrics.PaymentMetrics
	toleranceCents int64
}

// NewService builds a payments service with the required dependencies.
func NewService(
	repo Repository,
	quotesRepo quotes.Repository,
	bakers bakerSource,
	tx txRunner,
	outboxSvc outboxPublisher,
	logg *logger.Logger,
	paymentMetrics *metrics.PaymentMetrics,
	toleranceCents int64,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if quotesRepo == nil {
		return nil, fmt.Errorf("quotes repository required")
	}
	if bakers == nil {
		return nil, fmt.Errorf("baker source required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if toleranceCents < 0 {
		return nil, fmt.Errorf("tolerance cannot be negative")
	}
	return &service{
		repo:           repo,
		quotes:         quotesRepo,
		bakers:         bakers,
		tx:             tx,
		outbox:         outboxSvc,
		logg:           logg,
		metrics:        paymentMetrics,
		toleranceCents: toleranceCents,
	}, nil
}

func (s *service) RecordNotification(ctx context.Context, input NotificationInput) (*RecordResult, error) {
	if input.ExternalID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "external payment id required")
	}
	if input.QuoteID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id required")
	}
	if input.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment type")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	var result RecordResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		quotesRepo := s.quotes.WithTx(tx)

		if existing, err := repo.FindByExternalID(ctx, input.ExternalID); err == nil {
			return s.absorbDuplicate(ctx, &result, existing)
		} else if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up payment")
		}

		quote, err := quotesRepo.FindByID(ctx, input.QuoteID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
		}

		payment := &models.Payment{
			QuoteID:          quote.ID,
			ExternalID:       input.ExternalID,
			Type:             input.Type,
			Status:           input.Status,
			AmountCents:      input.AmountCents,
			PlatformFeeCents: input.PlatformFeeCents,
		}
		if _, err := repo.Create(ctx, payment); err != nil {
			// Two instances can race past the lookup; the unique index on
			// external_id settles it.
			if db.IsUniqueViolation(err, "ux_payments_external_id") {
				existing, findErr := repo.FindByExternalID(ctx, input.ExternalID)
				if findErr != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "reload replayed payment")
				}
				return s.absorbDuplicate(ctx, &result, existing)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
		}
		result.Payment = payment
		result.Quote = quote

		switch input.Status {
		case enums.PaymentRecordStatusSucceeded:
			return s.reconcile(ctx, tx, repo, quotesRepo, quote, payment, &result)
		case enums.PaymentRecordStatusFailed:
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventPaymentFailed,
				AggregateType: enums.AggregatePayment,
				AggregateID:   payment.ID,
				Version:       1,
				Data: PaymentFailedEvent{
					PaymentID:   payment.ID,
					QuoteID:     quote.ID,
					BakerID:     quote.BakerID,
					AmountCents: payment.AmountCents,
				},
			})
		default:
			// pending notifications are recorded and nothing else
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// absorbDuplicate handles a replayed external id: log it, count it, and
// surface the original record without error.
func (s *service) absorbDuplicate(ctx context.Context, result *RecordResult, existing *models.Payment) error {
	result.Payment = existing
	result.Duplicate = true
	s.metrics.IncDuplicate()
	if s.logg != nil {
		logCtx := s.logg.WithPaymentID(ctx, existing.ExternalID)
		s.logg.Warn(logCtx, "duplicate payment notification absorbed")
	}
	return nil
}

// reconcile applies a succeeded payment. Failed and pending notifications
// never reach this path.
func (s *service) reconcile(
	ctx context.Context,
	tx *gorm.DB,
	repo Repository,
	quotesRepo quotes.Repository,
	quote *models.Quote,
	payment *models.Payment,
	result *RecordResult,
) error {
	applied, err := repo.ApplySucceededAmount(ctx, quote.ID, payment.AmountCents, s.toleranceCents)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply payment amount")
	}
	if !applied {
		s.metrics.IncRejected("overpayment")
		if s.logg != nil {
			logCtx := s.logg.WithPaymentID(ctx, payment.ExternalID)
			s.logg.Warn(logCtx, "payment notification refused: exceeds outstanding balance")
		}
		return pkgerrors.New(pkgerrors.CodeConflict, "payment exceeds outstanding balance")
	}

	updated, err := quotesRepo.FindByID(ctx, quote.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload quote")
	}

	baker, err := s.bakers.FindByID(ctx, updated.BakerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load baker")
	}

	deposit := RequiredDepositCents(updated.TotalCents, baker)
	status := paymentStatusFor(updated.AmountPaidCents, updated.TotalCents, deposit, s.toleranceCents, updated.PaymentStatus)
	if status != updated.PaymentStatus {
		if err := quotesRepo.Update(ctx, updated.ID, map[string]any{"payment_status": status}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
		}
		updated.PaymentStatus = status
	}
	result.Quote = updated

	s.metrics.IncApplied(payment.Type.String())

	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventPaymentRecorded,
		AggregateType: enums.AggregatePayment,
		AggregateID:   payment.ID,
		Version:       1,
		Data: PaymentRecordedEvent{
			PaymentID:       payment.ID,
			QuoteID:         updated.ID,
			BakerID:         updated.BakerID,
			Type:            payment.Type,
			AmountCents:     payment.AmountCents,
			AmountPaidCents: updated.AmountPaidCents,
			PaymentStatus:   updated.PaymentStatus,
		},
	})
}

// RequestPayment computes the next server-side payment ask for a quote.
func (s *service) RequestPayment(ctx context.Context, input RequestInput) (*PaymentRequest, error) {
	if input.QuoteID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote id required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment type")
	}

	quote, err := s.loadOwnedQuote(ctx, input.QuoteID, input.BakerID)
	if err != nil {
		return nil, err
	}

	outstanding := quote.OutstandingCents()
	if outstanding <= s.toleranceCents {
		return nil, pkgerrors.New(pkgerrors.CodeAlreadyPaid, "quote is already fully paid")
	}

	var amount int64
	switch input.Type {
	case enums.PaymentTypeDeposit:
		baker, err := s.bakers.FindByID(ctx, quote.BakerID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load baker")
		}
		deposit := RequiredDepositCents(quote.TotalCents, baker)
		if deposit <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "baker has no deposit configured")
		}
		amount = deposit
	default:
		// full and remaining both resolve to the outstanding balance
		amount = outstanding
	}

	if amount > outstanding {
		amount = outstanding
	}

	return &PaymentRequest{
		QuoteID:          quote.ID,
		Type:             input.Type,
		AmountCents:      amount,
		OutstandingCents: outstanding,
	}, nil
}

// RequiredDeposit exposes the derived deposit amount for a quote.
func (s *service) RequiredDeposit(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) (int64, error) {
	quote, err := s.loadOwnedQuote(ctx, quoteID, bakerID)
	if err != nil {
		return 0, err
	}
	baker, err := s.bakers.FindByID(ctx, quote.BakerID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load baker")
	}
	return RequiredDepositCents(quote.TotalCents, baker), nil
}

func (s *service) ListByQuote(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) ([]models.Payment, error) {
	if _, err := s.loadOwnedQuote(ctx, quoteID, bakerID); err != nil {
		return nil, err
	}
	payments, err := s.repo.ListByQuote(ctx, quoteID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return payments, nil
}

func (s *service) loadOwnedQuote(ctx context.Context, quoteID uuid.UUID, bakerID uuid.UUID) (*models.Quote, error) {
	quote, err := s.quotes.FindByID(ctx, quoteID)
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
