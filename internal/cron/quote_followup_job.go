package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
	"github.com/ovenmade/ovenmade-backend/pkg/outbox"
)

const defaultFollowUpAfter = 5 * 24 * time.Hour

type staleQuoteSource interface {
	FindSentBefore(ctx context.Context, cutoff time.Time) ([]models.Quote, error)
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type outboxExistenceChecker interface {
	Exists(eventType enums.OutboxEventType, aggregateType enums.OutboxAggregateType, aggregateID uuid.UUID) (bool, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type QuoteFollowUpJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	Quotes        staleQuoteSource
	Outbox        outboxEmitter
	OutboxRepo    outboxExistenceChecker
	FollowUpAfter time.Duration
}

// QuoteFollowUpEvent nudges the external notifier about a quote stuck in
// sent. The notifier owns the actual customer contact.
type QuoteFollowUpEvent struct {
	QuoteID     uuid.UUID `json:"quote_id"`
	BakerID     uuid.UUID `json:"baker_id"`
	QuoteNumber int64     `json:"quote_number"`
	SentAt      time.Time `json:"sent_at"`
}

// NewQuoteFollowUpJob emits a follow-up event for every quote that has been
// sitting in sent past the configured age. Each quote is nudged at most once.
func NewQuoteFollowUpJob(params QuoteFollowUpJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Quotes == nil {
		return nil, fmt.Errorf("quotes source required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if params.OutboxRepo == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	followUpAfter := params.FollowUpAfter
	if followUpAfter <= 0 {
		followUpAfter = defaultFollowUpAfter
	}
	return &quoteFollowUpJob{
		logg:          params.Logger,
		db:            params.DB,
		quotes:        params.Quotes,
		outbox:        params.Outbox,
		outboxRepo:    params.OutboxRepo,
		followUpAfter: followUpAfter,
		now:           time.Now,
	}, nil
}

type quoteFollowUpJob struct {
	logg          *logger.Logger
	db            txRunner
	quotes        staleQuoteSource
	outbox        outboxEmitter
	outboxRepo    outboxExistenceChecker
	followUpAfter time.Duration
	now           func() time.Time
}

func (j *quoteFollowUpJob) Name() string { return "quote-follow-up" }

func (j *quoteFollowUpJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.followUpAfter)
	stale, err := j.quotes.FindSentBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("find stale quotes: %w", err)
	}

	var errs []error
	nudged := 0
	for _, quote := range stale {
		done, err := j.followUp(ctx, quote)
		if err != nil {
			errs = append(errs, fmt.Errorf("quote %s: %w", quote.ID, err))
			continue
		}
		if done {
			nudged++
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff": cutoff,
		"stale":  len(stale),
		"nudged": nudged,
	})
	j.logg.Info(logCtx, "quote follow-up sweep complete")
	return multierr.Combine(errs...)
}

func (j *quoteFollowUpJob) followUp(ctx context.Context, quote models.Quote) (bool, error) {
	exists, err := j.outboxRepo.Exists(enums.EventQuoteFollowUpDue, enums.AggregateQuote, quote.ID)
	if err != nil {
		return false, fmt.Errorf("check follow-up: %w", err)
	}
	if exists {
		return false, nil
	}

	var sentAt time.Time
	if quote.SentAt != nil {
		sentAt = *quote.SentAt
	}
	err = j.db.WithTx(ctx, func(tx *gorm.DB) error {
		return j.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventQuoteFollowUpDue,
			AggregateType: enums.AggregateQuote,
			AggregateID:   quote.ID,
			Version:       1,
			Data: QuoteFollowUpEvent{
				QuoteID:     quote.ID,
				BakerID:     quote.BakerID,
				QuoteNumber: quote.QuoteNumber,
				SentAt:      sentAt,
			},
		})
	})
	if err != nil {
		return false, fmt.Errorf("emit follow-up: %w", err)
	}
	return true, nil
}
