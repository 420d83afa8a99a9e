package leads

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/internal/catalog"
	"github.com/ovenmade/ovenmade-backend/internal/pricing"
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

// CaptureInput is a public calculator submission.
type CaptureInput struct {
	BakerID       uuid.UUID
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	Payload       json.RawMessage
}

// Estimate is the priced result returned to the public calculator.
type Estimate struct {
	Breakdown pricing.Breakdown `json:"breakdown"`
	Lines     []pricing.Line    `json:"lines"`
}

// LeadCapturedEvent is published when a calculator submission is stored.
type LeadCapturedEvent struct {
	LeadID      uuid.UUID `json:"lead_id"`
	BakerID     uuid.UUID `json:"baker_id"`
	PayloadKind string    `json:"payload_kind"`
	QuotedCents int64     `json:"quoted_cents"`
}

// Service prices and stores public calculator submissions.
type Service interface {
	Capture(ctx context.Context, input CaptureInput) (*models.Lead, error)
	Estimate(ctx context.Context, bakerID uuid.UUID, payload json.RawMessage) (*Estimate, error)
	List(ctx context.Context, bakerID uuid.UUID) ([]models.Lead, error)
}

type service struct {
	repo     Repository
	catalogs catalog.SnapshotLoader
	bakers   bakerSource
	tx       txRunner
	outbox   outboxPublisher
	logg     *logger.Logger
	pricing  *metrics.PricingMetrics
}

// NewService builds a leads service with the required dependencies.
func NewService(
	repo Repository,
	catalogs catalog.SnapshotLoader,
	bakers bakerSource,
	tx txRunner,
	outboxSvc outboxPublisher,
	logg *logger.Logger,
	pricingMetrics *metrics.PricingMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("leads repository required")
	}
	if catalogs == nil {
		return nil, fmt.Errorf("catalog loader required")
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
	return &service{
		repo:     repo,
		catalogs: catalogs,
		bakers:   bakers,
		tx:       tx,
		outbox:   outboxSvc,
		logg:     logg,
		pricing:  pricingMetrics,
	}, nil
}

func (s *service) Capture(ctx context.Context, input CaptureInput) (*models.Lead, error) {
	if input.BakerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "baker id required")
	}
	if input.CustomerName == "" || input.CustomerEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name and email required")
	}

	payload, err := DecodePayload(input.Payload)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.price(ctx, input.BakerID, payload)
	if err != nil {
		return nil, err
	}

	lead := &models.Lead{
		BakerID:       input.BakerID,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		PayloadKind:   payload.Kind,
		Payload:       input.Payload,
		QuotedCents:   breakdown.TotalCents,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, lead); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store lead")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventLeadCaptured,
			AggregateType: enums.AggregateLead,
			AggregateID:   lead.ID,
			Version:       1,
			Data: LeadCapturedEvent{
				LeadID:      lead.ID,
				BakerID:     lead.BakerID,
				PayloadKind: lead.PayloadKind,
				QuotedCents: lead.QuotedCents,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// Estimate prices a submission without storing anything.
func (s *service) Estimate(ctx context.Context, bakerID uuid.UUID, raw json.RawMessage) (*Estimate, error) {
	if bakerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "baker id required")
	}
	payload, err := DecodePayload(raw)
	if err != nil {
		return nil, err
	}

	baker, err := s.loadBaker(ctx, bakerID)
	if err != nil {
		return nil, err
	}
	snap, err := s.catalogs.Load(ctx, bakerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
	}

	build := payload.Build()
	lines, misses := pricing.Itemize(build, snap)
	s.reportMisses(ctx, bakerID, misses)
	s.pricing.IncCalculation(build.Category.String())

	breakdown := pricing.Summarize(lines, baker.TaxRate)
	return &Estimate{Breakdown: breakdown, Lines: lines}, nil
}

func (s *service) List(ctx context.Context, bakerID uuid.UUID) ([]models.Lead, error) {
	leads, err := s.repo.ListByBaker(ctx, bakerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list leads")
	}
	return leads, nil
}

func (s *service) price(ctx context.Context, bakerID uuid.UUID, payload LeadPayload) (pricing.Breakdown, error) {
	baker, err := s.loadBaker(ctx, bakerID)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	snap, err := s.catalogs.Load(ctx, bakerID)
	if err != nil {
		return pricing.Breakdown{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
	}

	build := payload.Build()
	breakdown, misses := pricing.Calculate(build, snap, baker.TaxRate)
	s.reportMisses(ctx, bakerID, misses)
	s.pricing.IncCalculation(build.Category.String())
	return breakdown, nil
}

func (s *service) loadBaker(ctx context.Context, bakerID uuid.UUID) (*models.Baker, error) {
	baker, err := s.bakers.FindByID(ctx, bakerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "baker not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load baker")
	}
	return baker, nil
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
			s.logg.Warn(logCtx, "unresolved catalog selection priced at zero")
		}
	}
}
