package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
)

// EntryInput captures a new price list entry.
type EntryInput struct {
	Category   enums.CatalogCategory
	Key        string
	Label      string
	PriceCents int64
	Position   int
	Active     *bool
}

// EntryUpdate carries partial edits to an entry. Nil fields are untouched.
type EntryUpdate struct {
	Label      *string
	PriceCents *int64
	Position   *int
	Active     *bool
}

// Service manages a baker's price list.
type Service interface {
	Create(ctx context.Context, bakerID uuid.UUID, input EntryInput) (*models.CatalogEntry, error)
	Get(ctx context.Context, entryID, bakerID uuid.UUID) (*models.CatalogEntry, error)
	List(ctx context.Context, bakerID uuid.UUID) ([]models.CatalogEntry, error)
	Update(ctx context.Context, entryID, bakerID uuid.UUID, update EntryUpdate) (*models.CatalogEntry, error)
	Delete(ctx context.Context, entryID, bakerID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, bakerID uuid.UUID, input EntryInput) (*models.CatalogEntry, error) {
	if bakerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "baker id required")
	}
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entry key required")
	}
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entry label required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown catalog category")
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	entry := &models.CatalogEntry{
		BakerID:    bakerID,
		Category:   input.Category,
		Key:        key,
		Label:      label,
		PriceCents: input.PriceCents,
		Position:   input.Position,
		Active:     active,
	}
	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create catalog entry")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, entryID, bakerID uuid.UUID) (*models.CatalogEntry, error) {
	return s.loadOwned(ctx, entryID, bakerID)
}

func (s *service) List(ctx context.Context, bakerID uuid.UUID) ([]models.CatalogEntry, error) {
	if bakerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "baker id required")
	}
	entries, err := s.repo.ListByBaker(ctx, bakerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog entries")
	}
	return entries, nil
}

func (s *service) Update(ctx context.Context, entryID, bakerID uuid.UUID, update EntryUpdate) (*models.CatalogEntry, error) {
	entry, err := s.loadOwned(ctx, entryID, bakerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if update.Label != nil {
		label := strings.TrimSpace(*update.Label)
		if label == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "entry label required")
		}
		updates["label"] = label
	}
	if update.PriceCents != nil {
		if *update.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price_cents"] = *update.PriceCents
	}
	if update.Position != nil {
		updates["position"] = *update.Position
	}
	if update.Active != nil {
		updates["active"] = *update.Active
	}
	if len(updates) == 0 {
		return entry, nil
	}

	if err := s.repo.Update(ctx, entry.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update catalog entry")
	}
	return s.repo.FindByID(ctx, entry.ID)
}

func (s *service) Delete(ctx context.Context, entryID, bakerID uuid.UUID) error {
	entry, err := s.loadOwned(ctx, entryID, bakerID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entry.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete catalog entry")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, entryID, bakerID uuid.UUID) (*models.CatalogEntry, error) {
	if entryID == uuid.Nil || bakerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entry id and baker id required")
	}
	entry, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog entry")
	}
	if entry.BakerID != bakerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "catalog entry belongs to another baker")
	}
	return entry, nil
}
