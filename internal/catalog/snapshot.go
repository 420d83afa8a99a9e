package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
)

// Snapshot is an immutable view of a baker's active price list, keyed by
// category and selection key. Pricing reads one snapshot per calculation so
// concurrent catalog edits never produce a half-old, half-new price.
type Snapshot struct {
	prices map[snapshotKey]int64
	labels map[snapshotKey]string
}

type snapshotKey struct {
	category enums.CatalogCategory
	key      string
}

// NewSnapshot indexes the given entries. Inactive entries are skipped.
func NewSnapshot(entries []models.CatalogEntry) Snapshot {
	s := Snapshot{
		prices: make(map[snapshotKey]int64, len(entries)),
		labels: make(map[snapshotKey]string, len(entries)),
	}
	for _, entry := range entries {
		if !entry.Active {
			continue
		}
		k := snapshotKey{category: entry.Category, key: entry.Key}
		s.prices[k] = entry.PriceCents
		s.labels[k] = entry.Label
	}
	return s
}

// Price resolves a selection key to its price in cents. The second return
// reports whether the key resolved; unresolved keys price at zero.
func (s Snapshot) Price(category enums.CatalogCategory, key string) (int64, bool) {
	cents, ok := s.prices[snapshotKey{category: category, key: key}]
	return cents, ok
}

// Label returns the display label for a selection key, or the key itself
// when the catalog has no entry for it.
func (s Snapshot) Label(category enums.CatalogCategory, key string) string {
	if label, ok := s.labels[snapshotKey{category: category, key: key}]; ok {
		return label
	}
	return key
}

// Len reports the number of indexed entries.
func (s Snapshot) Len() int {
	return len(s.prices)
}

// SnapshotLoader loads a baker's current active price list as a Snapshot.
type SnapshotLoader interface {
	Load(ctx context.Context, bakerID uuid.UUID) (Snapshot, error)
}

type snapshotLoader struct {
	repo Repository
}

// NewSnapshotLoader builds a loader backed by the catalog repository.
func NewSnapshotLoader(repo Repository) SnapshotLoader {
	return &snapshotLoader{repo: repo}
}

func (l *snapshotLoader) Load(ctx context.Context, bakerID uuid.UUID) (Snapshot, error) {
	entries, err := l.repo.ListActiveByBaker(ctx, bakerID)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(entries), nil
}
