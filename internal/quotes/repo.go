package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ovenmade/ovenmade-backend/pkg/db/models"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	"github.com/ovenmade/ovenmade-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a quotes repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if err := r.db.WithContext(ctx).Create(quote).Error; err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *repository) FindByBakerAndNumber(ctx context.Context, bakerID uuid.UUID, number int64) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("baker_id = ? AND quote_number = ?", bakerID, number).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *repository) List(ctx context.Context, bakerID uuid.UUID, params pagination.Params, filters ListFilters) (*QuoteList, error) {
	limit := pagination.LimitWithBuffer(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("baker_id = ?", bakerID)

	if !filters.IncludeArchived {
		query = query.Where("archived_at IS NULL")
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filters.PaymentStatus)
	}
	if filters.Query != "" {
		query = query.Where("title LIKE ?", "%"+filters.Query+"%")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Quote
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &QuoteList{Quotes: rows}
	if len(rows) == limit {
		last := rows[limit-2]
		list.Quotes = rows[:limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ReplaceItems swaps the full item set for a draft quote. Item edits always
// arrive as a complete list; partial patches are the caller's concern.
func (r *repository) ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []models.QuoteItem) error {
	if err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Delete(&models.QuoteItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].QuoteID = quoteID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// NextQuoteNumber atomically increments and returns the baker's quote
// counter. The upsert serializes concurrent callers on the counter row, so
// two simultaneous sends can never share a number.
func (r *repository) NextQuoteNumber(ctx context.Context, bakerID uuid.UUID) (int64, error) {
	counter := models.QuoteCounter{BakerID: bakerID, LastNumber: 1}
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "baker_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"last_number": gorm.Expr("last_number + 1"),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "last_number"}}},
		).
		Create(&counter).Error
	if err != nil {
		return 0, err
	}
	return counter.LastNumber, nil
}

func (r *repository) FindSentBefore(ctx context.Context, cutoff time.Time) ([]models.Quote, error) {
	var rows []models.Quote
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.QuoteStatusSent).
		Where("sent_at IS NOT NULL AND sent_at < ?", cutoff).
		Where("archived_at IS NULL").
		Order("sent_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
