package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/stockitem"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormStockItemRepository implements stockitem.Repository using GORM
// against an already schema-scoped *gorm.DB.
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GORM-based stock item repository.
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction.
func (r *GormStockItemRepository) WithTx(tx *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: tx}
}

func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*stockitem.StockItem, error) {
	var m models.StockItemModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return m.ToDomain(time.Now()), nil
}

func (r *GormStockItemRepository) List(ctx context.Context, filter stockitem.Filter) (shared.Paginated[*stockitem.StockItem], error) {
	query := r.db.WithContext(ctx).Model(&models.StockItemModel{})

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.Classification != nil {
		query = query.Where("classification = ?", string(*filter.Classification))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*stockitem.StockItem]{}, err
	}

	page, pageSize := normalizePage(filter.Page), normalizePageSize(filter.PageSize)
	sortField := ValidateSortField(filter.OrderBy, StockItemSortFields, "created_at")
	sortDir := ValidateSortOrder(filter.OrderDir)

	var rows []models.StockItemModel
	if err := query.
		Order(sortField + " " + sortDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return shared.Paginated[*stockitem.StockItem]{}, err
	}

	return shared.NewPaginated(toStockItemSlice(rows), total, page, pageSize), nil
}

func (r *GormStockItemRepository) FindByClassification(ctx context.Context, classification stockitem.Classification) ([]*stockitem.StockItem, error) {
	var rows []models.StockItemModel
	if err := r.db.WithContext(ctx).Where("classification = ?", string(classification)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toStockItemSlice(rows), nil
}

func (r *GormStockItemRepository) FindUnassigned(ctx context.Context, productID uuid.UUID) ([]*stockitem.StockItem, error) {
	var rows []models.StockItemModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND location_id IS NULL", productID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toStockItemSlice(rows), nil
}

func (r *GormStockItemRepository) FindExpiring(ctx context.Context, before time.Time, classification *stockitem.Classification) ([]*stockitem.StockItem, error) {
	query := r.db.WithContext(ctx).Where("expiration_date IS NOT NULL AND expiration_date <= ?", before)
	if classification != nil {
		query = query.Where("classification = ?", string(*classification))
	}
	var rows []models.StockItemModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toStockItemSlice(rows), nil
}

func (r *GormStockItemRepository) FindByProductAndLocation(ctx context.Context, productID uuid.UUID, locationID *uuid.UUID) ([]*stockitem.StockItem, error) {
	query := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if locationID != nil {
		query = query.Where("location_id = ?", *locationID)
	} else {
		query = query.Where("location_id IS NULL")
	}
	var rows []models.StockItemModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toStockItemSlice(rows), nil
}

// FindDueForReclassification returns every item with an expiration date on
// or before referenceTime plus 365 days: anything already expired and
// anything inside the CRITICAL (7 days), NEAR_EXPIRY (30 days) or
// EXTENDED_SHELF_LIFE (365 days) boundaries. The comparisons against the
// nearer boundaries are subsumed by the 365-day one, so the result is not
// narrowed to items that crossed a boundary since the last sweep.
func (r *GormStockItemRepository) FindDueForReclassification(ctx context.Context, referenceTime time.Time) ([]*stockitem.StockItem, error) {
	var rows []models.StockItemModel
	err := r.db.WithContext(ctx).
		Where(`expiration_date IS NOT NULL AND (
			expiration_date <= ? OR
			expiration_date <= ? OR
			expiration_date <= ? OR
			expiration_date <= ?
		)`,
			referenceTime,
			referenceTime.AddDate(0, 0, 7),
			referenceTime.AddDate(0, 0, 30),
			referenceTime.AddDate(0, 0, 365),
		).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toStockItemSlice(rows), nil
}

// Save performs an optimistic-locked upsert identical in shape to the other
// aggregate repositories.
func (r *GormStockItemRepository) Save(ctx context.Context, item *stockitem.StockItem) error {
	m := models.StockItemModelFromDomain(item)
	db := r.db.WithContext(ctx)

	if m.Version <= 1 {
		return db.Create(m).Error
	}

	result := db.Model(&models.StockItemModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Select("*").
		Omit("id", "created_at", "tenant_id").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("stock item was modified concurrently")
	}
	return nil
}

func toStockItemSlice(rows []models.StockItemModel) []*stockitem.StockItem {
	now := time.Now()
	out := make([]*stockitem.StockItem, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain(now)
	}
	return out
}

var _ stockitem.Repository = (*GormStockItemRepository)(nil)
