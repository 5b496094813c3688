package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/movement"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormMovementRepository implements movement.Repository using GORM against
// an already schema-scoped *gorm.DB.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GORM-based movement repository.
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction.
func (r *GormMovementRepository) WithTx(tx *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: tx}
}

func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*movement.StockMovement, error) {
	var m models.StockMovementModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormMovementRepository) List(ctx context.Context, filter movement.Filter) (shared.Paginated[*movement.StockMovement], error) {
	query := r.db.WithContext(ctx).Model(&models.StockMovementModel{})

	if filter.StockItemID != nil {
		query = query.Where("stock_item_id = ?", *filter.StockItemID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.LocationID != nil {
		query = query.Where("source_location_id = ? OR destination_location_id = ?", *filter.LocationID, *filter.LocationID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*movement.StockMovement]{}, err
	}

	page, pageSize := normalizePage(filter.Page), normalizePageSize(filter.PageSize)
	sortField := ValidateSortField(filter.OrderBy, StockMovementSortFields, "created_at")
	sortDir := ValidateSortOrder(filter.OrderDir)

	var rows []models.StockMovementModel
	if err := query.
		Order(sortField + " " + sortDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return shared.Paginated[*movement.StockMovement]{}, err
	}

	return shared.NewPaginated(toMovementSlice(rows), total, page, pageSize), nil
}

func (r *GormMovementRepository) FindPendingByStockItem(ctx context.Context, stockItemID uuid.UUID) ([]*movement.StockMovement, error) {
	var rows []models.StockMovementModel
	if err := r.db.WithContext(ctx).
		Where("stock_item_id = ? AND status = ?", stockItemID, string(movement.StatusInitiated)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toMovementSlice(rows), nil
}

// Save performs an optimistic-locked upsert identical in shape to the other
// aggregate repositories.
func (r *GormMovementRepository) Save(ctx context.Context, mv *movement.StockMovement) error {
	m := models.StockMovementModelFromDomain(mv)
	db := r.db.WithContext(ctx)

	if m.Version <= 1 {
		return db.Create(m).Error
	}

	result := db.Model(&models.StockMovementModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Select("*").
		Omit("id", "created_at", "tenant_id").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("stock movement was modified concurrently")
	}
	return nil
}

func toMovementSlice(rows []models.StockMovementModel) []*movement.StockMovement {
	out := make([]*movement.StockMovement, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ movement.Repository = (*GormMovementRepository)(nil)
