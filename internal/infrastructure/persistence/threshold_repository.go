package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/threshold"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormThresholdRepository implements threshold.Repository using GORM
// against an already schema-scoped *gorm.DB.
type GormThresholdRepository struct {
	db *gorm.DB
}

// NewGormThresholdRepository creates a new GORM-based threshold repository.
func NewGormThresholdRepository(db *gorm.DB) *GormThresholdRepository {
	return &GormThresholdRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction.
func (r *GormThresholdRepository) WithTx(tx *gorm.DB) *GormThresholdRepository {
	return &GormThresholdRepository{db: tx}
}

func (r *GormThresholdRepository) FindByID(ctx context.Context, id uuid.UUID) (*threshold.StockLevelThreshold, error) {
	var m models.StockLevelThresholdModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormThresholdRepository) List(ctx context.Context, filter threshold.Filter) (shared.Paginated[*threshold.StockLevelThreshold], error) {
	query := r.db.WithContext(ctx).Model(&models.StockLevelThresholdModel{})

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*threshold.StockLevelThreshold]{}, err
	}

	page, pageSize := normalizePage(filter.Page), normalizePageSize(filter.PageSize)
	sortField := ValidateSortField(filter.OrderBy, ThresholdSortFields, "created_at")
	sortDir := ValidateSortOrder(filter.OrderDir)

	var rows []models.StockLevelThresholdModel
	if err := query.
		Order(sortField + " " + sortDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return shared.Paginated[*threshold.StockLevelThreshold]{}, err
	}

	return shared.NewPaginated(toThresholdSlice(rows), total, page, pageSize), nil
}

func (r *GormThresholdRepository) FindForProduct(ctx context.Context, productID uuid.UUID) ([]*threshold.StockLevelThreshold, error) {
	var rows []models.StockLevelThresholdModel
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toThresholdSlice(rows), nil
}

func (r *GormThresholdRepository) FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*threshold.StockLevelThreshold, error) {
	var m models.StockLevelThresholdModel
	if err := r.db.WithContext(ctx).First(&m, "product_id = ? AND location_id = ?", productID, locationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Save performs an optimistic-locked upsert identical in shape to the other
// aggregate repositories.
func (r *GormThresholdRepository) Save(ctx context.Context, t *threshold.StockLevelThreshold) error {
	m := models.StockLevelThresholdModelFromDomain(t)
	db := r.db.WithContext(ctx)

	if m.Version <= 1 {
		return db.Create(m).Error
	}

	result := db.Model(&models.StockLevelThresholdModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Select("*").
		Omit("id", "created_at", "tenant_id").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("threshold was modified concurrently")
	}
	return nil
}

func toThresholdSlice(rows []models.StockLevelThresholdModel) []*threshold.StockLevelThreshold {
	out := make([]*threshold.StockLevelThreshold, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ threshold.Repository = (*GormThresholdRepository)(nil)
