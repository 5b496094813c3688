package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/restock"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormRestockRepository implements restock.Repository using GORM against
// an already schema-scoped *gorm.DB.
type GormRestockRepository struct {
	db *gorm.DB
}

// NewGormRestockRepository creates a new GORM-based restock repository.
func NewGormRestockRepository(db *gorm.DB) *GormRestockRepository {
	return &GormRestockRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction.
func (r *GormRestockRepository) WithTx(tx *gorm.DB) *GormRestockRepository {
	return &GormRestockRepository{db: tx}
}

func (r *GormRestockRepository) FindByID(ctx context.Context, id uuid.UUID) (*restock.RestockRequest, error) {
	var m models.RestockRequestModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormRestockRepository) List(ctx context.Context, filter restock.Filter) (shared.Paginated[*restock.RestockRequest], error) {
	query := r.db.WithContext(ctx).Model(&models.RestockRequestModel{})

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", string(*filter.Priority))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*restock.RestockRequest]{}, err
	}

	page, pageSize := normalizePage(filter.Page), normalizePageSize(filter.PageSize)
	sortField := ValidateSortField(filter.OrderBy, RestockRequestSortFields, "created_at")
	sortDir := ValidateSortOrder(filter.OrderDir)

	var rows []models.RestockRequestModel
	if err := query.
		Order(sortField + " " + sortDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return shared.Paginated[*restock.RestockRequest]{}, err
	}

	return shared.NewPaginated(toRestockSlice(rows), total, page, pageSize), nil
}

// FindActiveFor returns the PENDING or SENT_TO_D365 request for a
// (productId, locationId) pair, enforcing the at-most-one-active-request
// invariant a higher layer relies on before creating a new request.
func (r *GormRestockRepository) FindActiveFor(ctx context.Context, productID uuid.UUID, locationID *uuid.UUID) (*restock.RestockRequest, error) {
	query := r.db.WithContext(ctx).
		Where("product_id = ? AND status IN ?", productID, []string{string(restock.StatusPending), string(restock.StatusSentToD365)})
	if locationID != nil {
		query = query.Where("location_id = ?", *locationID)
	} else {
		query = query.Where("location_id IS NULL")
	}

	var m models.RestockRequestModel
	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Save performs an optimistic-locked upsert identical in shape to the other
// aggregate repositories.
func (r *GormRestockRepository) Save(ctx context.Context, req *restock.RestockRequest) error {
	m := models.RestockRequestModelFromDomain(req)
	db := r.db.WithContext(ctx)

	if m.Version <= 1 {
		return db.Create(m).Error
	}

	result := db.Model(&models.RestockRequestModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Select("*").
		Omit("id", "created_at", "tenant_id").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("restock request was modified concurrently")
	}
	return nil
}

func toRestockSlice(rows []models.RestockRequestModel) []*restock.RestockRequest {
	out := make([]*restock.RestockRequest, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ restock.Repository = (*GormRestockRepository)(nil)
