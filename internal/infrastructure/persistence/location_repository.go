package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormLocationRepository implements location.Repository using GORM against
// an already schema-scoped *gorm.DB.
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GORM-based location repository.
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction.
func (r *GormLocationRepository) WithTx(tx *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: tx}
}

func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*location.Location, error) {
	var m models.LocationModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormLocationRepository) FindByBarcode(ctx context.Context, barcode string) (*location.Location, error) {
	var m models.LocationModel
	if err := r.db.WithContext(ctx).First(&m, "barcode = ?", barcode).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormLocationRepository) FindByCode(ctx context.Context, code string) (*location.Location, error) {
	var m models.LocationModel
	if err := r.db.WithContext(ctx).First(&m, "code = ?", code).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormLocationRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]*location.Location, error) {
	var rows []models.LocationModel
	if err := r.db.WithContext(ctx).Where("parent_location_id = ?", parentID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLocationSlice(rows), nil
}

// FindAncestorChain walks parent_location_id upward from id, returning the
// chain ordered root-first. It stops on a missing parent or a cycle.
func (r *GormLocationRepository) FindAncestorChain(ctx context.Context, id uuid.UUID) ([]*location.Location, error) {
	var chain []*location.Location
	visited := make(map[uuid.UUID]bool)

	currentID := id
	for {
		if visited[currentID] {
			break
		}
		visited[currentID] = true

		var m models.LocationModel
		if err := r.db.WithContext(ctx).First(&m, "id = ?", currentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				break
			}
			return nil, err
		}
		loc := m.ToDomain()
		chain = append(chain, loc)
		if loc.ParentLocationID == nil {
			break
		}
		currentID = *loc.ParentLocationID
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (r *GormLocationRepository) List(ctx context.Context, filter location.Filter) (shared.Paginated[*location.Location], error) {
	query := r.db.WithContext(ctx).Model(&models.LocationModel{})

	if filter.LocationType != nil {
		query = query.Where("location_type = ?", string(*filter.LocationType))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.ParentID != nil {
		query = query.Where("parent_location_id = ?", *filter.ParentID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ? OR barcode ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*location.Location]{}, err
	}

	page, pageSize := normalizePage(filter.Page), normalizePageSize(filter.PageSize)
	sortField := ValidateSortField(filter.OrderBy, LocationSortFields, "created_at")
	sortDir := ValidateSortOrder(filter.OrderDir)

	var rows []models.LocationModel
	if err := query.
		Order(sortField + " " + sortDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return shared.Paginated[*location.Location]{}, err
	}

	return shared.NewPaginated(toLocationSlice(rows), total, page, pageSize), nil
}

func (r *GormLocationRepository) FindAvailable(ctx context.Context, locationType *location.Type) ([]*location.Location, error) {
	query := r.db.WithContext(ctx).Where("status IN ?", []string{string(location.StatusAvailable), string(location.StatusReserved)})
	if locationType != nil {
		query = query.Where("location_type = ?", string(*locationType))
	}
	var rows []models.LocationModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLocationSlice(rows), nil
}

// Save performs an optimistic-locked upsert: a fresh aggregate (version 1,
// never touched) is inserted, anything else is updated conditioned on the
// version it was loaded at.
func (r *GormLocationRepository) Save(ctx context.Context, loc *location.Location) error {
	m := models.LocationModelFromDomain(loc)
	db := r.db.WithContext(ctx)

	if m.Version <= 1 {
		return db.Create(m).Error
	}

	result := db.Model(&models.LocationModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Select("*").
		Omit("id", "created_at", "tenant_id").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("location was modified concurrently")
	}
	return nil
}

func (r *GormLocationRepository) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LocationModel{}).Where("barcode = ?", barcode).Count(&count).Error
	return count > 0, err
}

func (r *GormLocationRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if code == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LocationModel{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func toLocationSlice(rows []models.LocationModel) []*location.Location {
	out := make([]*location.Location, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ location.Repository = (*GormLocationRepository)(nil)
