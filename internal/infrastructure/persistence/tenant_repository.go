package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormTenantRepository implements identity.TenantRepository against the
// public-schema tenant registry table. Unlike the other repositories it is
// never schema-switched: the registry itself is what tells the rest of the
// system which schemas exist.
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GORM-based tenant registry
// repository bound to the public-schema connection.
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

func (r *GormTenantRepository) FindActive(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	var rows []models.TenantModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]identity.Tenant, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var m models.TenantModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	t := m.ToDomain()
	return &t, nil
}

func (r *GormTenantRepository) FindBySlug(ctx context.Context, slug string) (*identity.Tenant, error) {
	var m models.TenantModel
	if err := r.db.WithContext(ctx).First(&m, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	t := m.ToDomain()
	return &t, nil
}

// Save inserts or updates a tenant registry row. Used by the schema
// registry when onboarding a new tenant.
func (r *GormTenantRepository) Save(ctx context.Context, t identity.Tenant) error {
	m := models.TenantModelFromDomain(t)
	return r.db.WithContext(ctx).Save(m).Error
}

var _ identity.TenantRepository = (*GormTenantRepository)(nil)
