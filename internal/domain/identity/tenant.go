package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Tenant is the registry row the Tenant Schema Registry and the background
// sweepers iterate over to find active tenants to operate against.
type Tenant struct {
	ID         uuid.UUID
	Slug       string
	SchemaName string
	IsActive   bool
}

// TenantRepository resolves the set of tenants a cross-tenant background
// process (sweeper, scheduler) should iterate, and bridges a request's
// uuid TenantContext.TenantID to the schema slug the persistence layer
// switches search_path to.
type TenantRepository interface {
	FindActive(ctx context.Context, filter shared.Filter) ([]Tenant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)
	Save(ctx context.Context, t Tenant) error
}
