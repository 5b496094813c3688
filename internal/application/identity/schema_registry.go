package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/migration"
	"github.com/wms/backend/internal/infrastructure/persistence/tenant"
)

// SchemaRegistry onboards a new tenant: it creates the tenant's dedicated
// Postgres schema, runs the tenant-scoped migration set against it, and
// records the tenant in the public registry table so the rest of the
// system (request middleware, background sweepers) can discover it.
type SchemaRegistry struct {
	db             *gorm.DB
	tenants        identity.TenantRepository
	migrationsPath string
	logger         *zap.Logger
}

// NewSchemaRegistry creates a new SchemaRegistry. migrationsPath must point
// at the directory of tenant-scoped migrations (locations, stock_items,
// stock_movements, restock_requests, stock_level_thresholds, outbox_events),
// not the public-schema bootstrap migrations applied once at startup.
func NewSchemaRegistry(db *gorm.DB, tenants identity.TenantRepository, migrationsPath string, logger *zap.Logger) *SchemaRegistry {
	return &SchemaRegistry{
		db:             db,
		tenants:        tenants,
		migrationsPath: migrationsPath,
		logger:         logger,
	}
}

// Provision creates a new tenant: validates the slug, creates the schema,
// migrates it, and marks the registry row active. The row is written
// inactive before the schema exists so a crash mid-provisioning leaves a
// tenant that is visible but not yet usable, rather than invisible.
func (r *SchemaRegistry) Provision(ctx context.Context, slug string) (*identity.Tenant, error) {
	schemaName, err := tenant.SchemaName(slug)
	if err != nil || slug == "" {
		return nil, shared.NewValidationError("invalid tenant slug: " + slug)
	}

	existing, err := r.tenants.FindBySlug(ctx, slug)
	if err != nil {
		return nil, shared.NewExternalError("failed to check for existing tenant", err)
	}
	if existing != nil {
		return nil, shared.NewConflictError(fmt.Sprintf("tenant %q already exists", slug))
	}

	t := identity.Tenant{
		ID:         uuid.New(),
		Slug:       slug,
		SchemaName: schemaName,
		IsActive:   false,
	}
	if err := r.tenants.Save(ctx, t); err != nil {
		return nil, shared.NewExternalError("failed to register tenant", err)
	}

	if err := r.createSchema(ctx, schemaName); err != nil {
		return nil, shared.NewExternalError("failed to create tenant schema", err)
	}

	if err := r.migrateSchema(schemaName); err != nil {
		return nil, shared.NewExternalError("failed to migrate tenant schema", err)
	}

	t.IsActive = true
	if err := r.tenants.Save(ctx, t); err != nil {
		return nil, shared.NewExternalError("failed to activate tenant", err)
	}

	r.logger.Info("tenant provisioned",
		zap.String("slug", slug),
		zap.String("schema", schemaName),
	)

	return &t, nil
}

// Deactivate flips a tenant's registry row inactive without dropping its
// schema, so the schema and its data remain recoverable.
func (r *SchemaRegistry) Deactivate(ctx context.Context, slug string) error {
	t, err := r.tenants.FindBySlug(ctx, slug)
	if err != nil {
		return shared.NewExternalError("failed to look up tenant", err)
	}
	if t == nil {
		return shared.NewNotFoundError(fmt.Sprintf("tenant %q not found", slug))
	}
	t.IsActive = false
	if err := r.tenants.Save(ctx, *t); err != nil {
		return shared.NewExternalError("failed to deactivate tenant", err)
	}
	return nil
}

func (r *SchemaRegistry) createSchema(ctx context.Context, schemaName string) error {
	if err := tenant.ValidateSchemaName(schemaName); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, schemaName)).Error
}

func (r *SchemaRegistry) migrateSchema(schemaName string) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}

	m, err := migration.NewForSchema(sqlDB, r.migrationsPath, schemaName, r.logger)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Up()
}
