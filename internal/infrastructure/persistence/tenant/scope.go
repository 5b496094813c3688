// Package tenant provides multi-tenant database isolation for GORM.
//
// Isolation is schema-per-tenant: every tenant's tables live in their own
// Postgres schema named "tenant_<slug>_schema", and cross-tenant queries are
// prevented by switching the connection's search_path before any statement
// runs, rather than by appending a tenant_id predicate to every query. The
// shared, tenant-less catalog (tenant registry, migrations bookkeeping) lives
// in the literal "public" schema.
//
// Usage:
//
//	db := tenant.NewTenantDB(gormDB)
//	scopedDB := db.WithContext(ctx) // search_path is switched to the caller's schema
//	scopedDB.Find(&locations)       // runs against tenant_acme_schema.locations
package tenant

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/wms/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when a tenant schema is required but not found in context.
var ErrTenantIDRequired = errors.New("tenant schema is required but not found in context")

// ErrInvalidTenantID is returned when the tenant identifier does not resolve to a valid schema name.
var ErrInvalidTenantID = errors.New("invalid tenant schema name")

// PublicSchema is the shared schema used for tenant-registry and cross-tenant bookkeeping tables.
const PublicSchema = "public"

// schemaPattern matches the schema-per-tenant naming convention. A slug may
// contain letters, digits and underscores; the surrounding tenant_/_schema
// markers keep generated schema names unambiguous from application tables.
var schemaPattern = regexp.MustCompile(`^tenant_[A-Za-z0-9_]+_schema$`)

// SchemaName derives the Postgres schema for a tenant slug, e.g. "acme" -> "tenant_acme_schema".
// An empty slug resolves to PublicSchema.
func SchemaName(slug string) (string, error) {
	if slug == "" {
		return PublicSchema, nil
	}
	if !slugPattern.MatchString(slug) {
		return "", ErrInvalidTenantID
	}
	return fmt.Sprintf("tenant_%s_schema", slug), nil
}

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateSchemaName checks that a fully qualified schema name matches the
// tenant_<slug>_schema convention, or is the literal public schema.
func ValidateSchemaName(schema string) error {
	if schema == PublicSchema {
		return nil
	}
	if !schemaPattern.MatchString(schema) {
		return ErrInvalidTenantID
	}
	return nil
}

// searchPathScope returns a GORM scope that switches the session's search_path
// to the given schema (falling back to public for unqualified lookups such as
// shared reference tables) for the lifetime of the returned *gorm.DB.
func searchPathScope(schema string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		session := db.Session(&gorm.Session{NewDB: true, Context: db.Statement.Context})
		if err := session.Exec(fmt.Sprintf(`SET search_path TO "%s", public`, schema)).Error; err != nil {
			_ = db.AddError(err)
			return db
		}
		session = session.Set(schemaAppliedKey, schema)
		return session
	}
}

// schemaAppliedKey marks, via (*gorm.DB).Set, that a search_path switch has
// already run on this session so the safety-net callback in callback.go can
// tell a properly scoped query apart from one that bypassed TenantDB.
const schemaAppliedKey = "tenant:schema_applied"

// TenantDB wraps a GORM DB with automatic per-tenant schema switching.
type TenantDB struct {
	db       *gorm.DB
	required bool
}

// Config holds configuration for TenantDB.
type Config struct {
	// Required determines if a tenant schema is mandatory (default: true).
	Required bool
}

// DefaultConfig returns the default TenantDB configuration.
func DefaultConfig() Config {
	return Config{Required: true}
}

// NewTenantDB creates a new TenantDB with default configuration.
func NewTenantDB(db *gorm.DB) *TenantDB {
	return NewTenantDBWithConfig(db, DefaultConfig())
}

// NewTenantDBWithConfig creates a new TenantDB with custom configuration.
func NewTenantDBWithConfig(db *gorm.DB, cfg Config) *TenantDB {
	return &TenantDB{db: db, required: cfg.Required}
}

// DB returns the underlying GORM DB without any schema switch applied.
// Use with caution - this bypasses tenant isolation.
func (t *TenantDB) DB() *gorm.DB {
	return t.db
}

// WithContext returns a GORM DB whose search_path has been switched to the
// tenant schema carried in ctx (set by the tenant middleware).
//
// If no tenant is present in context and Required is true, it returns a DB
// that will error on execution.
func (t *TenantDB) WithContext(ctx context.Context) *gorm.DB {
	tenantID := logger.GetTenantID(ctx)

	if tenantID == "" {
		if t.required {
			db := t.db.WithContext(ctx)
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return t.db.WithContext(ctx)
	}

	schema, err := SchemaName(tenantID)
	if err != nil {
		db := t.db.WithContext(ctx)
		_ = db.AddError(ErrInvalidTenantID)
		return db
	}

	return t.db.WithContext(ctx).Scopes(searchPathScope(schema))
}

// WithSchema returns a GORM DB scoped to a specific, already-validated schema name.
// Use this when you have the schema directly rather than deriving it from context.
func (t *TenantDB) WithSchema(ctx context.Context, schema string) *gorm.DB {
	if err := ValidateSchemaName(schema); err != nil {
		db := t.db.WithContext(ctx)
		_ = db.AddError(ErrInvalidTenantID)
		return db
	}
	return t.db.WithContext(ctx).Scopes(searchPathScope(schema))
}

// Transaction executes fn within a database transaction whose search_path has
// been switched to the tenant schema carried in ctx.
func (t *TenantDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tenantID := logger.GetTenantID(ctx)

	var schema string
	if tenantID != "" {
		s, err := SchemaName(tenantID)
		if err != nil {
			return ErrInvalidTenantID
		}
		schema = s
	} else if t.required {
		return ErrTenantIDRequired
	}

	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if schema != "" {
			if err := tx.Exec(fmt.Sprintf(`SET search_path TO "%s", public`, schema)).Error; err != nil {
				return err
			}
		}
		return fn(tx)
	})
}

// Unscoped returns the underlying DB without any schema switching.
// WARNING: use this only for system-level operations across the public catalog.
func (t *TenantDB) Unscoped() *gorm.DB {
	return t.db
}

// SetRequired returns a copy of TenantDB with a different Required setting.
func (t *TenantDB) SetRequired(required bool) *TenantDB {
	return &TenantDB{db: t.db, required: required}
}
