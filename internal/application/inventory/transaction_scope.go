// Package inventory is the application layer for the warehouse core: it
// orchestrates the Location, StockItem, StockMovement, RestockRequest and
// StockLevelThreshold aggregates behind a tenant-scoped transaction, the
// way the outbox and identity packages already orchestrate their own
// aggregates behind a *gorm.DB.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/movement"
	"github.com/wms/backend/internal/domain/restock"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/stockitem"
	"github.com/wms/backend/internal/domain/tenantctx"
	"github.com/wms/backend/internal/domain/threshold"
	"github.com/wms/backend/internal/infrastructure/cache"
	"github.com/wms/backend/internal/infrastructure/event"
	wmslogger "github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/infrastructure/persistence/tenant"
)

// Repositories bundles every aggregate repository bound to the same
// tenant-schema-scoped transaction, plus an outbox saver so a command
// handler can persist an aggregate and its events atomically.
type Repositories struct {
	Locations  location.Repository
	StockItems stockitem.Repository
	Movements  movement.Repository
	Restocks   restock.Repository
	Thresholds threshold.Repository
	Outbox     shared.OutboxEventSaver
	tx         *gorm.DB
}

// SaveEvents is a convenience that saves the pending domain events of one
// or more aggregates to the outbox bound to this same transaction, clearing
// each aggregate's event buffer as it goes.
func (r Repositories) SaveEvents(ctx context.Context, aggregates ...shared.AggregateRoot) error {
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		if err := r.Outbox.SaveEvents(ctx, r.tx, events...); err != nil {
			return err
		}
		agg.ClearDomainEvents()
	}
	return nil
}

// TransactionScope resolves a Tenant Context to its schema and runs fn
// against a single transaction scoped to it, bundling every repository the
// application layer needs.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// GormTransactionScope is the production TransactionScope: it resolves the
// caller's Tenant Context to a tenant_<slug>_schema via the tenant
// registry, switches search_path for the duration of one transaction, and
// constructs every repository against that transaction's *gorm.DB.
type GormTransactionScope struct {
	db          *gorm.DB
	tenants     identity.TenantRepository
	serializer  *event.EventSerializer
	logger      *zap.Logger
	cacheClient *redis.Client
	cacheTTL    time.Duration
}

// NewGormTransactionScope creates a GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB, tenants identity.TenantRepository, serializer *event.EventSerializer, logger *zap.Logger) *GormTransactionScope {
	return &GormTransactionScope{
		db:         db,
		tenants:    tenants,
		serializer: serializer,
		logger:     logger,
	}
}

// WithRepositoryCache turns on a Redis-backed cache decorator over the
// Locations and StockItems repositories constructed by Execute, the two
// hottest FindByID paths (movement and FEFO resolution).
func (s *GormTransactionScope) WithRepositoryCache(client *redis.Client, ttl time.Duration) *GormTransactionScope {
	s.cacheClient = client
	s.cacheTTL = ttl
	return s
}

// Execute resolves the ctx's Tenant Context, opens a schema-scoped
// transaction, and invokes fn with repositories bound to it.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	tc, err := tenantctx.Require(ctx)
	if err != nil {
		return err
	}

	t, err := s.tenants.FindByID(ctx, tc.TenantID)
	if err != nil {
		return shared.NewExternalError("failed to resolve tenant", err)
	}
	if t == nil || !t.IsActive {
		return shared.NewTenantMismatchError("tenant does not exist or is inactive")
	}
	if err := tenant.ValidateSchemaName(t.SchemaName); err != nil {
		return shared.NewFatalError("tenant schema name is invalid", err)
	}

	log := wmslogger.FromContext(ctx)
	ctx, _ = wmslogger.WithTenantID(ctx, log, t.Slug)

	publisher := event.NewOutboxPublisher(s.serializer)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf(`SET search_path TO "%s", public`, t.SchemaName)).Error; err != nil {
			return err
		}

		var locationRepo location.Repository = persistence.NewGormLocationRepository(tx)
		var stockItemRepo stockitem.Repository = persistence.NewGormStockItemRepository(tx)
		if s.cacheClient != nil {
			locationRepo = cache.NewCachedLocationRepository(locationRepo, s.cacheClient, s.cacheTTL, s.logger)
			stockItemRepo = cache.NewCachedStockItemRepository(stockItemRepo, s.cacheClient, s.cacheTTL, s.logger)
		}

		repos := Repositories{
			Locations:  locationRepo,
			StockItems: stockItemRepo,
			Movements:  persistence.NewGormMovementRepository(tx),
			Restocks:   persistence.NewGormRestockRepository(tx),
			Thresholds: persistence.NewGormThresholdRepository(tx),
			Outbox:     publisher,
			tx:         tx,
		}

		return fn(ctx, repos)
	})
}
