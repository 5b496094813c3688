package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/stockitem"
	"github.com/wms/backend/internal/domain/tenantctx"
	"github.com/wms/backend/internal/infrastructure/scheduler"
)

// ReclassificationJobExecutor is the scheduler.JobExecutor backing the
// Background Sweepers component: RECLASSIFICATION re-evaluates every
// StockItem due for a classification change against the job's period end;
// STALE_LOCK has no backing concept in this data model (no allocation
// carries a hold/expiry of its own) and is a documented no-op rather than
// an invented one.
type ReclassificationJobExecutor struct {
	scope   TransactionScope
	tenants identity.TenantRepository
	logger  *zap.Logger
}

// NewReclassificationJobExecutor creates a ReclassificationJobExecutor.
func NewReclassificationJobExecutor(scope TransactionScope, tenants identity.TenantRepository, logger *zap.Logger) *ReclassificationJobExecutor {
	return &ReclassificationJobExecutor{scope: scope, tenants: tenants, logger: logger}
}

// Execute implements scheduler.JobExecutor.
func (e *ReclassificationJobExecutor) Execute(ctx context.Context, job *scheduler.Job) error {
	switch job.SweepType {
	case scheduler.SweepTypeReclassification:
		return e.runReclassification(ctx, job)
	case scheduler.SweepTypeStaleLock:
		e.logger.Debug("stale lock sweep has no backing allocation-hold concept, skipping", zap.String("job_id", job.ID.String()))
		return nil
	default:
		return fmt.Errorf("reclassification job executor: unknown sweep type %q", job.SweepType)
	}
}

func (e *ReclassificationJobExecutor) runReclassification(ctx context.Context, job *scheduler.Job) error {
	tenantIDs, err := e.resolveTenantIDs(ctx, job.TenantID)
	if err != nil {
		return err
	}

	for _, tenantID := range tenantIDs {
		tenantCtx := tenantctx.WithContext(ctx, tenantctx.TenantContext{TenantID: tenantID, Roles: []string{"system"}})
		err := e.scope.Execute(tenantCtx, func(ctx context.Context, repos Repositories) error {
			items, err := repos.StockItems.FindDueForReclassification(ctx, job.PeriodEnd)
			if err != nil {
				return shared.NewExternalError("failed to find stock items due for reclassification", err)
			}
			for _, item := range items {
				item.Reclassify(job.PeriodEnd)
				if err := repos.StockItems.Save(ctx, item); err != nil {
					return shared.NewExternalError("failed to save reclassified stock item", err)
				}
			}
			return repos.SaveEvents(ctx, stockItemsToAggregateRoots(items)...)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *ReclassificationJobExecutor) resolveTenantIDs(ctx context.Context, tenantID *uuid.UUID) ([]uuid.UUID, error) {
	if tenantID != nil {
		return []uuid.UUID{*tenantID}, nil
	}
	tenants, err := e.tenants.FindActive(ctx, shared.Filter{Page: 1, PageSize: maxPageSize})
	if err != nil {
		return nil, shared.NewExternalError("failed to resolve active tenants", err)
	}
	ids := make([]uuid.UUID, 0, len(tenants))
	for _, t := range tenants {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// stockItemsToAggregateRoots adapts a []*stockitem.StockItem to the
// variadic shared.AggregateRoot Repositories.SaveEvents expects.
func stockItemsToAggregateRoots(items []*stockitem.StockItem) []shared.AggregateRoot {
	roots := make([]shared.AggregateRoot, 0, len(items))
	for _, item := range items {
		roots = append(roots, item)
	}
	return roots
}

var _ scheduler.JobExecutor = (*ReclassificationJobExecutor)(nil)
