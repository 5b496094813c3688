package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/tenantctx"
	"github.com/wms/backend/internal/domain/threshold"
)

// ThresholdService orchestrates StockLevelThreshold configuration: a
// threshold is created the first time a (productId, locationId) pair is
// configured and updated in place thereafter, since at most one threshold
// governs a given pair.
type ThresholdService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewThresholdService creates a new ThresholdService.
func NewThresholdService(scope TransactionScope, logger *zap.Logger) *ThresholdService {
	return &ThresholdService{scope: scope, logger: logger}
}

// ConfigureThreshold creates or updates the StockLevelThreshold governing
// cmd.ProductID (optionally scoped to cmd.LocationID).
func (s *ThresholdService) ConfigureThreshold(ctx context.Context, cmd ConfigureThresholdCommand) (*ThresholdDTO, error) {
	tc, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	var dto ThresholdDTO
	err = s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		var existing *threshold.StockLevelThreshold
		var err error
		if cmd.LocationID != nil {
			existing, err = repos.Thresholds.FindByProductAndLocation(ctx, cmd.ProductID, *cmd.LocationID)
		} else {
			candidates, ferr := repos.Thresholds.FindForProduct(ctx, cmd.ProductID)
			err = ferr
			for _, c := range candidates {
				if c.LocationID == nil {
					existing = c
					break
				}
			}
		}
		if err != nil {
			return shared.NewExternalError("failed to look up existing threshold", err)
		}

		var t *threshold.StockLevelThreshold
		if existing != nil {
			if err := tenantctx.CheckTenant(tc, existing.TenantID); err != nil {
				return err
			}
			if err := existing.UpdateLevels(cmd.Minimum, cmd.Maximum, cmd.EnableAutoRestock); err != nil {
				return err
			}
			t = existing
		} else {
			t, err = threshold.New(tc.TenantID, cmd.ProductID, cmd.LocationID, cmd.Minimum, cmd.Maximum, cmd.EnableAutoRestock)
			if err != nil {
				return err
			}
		}

		if err := repos.Thresholds.Save(ctx, t); err != nil {
			return shared.NewExternalError("failed to save threshold", err)
		}
		if err := repos.SaveEvents(ctx, t); err != nil {
			return shared.NewExternalError("failed to save threshold events", err)
		}

		dto = ToThresholdDTO(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// evaluateThresholdBreach loads the threshold governing (productID,
// locationID) — preferring a location-scoped threshold over a tenant-wide
// one — checks currentQuantity against it, and persists any
// StockLevelBelowMinimum/StockLevelAboveMaximum events it crosses to the
// same transaction's outbox. Called from the quantity-changing command
// services (stock receipt, movement completion) so the restock reactor
// downstream always sees a breach the moment it happens.
func evaluateThresholdBreach(ctx context.Context, repos Repositories, productID uuid.UUID, locationID *uuid.UUID, currentQuantity int) error {
	var t *threshold.StockLevelThreshold

	if locationID != nil {
		scoped, err := repos.Thresholds.FindByProductAndLocation(ctx, productID, *locationID)
		if err != nil {
			return shared.NewExternalError("failed to look up location threshold", err)
		}
		t = scoped
	}
	if t == nil {
		candidates, err := repos.Thresholds.FindForProduct(ctx, productID)
		if err != nil {
			return shared.NewExternalError("failed to look up product thresholds", err)
		}
		for _, c := range candidates {
			if c.LocationID == nil {
				t = c
				break
			}
		}
	}
	if t == nil {
		return nil
	}

	events := t.CheckLevel(currentQuantity)
	if len(events) == 0 {
		return nil
	}
	for _, e := range events {
		t.AddDomainEvent(e)
	}
	return repos.SaveEvents(ctx, t)
}
