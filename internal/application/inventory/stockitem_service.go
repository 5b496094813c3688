package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/stockitem"
	"github.com/wms/backend/internal/domain/tenantctx"
)

// StockItemService orchestrates StockItem commands: creation against a
// Consignment and expiration-date corrections, both of which drive the
// classification engine.
type StockItemService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewStockItemService creates a new StockItemService.
func NewStockItemService(scope TransactionScope, logger *zap.Logger) *StockItemService {
	return &StockItemService{scope: scope, logger: logger}
}

// CreateStockItem registers new stock received against a Consignment,
// computing its initial classification against the current date.
func (s *StockItemService) CreateStockItem(ctx context.Context, cmd CreateStockItemCommand) (*StockItemDTO, error) {
	tc, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	var dto StockItemDTO
	err = s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		item, err := stockitem.NewStockItem(tc.TenantID, cmd.ProductID, cmd.ConsignmentID, cmd.Quantity, cmd.ExpirationDate, time.Now())
		if err != nil {
			return err
		}

		if err := repos.StockItems.Save(ctx, item); err != nil {
			return shared.NewExternalError("failed to save stock item", err)
		}
		if err := repos.SaveEvents(ctx, item); err != nil {
			return shared.NewExternalError("failed to save stock item events", err)
		}
		if err := evaluateThresholdBreach(ctx, repos, item.ProductID, item.LocationID, item.Quantity); err != nil {
			return err
		}

		dto = ToStockItemDTO(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// UpdateStockItemExpirationDate corrects a StockItem's expiration date,
// e.g. after a data-entry error, triggering reclassification against the
// current date.
func (s *StockItemService) UpdateStockItemExpirationDate(ctx context.Context, id uuid.UUID, expirationDate *time.Time) (*StockItemDTO, error) {
	tc, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	var dto StockItemDTO
	err = s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		item, err := repos.StockItems.FindByID(ctx, id)
		if err != nil {
			return shared.NewExternalError("failed to find stock item", err)
		}
		if item == nil {
			return shared.NewNotFoundError("stock item not found")
		}
		if err := tenantctx.CheckTenant(tc, item.TenantID); err != nil {
			return err
		}

		if err := item.UpdateExpirationDate(expirationDate, time.Now()); err != nil {
			return err
		}

		if err := repos.StockItems.Save(ctx, item); err != nil {
			return shared.NewExternalError("failed to save stock item", err)
		}
		if err := repos.SaveEvents(ctx, item); err != nil {
			return shared.NewExternalError("failed to save stock item events", err)
		}

		dto = ToStockItemDTO(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}
