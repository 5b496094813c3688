package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/movement"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/stockitem"
	"github.com/wms/backend/internal/domain/tenantctx"
)

// MovementService orchestrates the StockMovement two-phase workflow: it
// resolves the moving stock item, validates the cross-aggregate
// capacity/quantity preconditions, and applies the completion effects to
// the Location and StockItem aggregates atomically with the movement's own
// status transition.
type MovementService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewMovementService creates a new MovementService.
func NewMovementService(scope TransactionScope, logger *zap.Logger) *MovementService {
	return &MovementService{scope: scope, logger: logger}
}

// CreateStockMovement initiates a StockMovement. If cmd.StockItemID is
// absent, the stock item is resolved first by (productId, sourceLocationId)
// and, failing that, by productId alone across the tenant.
func (s *MovementService) CreateStockMovement(ctx context.Context, cmd CreateMovementCommand) (*MovementDTO, error) {
	tc, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	var dto MovementDTO
	err = s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		item, err := s.resolveStockItem(ctx, repos, cmd)
		if err != nil {
			return err
		}
		if err := tenantctx.CheckTenant(tc, item.TenantID); err != nil {
			return err
		}
		if item.AvailableQuantity() < cmd.Quantity {
			return shared.NewInvariantViolationError("stock item does not have enough available quantity for this movement")
		}

		if cmd.SourceLocationID != nil {
			src, err := s.loadLocation(ctx, repos, tc, *cmd.SourceLocationID)
			if err != nil {
				return err
			}
			_ = src
		}

		if cmd.DestinationLocationID != nil {
			dest, err := s.loadLocation(ctx, repos, tc, *cmd.DestinationLocationID)
			if err != nil {
				return err
			}
			if !dest.CanAccommodate(cmd.Quantity) {
				return shared.NewInvariantViolationError("destination location cannot accommodate this movement's quantity")
			}
		}

		m, err := movement.NewStockMovement(tc.TenantID, item.ID, item.ProductID, cmd.SourceLocationID, cmd.DestinationLocationID, cmd.Quantity, cmd.Reason)
		if err != nil {
			return err
		}

		if err := repos.Movements.Save(ctx, m); err != nil {
			return shared.NewExternalError("failed to save stock movement", err)
		}
		if err := repos.SaveEvents(ctx, m); err != nil {
			return shared.NewExternalError("failed to save movement events", err)
		}

		dto = ToMovementDTO(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// resolveStockItem finds the StockItem a CreateMovementCommand refers to,
// preferring an explicit StockItemID and falling back to
// (productId, sourceLocationId) then productId alone.
func (s *MovementService) resolveStockItem(ctx context.Context, repos Repositories, cmd CreateMovementCommand) (*stockitem.StockItem, error) {
	if cmd.StockItemID != nil {
		item, err := repos.StockItems.FindByID(ctx, *cmd.StockItemID)
		if err != nil {
			return nil, shared.NewExternalError("failed to find stock item", err)
		}
		if item == nil {
			return nil, shared.NewNotFoundError("stock item not found")
		}
		return item, nil
	}
	if cmd.ProductID == nil {
		return nil, shared.NewValidationError("either stockItemId or productId is required to create a movement")
	}

	if cmd.SourceLocationID != nil {
		candidates, err := repos.StockItems.FindByProductAndLocation(ctx, *cmd.ProductID, cmd.SourceLocationID)
		if err != nil {
			return nil, shared.NewExternalError("failed to resolve stock item by product and source location", err)
		}
		if item := pickCandidate(candidates, cmd.Quantity); item != nil {
			return item, nil
		}
	}

	candidates, err := repos.StockItems.FindByProductAndLocation(ctx, *cmd.ProductID, nil)
	if err != nil {
		return nil, shared.NewExternalError("failed to resolve stock item by product", err)
	}
	if item := pickCandidate(candidates, cmd.Quantity); item != nil {
		return item, nil
	}
	return nil, shared.NewNotFoundError("no stock item with sufficient available quantity found for this product")
}

// pickCandidate returns the first candidate with enough available quantity
// for qty, or nil if none qualifies.
func pickCandidate(candidates []*stockitem.StockItem, qty int) *stockitem.StockItem {
	for _, c := range candidates {
		if c.AvailableQuantity() >= qty {
			return c
		}
	}
	return nil
}

func (s *MovementService) loadLocation(ctx context.Context, repos Repositories, tc tenantctx.TenantContext, id uuid.UUID) (*location.Location, error) {
	loc, err := repos.Locations.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewExternalError("failed to find location", err)
	}
	if loc == nil {
		return nil, shared.NewNotFoundError("location not found")
	}
	if err := tenantctx.CheckTenant(tc, loc.TenantID); err != nil {
		return nil, err
	}
	return loc, nil
}

// CompleteStockMovement transitions an INITIATED movement to COMPLETED,
// applying its capacity and location-assignment effects atomically with
// the status change. The destination's canAccommodate precondition is
// re-checked here: if it no longer holds, the movement stays INITIATED
// and no capacity changes are applied.
func (s *MovementService) CompleteStockMovement(ctx context.Context, id uuid.UUID) (*MovementDTO, error) {
	tc, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	var dto MovementDTO
	err = s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		m, err := repos.Movements.FindByID(ctx, id)
		if err != nil {
			return shared.NewExternalError("failed to find stock movement", err)
		}
		if m == nil {
			return shared.NewNotFoundError("stock movement not found")
		}
		if err := tenantctx.CheckTenant(tc, m.TenantID); err != nil {
			return err
		}

		item, err := repos.StockItems.FindByID(ctx, m.StockItemID)
		if err != nil {
			return shared.NewExternalError("failed to find stock item", err)
		}
		if item == nil {
			return shared.NewNotFoundError("stock item not found")
		}

		var src, dest *location.Location
		if m.SourceLocationID != nil {
			src, err = repos.Locations.FindByID(ctx, *m.SourceLocationID)
			if err != nil {
				return shared.NewExternalError("failed to find source location", err)
			}
			if src == nil {
				return shared.NewNotFoundError("source location not found")
			}
		}
		if m.DestinationLocationID != nil {
			dest, err = repos.Locations.FindByID(ctx, *m.DestinationLocationID)
			if err != nil {
				return shared.NewExternalError("failed to find destination location", err)
			}
			if dest == nil {
				return shared.NewNotFoundError("destination location not found")
			}
			if !dest.CanAccommodate(m.Quantity) {
				return shared.NewInvariantViolationError("destination location can no longer accommodate this movement's quantity")
			}
		}

		if err := m.Complete(); err != nil {
			return err
		}

		toSave := []shared.AggregateRoot{m}
		if src != nil {
			if err := src.ReleaseStock(item.ID, m.Quantity); err != nil {
				return err
			}
			if err := repos.Locations.Save(ctx, src); err != nil {
				return shared.NewExternalError("failed to save source location", err)
			}
			toSave = append(toSave, src)
		}
		if dest != nil {
			if err := dest.AssignStock(item.ID, m.Quantity); err != nil {
				return err
			}
			if err := repos.Locations.Save(ctx, dest); err != nil {
				return shared.NewExternalError("failed to save destination location", err)
			}
			if err := item.AssignLocation(dest.ID, m.Quantity); err != nil {
				return err
			}
			if err := repos.StockItems.Save(ctx, item); err != nil {
				return shared.NewExternalError("failed to save stock item", err)
			}
			toSave = append(toSave, item)
		}

		if err := repos.Movements.Save(ctx, m); err != nil {
			return shared.NewExternalError("failed to save stock movement", err)
		}
		if err := repos.SaveEvents(ctx, toSave...); err != nil {
			return shared.NewExternalError("failed to save movement completion events", err)
		}
		if dest != nil {
			if err := evaluateThresholdBreach(ctx, repos, m.ProductID, &dest.ID, item.Quantity); err != nil {
				return err
			}
		}
		if src != nil {
			if err := evaluateThresholdBreach(ctx, repos, m.ProductID, &src.ID, item.Quantity); err != nil {
				return err
			}
		}

		dto = ToMovementDTO(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// CancelStockMovement transitions an INITIATED movement to CANCELLED,
// applying no capacity effects: nothing was ever moved.
func (s *MovementService) CancelStockMovement(ctx context.Context, id uuid.UUID, reason string) (*MovementDTO, error) {
	tc, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	var dto MovementDTO
	err = s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		m, err := repos.Movements.FindByID(ctx, id)
		if err != nil {
			return shared.NewExternalError("failed to find stock movement", err)
		}
		if m == nil {
			return shared.NewNotFoundError("stock movement not found")
		}
		if err := tenantctx.CheckTenant(tc, m.TenantID); err != nil {
			return err
		}
		if err := m.Cancel(reason); err != nil {
			return err
		}
		if err := repos.Movements.Save(ctx, m); err != nil {
			return shared.NewExternalError("failed to save stock movement", err)
		}
		if err := repos.SaveEvents(ctx, m); err != nil {
			return shared.NewExternalError("failed to save movement events", err)
		}
		dto = ToMovementDTO(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}
