package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/tenantctx"
)

// LocationService orchestrates Location commands: it enforces the Tenant
// Context, runs every mutation inside a TransactionScope, and persists the
// aggregate plus its domain events atomically.
type LocationService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewLocationService creates a new LocationService.
func NewLocationService(scope TransactionScope, logger *zap.Logger) *LocationService {
	return &LocationService{scope: scope, logger: logger}
}

// CreateLocation creates a new Location.
func (s *LocationService) CreateLocation(ctx context.Context, cmd CreateLocationCommand) (*LocationDTO, error) {
	tc, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	var dto LocationDTO
	err = s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		if cmd.Barcode != "" {
			exists, err := repos.Locations.ExistsByBarcode(ctx, cmd.Barcode)
			if err != nil {
				return shared.NewExternalError("failed to check barcode uniqueness", err)
			}
			if exists {
				return shared.NewConflictError("a location with this barcode already exists")
			}
		}

		loc, err := location.NewLocation(tc.TenantID, cmd.LocationType, cmd.ParentLocationID, cmd.Code, cmd.Name, cmd.Barcode, cmd.MaxCapacity)
		if err != nil {
			return err
		}
		loc.SetCreatedBy(tc.UserID)

		if err := repos.Locations.Save(ctx, loc); err != nil {
			return shared.NewExternalError("failed to save location", err)
		}
		if err := repos.SaveEvents(ctx, loc); err != nil {
			return shared.NewExternalError("failed to save location events", err)
		}

		dto = ToLocationDTO(loc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// UpdateLocationStatus transitions a Location to a new status.
func (s *LocationService) UpdateLocationStatus(ctx context.Context, id uuid.UUID, newStatus location.Status, reason string) (*LocationDTO, error) {
	return s.mutate(ctx, id, func(loc *location.Location) error {
		return loc.UpdateStatus(newStatus, reason)
	})
}

// BlockLocation blocks a Location, taking it out of rotation.
func (s *LocationService) BlockLocation(ctx context.Context, id uuid.UUID, reason string) (*LocationDTO, error) {
	return s.mutate(ctx, id, func(loc *location.Location) error {
		return loc.Block(reason)
	})
}

// UnblockLocation restores a blocked Location to AVAILABLE.
func (s *LocationService) UnblockLocation(ctx context.Context, id uuid.UUID) (*LocationDTO, error) {
	return s.mutate(ctx, id, func(loc *location.Location) error {
		return loc.Unblock()
	})
}

// ReserveLocation marks a Location RESERVED, e.g. ahead of a putaway plan.
func (s *LocationService) ReserveLocation(ctx context.Context, id uuid.UUID) (*LocationDTO, error) {
	return s.mutate(ctx, id, func(loc *location.Location) error {
		return loc.Reserve()
	})
}

// ReleaseLocation returns a RESERVED Location to AVAILABLE.
func (s *LocationService) ReleaseLocation(ctx context.Context, id uuid.UUID) (*LocationDTO, error) {
	return s.mutate(ctx, id, func(loc *location.Location) error {
		return loc.Release()
	})
}

// mutate loads a Location by id, applies fn, and saves the result plus its
// events inside a single transaction. Every simple single-aggregate
// command funnels through here to keep the load/apply/save/publish shape
// identical across operations.
func (s *LocationService) mutate(ctx context.Context, id uuid.UUID, fn func(*location.Location) error) (*LocationDTO, error) {
	tc, err := tenantctx.Require(ctx)
	if err != nil {
		return nil, err
	}

	var dto LocationDTO
	err = s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		loc, err := repos.Locations.FindByID(ctx, id)
		if err != nil {
			return shared.NewExternalError("failed to find location", err)
		}
		if loc == nil {
			return shared.NewNotFoundError("location not found")
		}
		if err := tenantctx.CheckTenant(tc, loc.TenantID); err != nil {
			return err
		}

		if err := fn(loc); err != nil {
			return err
		}

		if err := repos.Locations.Save(ctx, loc); err != nil {
			return shared.NewExternalError("failed to save location", err)
		}
		if err := repos.SaveEvents(ctx, loc); err != nil {
			return shared.NewExternalError("failed to save location events", err)
		}

		dto = ToLocationDTO(loc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// AssignLocationsFEFOResult reports the outcome of a FEFO assignment pass.
type AssignLocationsFEFOResult struct {
	Assigned   map[uuid.UUID]uuid.UUID
	Unassigned []uuid.UUID
}
