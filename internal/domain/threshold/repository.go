package threshold

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Filter narrows a ListThresholds query.
type Filter struct {
	shared.Filter
	ProductID  *uuid.UUID
	LocationID *uuid.UUID
}

// Repository persists and retrieves StockLevelThreshold aggregates within
// a tenant schema.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockLevelThreshold, error)
	List(ctx context.Context, filter Filter) (shared.Paginated[*StockLevelThreshold], error)
	// FindForProduct returns every threshold configured for a product,
	// both tenant-wide (LocationID nil) and location-scoped ones, so the
	// caller can pick the most specific match for a given location.
	FindForProduct(ctx context.Context, productID uuid.UUID) ([]*StockLevelThreshold, error)
	// FindByProductAndLocation returns the location-scoped threshold for
	// (productID, locationID) if one exists.
	FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*StockLevelThreshold, error)
	Save(ctx context.Context, t *StockLevelThreshold) error
}
