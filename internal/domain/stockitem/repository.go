package stockitem

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Filter narrows a GetStockItems/ListStockItems query.
type Filter struct {
	shared.Filter
	ProductID      *uuid.UUID
	LocationID     *uuid.UUID
	Classification *Classification
}

// Repository persists and retrieves StockItem aggregates within a tenant
// schema. Implementations must reject operations whose tenant does not
// match the Tenant Context of the supplied ctx.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)
	List(ctx context.Context, filter Filter) (shared.Paginated[*StockItem], error)
	FindByClassification(ctx context.Context, classification Classification) ([]*StockItem, error)
	FindUnassigned(ctx context.Context, productID uuid.UUID) ([]*StockItem, error)
	FindExpiring(ctx context.Context, before time.Time, classification *Classification) ([]*StockItem, error)
	FindByProductAndLocation(ctx context.Context, productID uuid.UUID, locationID *uuid.UUID) ([]*StockItem, error)
	// FindDueForReclassification returns items whose classification may have
	// changed since the last sweep: those whose expirationDate sits in a
	// soon-to-change band relative to referenceTime (at or near a
	// CRITICAL/NEAR_EXPIRY/EXTENDED_SHELF_LIFE day boundary).
	FindDueForReclassification(ctx context.Context, referenceTime time.Time) ([]*StockItem, error)
	Save(ctx context.Context, item *StockItem) error
}
