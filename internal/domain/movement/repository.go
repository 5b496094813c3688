package movement

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Filter narrows a ListMovements query.
type Filter struct {
	shared.Filter
	StockItemID *uuid.UUID
	ProductID   *uuid.UUID
	LocationID  *uuid.UUID
	Status      *Status
}

// Repository persists and retrieves StockMovement aggregates within a
// tenant schema.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)
	List(ctx context.Context, filter Filter) (shared.Paginated[*StockMovement], error)
	FindPendingByStockItem(ctx context.Context, stockItemID uuid.UUID) ([]*StockMovement, error)
	Save(ctx context.Context, m *StockMovement) error
}
