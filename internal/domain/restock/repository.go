package restock

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Filter narrows a ListRestockRequests query.
type Filter struct {
	shared.Filter
	ProductID  *uuid.UUID
	LocationID *uuid.UUID
	Status     *Status
	Priority   *Priority
}

// Repository persists and retrieves RestockRequest aggregates within a
// tenant schema.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RestockRequest, error)
	List(ctx context.Context, filter Filter) (shared.Paginated[*RestockRequest], error)
	// FindActiveFor returns the active (PENDING or SENT_TO_D365) request for
	// a (productId, locationId) pair, if any, enforcing the at-most-one
	// active request invariant.
	FindActiveFor(ctx context.Context, productID uuid.UUID, locationID *uuid.UUID) (*RestockRequest, error)
	Save(ctx context.Context, r *RestockRequest) error
}
