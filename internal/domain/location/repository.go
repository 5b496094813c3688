package location

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Filter narrows a ListLocations query.
type Filter struct {
	shared.Filter
	LocationType *Type
	Status       *Status
	ParentID     *uuid.UUID
}

// Repository persists and retrieves Location aggregates within a tenant
// schema. Implementations must reject operations whose tenant does not
// match the Tenant Context of the supplied ctx.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)
	FindByBarcode(ctx context.Context, barcode string) (*Location, error)
	FindByCode(ctx context.Context, code string) (*Location, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]*Location, error)
	FindAncestorChain(ctx context.Context, id uuid.UUID) ([]*Location, error)
	List(ctx context.Context, filter Filter) (shared.Paginated[*Location], error)
	FindAvailable(ctx context.Context, locationType *Type) ([]*Location, error)
	Save(ctx context.Context, loc *Location) error
	ExistsByBarcode(ctx context.Context, barcode string) (bool, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
