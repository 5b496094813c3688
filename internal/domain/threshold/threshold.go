// Package threshold models the minimum/maximum stock band a product (at a
// tenant, optionally scoped to a single location) is monitored against,
// and derives the StockLevelBelowMinimum / StockLevelAboveMaximum
// notifications that drive automatic restock generation.
package threshold

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// StockLevelThreshold is the aggregate root configuring the stock band
// for a (tenantId, productId, locationId?) triple. LocationID nil means
// the threshold applies to the product tenant-wide across all locations.
type StockLevelThreshold struct {
	shared.TenantAggregateRoot
	ProductID         uuid.UUID
	LocationID        *uuid.UUID
	Minimum           int
	Maximum           *int
	EnableAutoRestock bool
}

// New validates and constructs a StockLevelThreshold. Minimum must be
// non-negative and, when Maximum is set, strictly less than it.
func New(tenantID, productID uuid.UUID, locationID *uuid.UUID, minimum int, maximum *int, enableAutoRestock bool) (*StockLevelThreshold, error) {
	if minimum < 0 {
		return nil, shared.NewValidationError("minimum cannot be negative")
	}
	if maximum != nil && *maximum <= minimum {
		return nil, shared.NewValidationError("maximum must be greater than minimum")
	}

	t := &StockLevelThreshold{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		LocationID:          locationID,
		Minimum:             minimum,
		Maximum:             maximum,
		EnableAutoRestock:   enableAutoRestock,
	}
	t.AddDomainEvent(NewThresholdConfiguredEvent(t))
	return t, nil
}

func (t *StockLevelThreshold) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// UpdateLevels changes minimum/maximum/enableAutoRestock, re-validating
// the minimum < maximum invariant.
func (t *StockLevelThreshold) UpdateLevels(minimum int, maximum *int, enableAutoRestock bool) error {
	if minimum < 0 {
		return shared.NewValidationError("minimum cannot be negative")
	}
	if maximum != nil && *maximum <= minimum {
		return shared.NewValidationError("maximum must be greater than minimum")
	}
	t.Minimum = minimum
	t.Maximum = maximum
	t.EnableAutoRestock = enableAutoRestock
	t.touch()
	t.AddDomainEvent(NewThresholdConfiguredEvent(t))
	return nil
}

// CheckLevel evaluates a current quantity against this threshold and
// returns the events it crosses. A quantity can be below minimum and
// above maximum is never simultaneously true for a sane band, but the
// caller should not assume exclusivity beyond that.
func (t *StockLevelThreshold) CheckLevel(current int) []shared.DomainEvent {
	var events []shared.DomainEvent
	if current < t.Minimum {
		events = append(events, NewStockLevelBelowMinimumEvent(t, current))
	}
	if t.Maximum != nil && current > *t.Maximum {
		events = append(events, NewStockLevelAboveMaximumEvent(t, current))
	}
	return events
}

// AppliesToLocation reports whether this threshold governs the given
// location: either it is tenant-wide (LocationID nil) or it matches.
func (t *StockLevelThreshold) AppliesToLocation(locationID uuid.UUID) bool {
	return t.LocationID == nil || *t.LocationID == locationID
}
