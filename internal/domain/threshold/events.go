package threshold

import (
	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// AggregateTypeStockLevelThreshold is the aggregate type tag carried by
// every event this package emits.
const AggregateTypeStockLevelThreshold = "StockLevelThreshold"

const (
	EventTypeThresholdConfigured     = "StockLevelThresholdConfigured"
	EventTypeStockLevelBelowMinimum  = "StockLevelBelowMinimum"
	EventTypeStockLevelAboveMaximum  = "StockLevelAboveMaximum"
)

// ThresholdConfiguredEvent is published whenever a threshold is created
// or its levels are updated.
type ThresholdConfiguredEvent struct {
	shared.BaseDomainEvent
	ThresholdID uuid.UUID  `json:"threshold_id"`
	ProductID   uuid.UUID  `json:"product_id"`
	LocationID  *uuid.UUID `json:"location_id,omitempty"`
	Minimum     int        `json:"minimum"`
	Maximum     *int       `json:"maximum,omitempty"`
}

// NewThresholdConfiguredEvent builds a ThresholdConfiguredEvent.
func NewThresholdConfiguredEvent(t *StockLevelThreshold) *ThresholdConfiguredEvent {
	return &ThresholdConfiguredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeThresholdConfigured, AggregateTypeStockLevelThreshold, t.ID, t.TenantID),
		ThresholdID:     t.ID,
		ProductID:       t.ProductID,
		LocationID:      t.LocationID,
		Minimum:         t.Minimum,
		Maximum:         t.Maximum,
	}
}

// StockLevelBelowMinimumEvent is published when a quantity observation
// falls below a threshold's minimum. The restock application service
// reacts to this to generate or refresh a RestockRequest.
type StockLevelBelowMinimumEvent struct {
	shared.BaseDomainEvent
	ThresholdID       uuid.UUID  `json:"threshold_id"`
	ProductID         uuid.UUID  `json:"product_id"`
	LocationID        *uuid.UUID `json:"location_id,omitempty"`
	CurrentQuantity   int        `json:"current_quantity"`
	Minimum           int        `json:"minimum"`
	Maximum           *int       `json:"maximum,omitempty"`
	EnableAutoRestock bool       `json:"enable_auto_restock"`
}

// NewStockLevelBelowMinimumEvent builds a StockLevelBelowMinimumEvent.
func NewStockLevelBelowMinimumEvent(t *StockLevelThreshold, current int) *StockLevelBelowMinimumEvent {
	return &StockLevelBelowMinimumEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockLevelBelowMinimum, AggregateTypeStockLevelThreshold, t.ID, t.TenantID),
		ThresholdID:       t.ID,
		ProductID:         t.ProductID,
		LocationID:        t.LocationID,
		CurrentQuantity:   current,
		Minimum:           t.Minimum,
		Maximum:           t.Maximum,
		EnableAutoRestock: t.EnableAutoRestock,
	}
}

// StockLevelAboveMaximumEvent is published when a quantity observation
// exceeds a threshold's maximum.
type StockLevelAboveMaximumEvent struct {
	shared.BaseDomainEvent
	ThresholdID     uuid.UUID  `json:"threshold_id"`
	ProductID       uuid.UUID  `json:"product_id"`
	LocationID      *uuid.UUID `json:"location_id,omitempty"`
	CurrentQuantity int        `json:"current_quantity"`
	Maximum         int        `json:"maximum"`
}

// NewStockLevelAboveMaximumEvent builds a StockLevelAboveMaximumEvent.
func NewStockLevelAboveMaximumEvent(t *StockLevelThreshold, current int) *StockLevelAboveMaximumEvent {
	return &StockLevelAboveMaximumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLevelAboveMaximum, AggregateTypeStockLevelThreshold, t.ID, t.TenantID),
		ThresholdID:     t.ID,
		ProductID:       t.ProductID,
		LocationID:      t.LocationID,
		CurrentQuantity: current,
		Maximum:         *t.Maximum,
	}
}
