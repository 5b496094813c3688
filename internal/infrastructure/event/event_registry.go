package event

import (
	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/movement"
	"github.com/wms/backend/internal/domain/restock"
	"github.com/wms/backend/internal/domain/stockitem"
	"github.com/wms/backend/internal/domain/threshold"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	// Location events
	serializer.Register(location.EventTypeLocationCreated, &location.CreatedEvent{})
	serializer.Register(location.EventTypeLocationStatusChanged, &location.StatusChangedEvent{})
	serializer.Register(location.EventTypeLocationAssigned, &location.AssignedEvent{})
	serializer.Register(location.EventTypeLocationReleased, &location.ReleasedEvent{})

	// StockItem events
	serializer.Register(stockitem.EventTypeStockItemCreated, &stockitem.CreatedEvent{})
	serializer.Register(stockitem.EventTypeStockClassified, &stockitem.ClassifiedEvent{})
	serializer.Register(stockitem.EventTypeStockExpired, &stockitem.ExpiredEvent{})
	serializer.Register(stockitem.EventTypeStockExpiringAlert, &stockitem.ExpiringAlertEvent{})
	serializer.Register(stockitem.EventTypeLocationAssignedToStockItem, &stockitem.LocationAssignedToStockItemEvent{})
	serializer.Register(stockitem.EventTypeStockAdjusted, &stockitem.AdjustedEvent{})
	serializer.Register(stockitem.EventTypeStockAllocated, &stockitem.AllocatedEvent{})
	serializer.Register(stockitem.EventTypeStockAllocationReleased, &stockitem.AllocationReleasedEvent{})

	// StockMovement events
	serializer.Register(movement.EventTypeStockMovementInitiated, &movement.InitiatedEvent{})
	serializer.Register(movement.EventTypeStockMovementCompleted, &movement.CompletedEvent{})
	serializer.Register(movement.EventTypeStockMovementCancelled, &movement.CancelledEvent{})

	// RestockRequest events
	serializer.Register(restock.EventTypeRestockRequestGenerated, &restock.GeneratedEvent{})
	serializer.Register(restock.EventTypeRestockRequestSent, &restock.SentEvent{})
	serializer.Register(restock.EventTypeRestockRequestFulfilled, &restock.FulfilledEvent{})
	serializer.Register(restock.EventTypeRestockRequestCancelled, &restock.CancelledEvent{})

	// StockLevelThreshold events
	serializer.Register(threshold.EventTypeThresholdConfigured, &threshold.ThresholdConfiguredEvent{})
	serializer.Register(threshold.EventTypeStockLevelBelowMinimum, &threshold.StockLevelBelowMinimumEvent{})
	serializer.Register(threshold.EventTypeStockLevelAboveMaximum, &threshold.StockLevelAboveMaximumEvent{})
}
