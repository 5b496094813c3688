package movement

import (
	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// AggregateTypeStockMovement is the aggregate type tag carried by every
// event this package emits.
const AggregateTypeStockMovement = "StockMovement"

const (
	EventTypeStockMovementInitiated = "StockMovementInitiated"
	EventTypeStockMovementCompleted = "StockMovementCompleted"
	EventTypeStockMovementCancelled = "StockMovementCancelled"
)

// InitiatedEvent is published when a StockMovement is created.
type InitiatedEvent struct {
	shared.BaseDomainEvent
	MovementID            uuid.UUID  `json:"movement_id"`
	StockItemID           uuid.UUID  `json:"stock_item_id"`
	ProductID             uuid.UUID  `json:"product_id"`
	SourceLocationID      *uuid.UUID `json:"source_location_id,omitempty"`
	DestinationLocationID *uuid.UUID `json:"destination_location_id,omitempty"`
	Quantity              int        `json:"quantity"`
	Reason                Reason     `json:"reason"`
}

// NewStockMovementInitiatedEvent builds an InitiatedEvent.
func NewStockMovementInitiatedEvent(m *StockMovement) *InitiatedEvent {
	return &InitiatedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeStockMovementInitiated, AggregateTypeStockMovement, m.ID, m.TenantID),
		MovementID:            m.ID,
		StockItemID:           m.StockItemID,
		ProductID:             m.ProductID,
		SourceLocationID:      m.SourceLocationID,
		DestinationLocationID: m.DestinationLocationID,
		Quantity:              m.Quantity,
		Reason:                m.Reason,
	}
}

// CompletedEvent is published when a StockMovement completes. The location
// capacity changes are applied by MovementService.CompleteStockMovement in
// the same transaction; no subscriber reacts to this event.
type CompletedEvent struct {
	shared.BaseDomainEvent
	MovementID            uuid.UUID  `json:"movement_id"`
	StockItemID           uuid.UUID  `json:"stock_item_id"`
	ProductID             uuid.UUID  `json:"product_id"`
	SourceLocationID      *uuid.UUID `json:"source_location_id,omitempty"`
	DestinationLocationID *uuid.UUID `json:"destination_location_id,omitempty"`
	Quantity              int        `json:"quantity"`
}

// NewStockMovementCompletedEvent builds a CompletedEvent.
func NewStockMovementCompletedEvent(m *StockMovement) *CompletedEvent {
	return &CompletedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeStockMovementCompleted, AggregateTypeStockMovement, m.ID, m.TenantID),
		MovementID:            m.ID,
		StockItemID:           m.StockItemID,
		ProductID:             m.ProductID,
		SourceLocationID:      m.SourceLocationID,
		DestinationLocationID: m.DestinationLocationID,
		Quantity:              m.Quantity,
	}
}

// CancelledEvent is published when a StockMovement is cancelled before
// completion.
type CancelledEvent struct {
	shared.BaseDomainEvent
	MovementID uuid.UUID `json:"movement_id"`
	Reason     string    `json:"reason"`
}

// NewStockMovementCancelledEvent builds a CancelledEvent.
func NewStockMovementCancelledEvent(m *StockMovement) *CancelledEvent {
	return &CancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMovementCancelled, AggregateTypeStockMovement, m.ID, m.TenantID),
		MovementID:      m.ID,
		Reason:          m.CancelReason,
	}
}
