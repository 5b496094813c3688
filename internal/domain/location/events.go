package location

import (
	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// AggregateTypeLocation is the aggregate type tag carried by every event
// this package emits.
const AggregateTypeLocation = "Location"

const (
	EventTypeLocationCreated       = "LocationCreated"
	EventTypeLocationStatusChanged = "LocationStatusChanged"
	EventTypeLocationAssigned      = "LocationAssigned"
	EventTypeLocationReleased      = "LocationReleased"
)

// CreatedEvent is published when a new Location is created.
type CreatedEvent struct {
	shared.BaseDomainEvent
	LocationID   uuid.UUID   `json:"location_id"`
	LocationType Type        `json:"location_type"`
	Code         string      `json:"code"`
	Barcode      string      `json:"barcode"`
	ParentID     *uuid.UUID  `json:"parent_location_id,omitempty"`
}

// NewLocationCreatedEvent builds a CreatedEvent from the just-created Location.
func NewLocationCreatedEvent(l *Location) *CreatedEvent {
	return &CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationCreated, AggregateTypeLocation, l.ID, l.TenantID),
		LocationID:      l.ID,
		LocationType:    l.LocationType,
		Code:            l.Code,
		Barcode:         l.Barcode,
		ParentID:        l.ParentLocationID,
	}
}

// StatusChangedEvent is published whenever a Location transitions status.
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	LocationID uuid.UUID `json:"location_id"`
	OldStatus  Status    `json:"old_status"`
	NewStatus  Status    `json:"new_status"`
	Reason     string    `json:"reason,omitempty"`
}

// NewLocationStatusChangedEvent builds a StatusChangedEvent.
func NewLocationStatusChangedEvent(l *Location, old, new Status, reason string) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationStatusChanged, AggregateTypeLocation, l.ID, l.TenantID),
		LocationID:      l.ID,
		OldStatus:       old,
		NewStatus:       new,
		Reason:          reason,
	}
}

// AssignedEvent is published when stock is assigned into a Location.
type AssignedEvent struct {
	shared.BaseDomainEvent
	LocationID  uuid.UUID `json:"location_id"`
	StockItemID uuid.UUID `json:"stock_item_id"`
	Quantity    int       `json:"quantity"`
}

// NewLocationAssignedEvent builds an AssignedEvent.
func NewLocationAssignedEvent(l *Location, stockItemID uuid.UUID, qty int) *AssignedEvent {
	return &AssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationAssigned, AggregateTypeLocation, l.ID, l.TenantID),
		LocationID:      l.ID,
		StockItemID:     stockItemID,
		Quantity:        qty,
	}
}

// ReleasedEvent is published when stock is released from a Location.
type ReleasedEvent struct {
	shared.BaseDomainEvent
	LocationID  uuid.UUID `json:"location_id"`
	StockItemID uuid.UUID `json:"stock_item_id"`
	Quantity    int       `json:"quantity"`
}

// NewLocationReleasedEvent builds a ReleasedEvent.
func NewLocationReleasedEvent(l *Location, stockItemID uuid.UUID, qty int) *ReleasedEvent {
	return &ReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationReleased, AggregateTypeLocation, l.ID, l.TenantID),
		LocationID:      l.ID,
		StockItemID:     stockItemID,
		Quantity:        qty,
	}
}
