package stockitem

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// AggregateTypeStockItem is the aggregate type tag carried by every event
// this package emits.
const AggregateTypeStockItem = "StockItem"

const (
	EventTypeStockItemCreated          = "StockItemCreated"
	EventTypeStockClassified           = "StockClassified"
	EventTypeStockExpired              = "StockExpired"
	EventTypeStockExpiringAlert        = "StockExpiringAlert"
	EventTypeLocationAssignedToStockItem = "LocationAssignedToStockItem"
	EventTypeStockAdjusted             = "StockAdjusted"
	EventTypeStockAllocated            = "StockAllocated"
	EventTypeStockAllocationReleased   = "StockAllocationReleased"
)

// CreatedEvent is published when a StockItem is created.
type CreatedEvent struct {
	shared.BaseDomainEvent
	StockItemID    uuid.UUID  `json:"stock_item_id"`
	ProductID      uuid.UUID  `json:"product_id"`
	ConsignmentID  uuid.UUID  `json:"consignment_id"`
	Quantity       int        `json:"quantity"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// NewStockItemCreatedEvent builds a CreatedEvent.
func NewStockItemCreatedEvent(s *StockItem) *CreatedEvent {
	return &CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockItemCreated, AggregateTypeStockItem, s.ID, s.TenantID),
		StockItemID:     s.ID,
		ProductID:       s.ProductID,
		ConsignmentID:   s.ConsignmentID,
		Quantity:        s.Quantity,
		ExpirationDate:  s.ExpirationDate,
	}
}

// ClassifiedEvent is published on any classification transition, including
// the initial null -> computed transition at creation.
type ClassifiedEvent struct {
	shared.BaseDomainEvent
	StockItemID    uuid.UUID      `json:"stock_item_id"`
	OldClassification Classification `json:"old_classification"`
	NewClassification Classification `json:"new_classification"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Quantity       int            `json:"quantity"`
}

// NewStockClassifiedEvent builds a ClassifiedEvent.
func NewStockClassifiedEvent(s *StockItem, old, new Classification) *ClassifiedEvent {
	return &ClassifiedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockClassified, AggregateTypeStockItem, s.ID, s.TenantID),
		StockItemID:       s.ID,
		OldClassification: old,
		NewClassification: new,
		ExpirationDate:    s.ExpirationDate,
		Quantity:          s.Quantity,
	}
}

// ExpiredEvent is published when a StockItem's classification becomes EXPIRED.
type ExpiredEvent struct {
	shared.BaseDomainEvent
	StockItemID    uuid.UUID  `json:"stock_item_id"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// NewStockExpiredEvent builds an ExpiredEvent.
func NewStockExpiredEvent(s *StockItem) *ExpiredEvent {
	return &ExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockExpired, AggregateTypeStockItem, s.ID, s.TenantID),
		StockItemID:     s.ID,
		ExpirationDate:  s.ExpirationDate,
	}
}

// ExpiringAlertEvent is published when a StockItem becomes CRITICAL (threshold
// 7) or NEAR_EXPIRY (threshold 30).
type ExpiringAlertEvent struct {
	shared.BaseDomainEvent
	StockItemID    uuid.UUID  `json:"stock_item_id"`
	Threshold      int        `json:"threshold"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// NewStockExpiringAlertEvent builds an ExpiringAlertEvent.
func NewStockExpiringAlertEvent(s *StockItem, threshold int) *ExpiringAlertEvent {
	return &ExpiringAlertEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockExpiringAlert, AggregateTypeStockItem, s.ID, s.TenantID),
		StockItemID:     s.ID,
		Threshold:       threshold,
		ExpirationDate:  s.ExpirationDate,
	}
}

// LocationAssignedToStockItemEvent is published when a StockItem is assigned
// to a BIN location.
type LocationAssignedToStockItemEvent struct {
	shared.BaseDomainEvent
	StockItemID    uuid.UUID      `json:"stock_item_id"`
	LocationID     uuid.UUID      `json:"location_id"`
	Quantity       int            `json:"quantity"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Classification Classification `json:"classification"`
}

// NewLocationAssignedToStockItemEvent builds a LocationAssignedToStockItemEvent.
func NewLocationAssignedToStockItemEvent(s *StockItem, locationID uuid.UUID, qty int) *LocationAssignedToStockItemEvent {
	return &LocationAssignedToStockItemEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationAssignedToStockItem, AggregateTypeStockItem, s.ID, s.TenantID),
		StockItemID:     s.ID,
		LocationID:      locationID,
		Quantity:        qty,
		ExpirationDate:  s.ExpirationDate,
		Classification:  s.Classification,
	}
}

// AdjustedEvent is published when Quantity changes via increase/decrease/set.
type AdjustedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID `json:"stock_item_id"`
	OldQuantity int       `json:"old_quantity"`
	NewQuantity int       `json:"new_quantity"`
}

// NewStockAdjustedEvent builds an AdjustedEvent.
func NewStockAdjustedEvent(s *StockItem, old, new int) *AdjustedEvent {
	return &AdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockItem, s.ID, s.TenantID),
		StockItemID:     s.ID,
		OldQuantity:     old,
		NewQuantity:     new,
	}
}

// AllocatedEvent is published when AllocatedQuantity increases.
type AllocatedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID `json:"stock_item_id"`
	Delta       int       `json:"delta"`
}

// NewStockAllocatedEvent builds an AllocatedEvent.
func NewStockAllocatedEvent(s *StockItem, delta int) *AllocatedEvent {
	return &AllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAllocated, AggregateTypeStockItem, s.ID, s.TenantID),
		StockItemID:     s.ID,
		Delta:           delta,
	}
}

// AllocationReleasedEvent is published when AllocatedQuantity decreases.
type AllocationReleasedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID `json:"stock_item_id"`
	Delta       int       `json:"delta"`
}

// NewStockAllocationReleasedEvent builds an AllocationReleasedEvent.
func NewStockAllocationReleasedEvent(s *StockItem, delta int) *AllocationReleasedEvent {
	return &AllocationReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAllocationReleased, AggregateTypeStockItem, s.ID, s.TenantID),
		StockItemID:     s.ID,
		Delta:           delta,
	}
}
