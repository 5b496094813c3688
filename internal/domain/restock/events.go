package restock

import (
	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// AggregateTypeRestockRequest is the aggregate type tag carried by every
// event this package emits.
const AggregateTypeRestockRequest = "RestockRequest"

const (
	EventTypeRestockRequestGenerated = "RestockRequestGenerated"
	EventTypeRestockRequestSent      = "RestockRequestSent"
	EventTypeRestockRequestFulfilled = "RestockRequestFulfilled"
	EventTypeRestockRequestCancelled = "RestockRequestCancelled"
)

// GeneratedEvent is published when a RestockRequest is created in reaction
// to StockLevelBelowMinimum.
type GeneratedEvent struct {
	shared.BaseDomainEvent
	RequestID         uuid.UUID  `json:"request_id"`
	ProductID         uuid.UUID  `json:"product_id"`
	LocationID        *uuid.UUID `json:"location_id,omitempty"`
	RequestedQuantity int        `json:"requested_quantity"`
	Priority          Priority   `json:"priority"`
}

// NewRestockRequestGeneratedEvent builds a GeneratedEvent.
func NewRestockRequestGeneratedEvent(r *RestockRequest) *GeneratedEvent {
	return &GeneratedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeRestockRequestGenerated, AggregateTypeRestockRequest, r.ID, r.TenantID),
		RequestID:         r.ID,
		ProductID:         r.ProductID,
		LocationID:        r.LocationID,
		RequestedQuantity: r.RequestedQuantity,
		Priority:          r.Priority,
	}
}

// SentEvent is published when a request is sent to the external fulfillment
// system (D365).
type SentEvent struct {
	shared.BaseDomainEvent
	RequestID      uuid.UUID `json:"request_id"`
	OrderReference string    `json:"order_reference"`
}

// NewRestockRequestSentEvent builds a SentEvent.
func NewRestockRequestSentEvent(r *RestockRequest) *SentEvent {
	return &SentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRestockRequestSent, AggregateTypeRestockRequest, r.ID, r.TenantID),
		RequestID:       r.ID,
		OrderReference:  r.OrderReference,
	}
}

// FulfilledEvent is published when a request is marked fulfilled.
type FulfilledEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID `json:"request_id"`
}

// NewRestockRequestFulfilledEvent builds a FulfilledEvent.
func NewRestockRequestFulfilledEvent(r *RestockRequest) *FulfilledEvent {
	return &FulfilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRestockRequestFulfilled, AggregateTypeRestockRequest, r.ID, r.TenantID),
		RequestID:       r.ID,
	}
}

// CancelledEvent is published when a request is cancelled before fulfillment.
type CancelledEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID `json:"request_id"`
	Reason    string    `json:"reason"`
}

// NewRestockRequestCancelledEvent builds a CancelledEvent.
func NewRestockRequestCancelledEvent(r *RestockRequest, reason string) *CancelledEvent {
	return &CancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRestockRequestCancelled, AggregateTypeRestockRequest, r.ID, r.TenantID),
		RequestID:       r.ID,
		Reason:          reason,
	}
}
