// Package movement models the stock movement workflow: the record of a
// quantity of a StockItem moving between two locations (or into/out of
// the warehouse when one side is nil), carried through an
// INITIATED -> COMPLETED | CANCELLED state machine.
package movement

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Status is the lifecycle state of a StockMovement.
type Status string

const (
	StatusInitiated Status = "INITIATED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Reason classifies why a movement was initiated.
type Reason string

const (
	ReasonPutaway  Reason = "PUTAWAY"
	ReasonPick     Reason = "PICK"
	ReasonTransfer Reason = "TRANSFER"
	ReasonAdjust   Reason = "ADJUST"
)

// StockMovement is the aggregate root for a single relocation of stock
// from a source location to a destination location. Either location may
// be nil to represent movement across the warehouse boundary (inbound
// receipt or outbound shipment).
type StockMovement struct {
	shared.TenantAggregateRoot
	StockItemID         uuid.UUID
	ProductID           uuid.UUID
	SourceLocationID    *uuid.UUID
	DestinationLocationID *uuid.UUID
	Quantity            int
	Reason              Reason
	Status              Status
	InitiatedAt         time.Time
	CompletedAt         *time.Time
	CancelledAt         *time.Time
	CancelReason        string
}

// NewStockMovement initiates a movement. Source and destination must not
// both be nil, and must not be equal when both are set.
func NewStockMovement(tenantID, stockItemID, productID uuid.UUID, sourceLocationID, destinationLocationID *uuid.UUID, quantity int, reason Reason) (*StockMovement, error) {
	if quantity <= 0 {
		return nil, shared.NewValidationError("movement quantity must be positive")
	}
	if sourceLocationID == nil && destinationLocationID == nil {
		return nil, shared.NewValidationError("movement must have a source or a destination location")
	}
	if sourceLocationID != nil && destinationLocationID != nil && *sourceLocationID == *destinationLocationID {
		return nil, shared.NewValidationError("source and destination locations must differ")
	}
	if !isValidReason(reason) {
		return nil, shared.NewValidationError("invalid movement reason: " + string(reason))
	}

	now := time.Now()
	m := &StockMovement{
		TenantAggregateRoot:   shared.NewTenantAggregateRoot(tenantID),
		StockItemID:           stockItemID,
		ProductID:             productID,
		SourceLocationID:      sourceLocationID,
		DestinationLocationID: destinationLocationID,
		Quantity:              quantity,
		Reason:                reason,
		Status:                StatusInitiated,
		InitiatedAt:           now,
	}
	m.AddDomainEvent(NewStockMovementInitiatedEvent(m))
	return m, nil
}

func isValidReason(r Reason) bool {
	switch r {
	case ReasonPutaway, ReasonPick, ReasonTransfer, ReasonAdjust:
		return true
	default:
		return false
	}
}

func (m *StockMovement) touch() {
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

// Complete transitions an INITIATED movement to COMPLETED. The caller is
// responsible for applying the corresponding capacity/quantity effects to
// the StockItem and Location aggregates within the same transaction.
func (m *StockMovement) Complete() error {
	if m.Status != StatusInitiated {
		return shared.NewValidationError("only an initiated movement can be completed")
	}
	now := time.Now()
	m.Status = StatusCompleted
	m.CompletedAt = &now
	m.touch()
	m.AddDomainEvent(NewStockMovementCompletedEvent(m))
	return nil
}

// Cancel transitions an INITIATED movement to CANCELLED, recording reason.
// A completed movement cannot be cancelled.
func (m *StockMovement) Cancel(reason string) error {
	if m.Status != StatusInitiated {
		return shared.NewValidationError("only an initiated movement can be cancelled")
	}
	if reason == "" {
		return shared.NewValidationError("cancel reason is required")
	}
	now := time.Now()
	m.Status = StatusCancelled
	m.CancelledAt = &now
	m.CancelReason = reason
	m.touch()
	m.AddDomainEvent(NewStockMovementCancelledEvent(m))
	return nil
}
