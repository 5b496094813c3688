// Package restock models the threshold-triggered restock request state
// machine: priority and requested-quantity derivation from current vs.
// minimum/maximum stock levels, and the PENDING -> SENT_TO_D365 ->
// FULFILLED lifecycle (with CANCELLED reachable from any non-terminal
// state).
package restock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Priority is the urgency derived from current/minimum.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Status is the lifecycle state of a RestockRequest.
type Status string

const (
	StatusPending     Status = "PENDING"
	StatusSentToD365  Status = "SENT_TO_D365"
	StatusFulfilled   Status = "FULFILLED"
	StatusCancelled   Status = "CANCELLED"
)

// IsActive reports whether a status counts toward the one-active-request
// deduplication rule.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusSentToD365
}

// DerivePriority classifies urgency from the current/minimum ratio:
// < 0.5 -> HIGH, < 1.0 -> MEDIUM, else LOW. minimum must be positive;
// callers are expected to have validated that already.
func DerivePriority(current, minimum int) Priority {
	ratio := decimal.NewFromInt(int64(current)).Div(decimal.NewFromInt(int64(minimum)))
	half := decimal.NewFromFloat(0.5)
	one := decimal.NewFromInt(1)
	switch {
	case ratio.LessThan(half):
		return PriorityHigh
	case ratio.LessThan(one):
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// DeriveRequestedQuantity computes max(0, maximum-current) when maximum is
// set, else max(0, 2*minimum-current).
func DeriveRequestedQuantity(current, minimum int, maximum *int) int {
	var target int
	if maximum != nil {
		target = *maximum - current
	} else {
		target = 2*minimum - current
	}
	if target < 0 {
		return 0
	}
	return target
}

// RestockRequest is the aggregate root for a single restock ask against a
// (productId, locationId) pair.
type RestockRequest struct {
	shared.TenantAggregateRoot
	ProductID        uuid.UUID
	LocationID       *uuid.UUID
	CurrentQuantity  int
	MinimumQuantity  int
	MaximumQuantity  *int
	RequestedQuantity int
	Priority         Priority
	Status           Status
	SentAt           *time.Time
	OrderReference   string
}

// New creates a RestockRequest in PENDING status, deriving priority and
// requested quantity from the supplied levels.
func New(tenantID, productID uuid.UUID, locationID *uuid.UUID, current, minimum int, maximum *int) (*RestockRequest, error) {
	if minimum <= 0 {
		return nil, shared.NewValidationError("minimum quantity must be positive")
	}
	if maximum != nil && *maximum <= minimum {
		return nil, shared.NewValidationError("maximum quantity must exceed minimum quantity")
	}

	r := &RestockRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		LocationID:          locationID,
		CurrentQuantity:     current,
		MinimumQuantity:     minimum,
		MaximumQuantity:     maximum,
		RequestedQuantity:   DeriveRequestedQuantity(current, minimum, maximum),
		Priority:            DerivePriority(current, minimum),
		Status:              StatusPending,
	}
	r.AddDomainEvent(NewRestockRequestGeneratedEvent(r))
	return r, nil
}

func (r *RestockRequest) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// RefreshLevels recomputes priority and requested quantity against new
// current/minimum/maximum readings, used when a duplicate
// StockLevelBelowMinimum arrives for an already-active request rather than
// opening a second one.
func (r *RestockRequest) RefreshLevels(current, minimum int, maximum *int) error {
	if !r.Status.IsActive() {
		return shared.NewValidationError("cannot refresh levels on a request that is not active")
	}
	if minimum <= 0 {
		return shared.NewValidationError("minimum quantity must be positive")
	}
	r.CurrentQuantity = current
	r.MinimumQuantity = minimum
	r.MaximumQuantity = maximum
	r.RequestedQuantity = DeriveRequestedQuantity(current, minimum, maximum)
	r.Priority = DerivePriority(current, minimum)
	r.touch()
	return nil
}

// MarkSentToD365 transitions PENDING -> SENT_TO_D365, recording the
// external order reference.
func (r *RestockRequest) MarkSentToD365(orderReference string) error {
	if r.Status != StatusPending {
		return shared.NewValidationError("only a pending request can be sent")
	}
	if orderReference == "" {
		return shared.NewValidationError("order reference is required")
	}
	now := time.Now()
	r.Status = StatusSentToD365
	r.SentAt = &now
	r.OrderReference = orderReference
	r.touch()
	r.AddDomainEvent(NewRestockRequestSentEvent(r))
	return nil
}

// MarkAsFulfilled transitions SENT_TO_D365 -> FULFILLED. Idempotent: calling
// it again on an already-FULFILLED request is a no-op success. A CANCELLED
// request can never become FULFILLED.
func (r *RestockRequest) MarkAsFulfilled() error {
	if r.Status == StatusFulfilled {
		return nil
	}
	if r.Status == StatusCancelled {
		return shared.NewValidationError("a cancelled request cannot be fulfilled")
	}
	if r.Status != StatusSentToD365 {
		return shared.NewValidationError("only a request sent to D365 can be fulfilled")
	}
	r.Status = StatusFulfilled
	r.touch()
	r.AddDomainEvent(NewRestockRequestFulfilledEvent(r))
	return nil
}

// Cancel transitions any non-FULFILLED status to CANCELLED.
func (r *RestockRequest) Cancel(reason string) error {
	if r.Status == StatusFulfilled {
		return shared.NewValidationError("a fulfilled request cannot be cancelled")
	}
	if r.Status == StatusCancelled {
		return nil
	}
	r.Status = StatusCancelled
	r.touch()
	r.AddDomainEvent(NewRestockRequestCancelledEvent(r, reason))
	return nil
}
