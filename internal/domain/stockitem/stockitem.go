// Package stockitem models the stock lifecycle and date-driven
// classification engine: quantity and allocation ledger, location
// assignment, and the EXPIRED/CRITICAL/NEAR_EXPIRY/NORMAL/
// EXTENDED_SHELF_LIFE classification that drives FEFO assignment and
// restock generation.
package stockitem

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Classification is the derived label summarizing a StockItem's proximity
// to expiration.
type Classification string

const (
	ClassificationExpired            Classification = "EXPIRED"
	ClassificationCritical           Classification = "CRITICAL"
	ClassificationNearExpiry         Classification = "NEAR_EXPIRY"
	ClassificationNormal             Classification = "NORMAL"
	ClassificationExtendedShelfLife  Classification = "EXTENDED_SHELF_LIFE"
)

// Classify is the pure classification function of (expirationDate, today).
// A nil expirationDate always yields NORMAL.
func Classify(expirationDate *time.Time, today time.Time) Classification {
	if expirationDate == nil {
		return ClassificationNormal
	}
	days := daysBetween(today, *expirationDate)
	switch {
	case days < 0:
		return ClassificationExpired
	case days <= 7:
		return ClassificationCritical
	case days <= 30:
		return ClassificationNearExpiry
	case days > 365:
		return ClassificationExtendedShelfLife
	default:
		return ClassificationNormal
	}
}

// daysBetween truncates both timestamps to their calendar date before
// differencing, so the classification is stable across same-day re-evaluation
// regardless of the time-of-day component either carries.
func daysBetween(today, expirationDate time.Time) int {
	t := truncateToDate(today)
	e := truncateToDate(expirationDate)
	return int(e.Sub(t).Hours() / 24)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StockItem is the aggregate root for a unit of stock within a tenant.
type StockItem struct {
	shared.TenantAggregateRoot
	ProductID         uuid.UUID
	ConsignmentID     uuid.UUID
	LocationID        *uuid.UUID
	Quantity          int
	AllocatedQuantity int
	ExpirationDate    *time.Time
	Classification    Classification
}

// NewStockItem creates a StockItem, computes its initial classification
// against today, and emits StockClassified(null -> computed) followed by
// any classification-specific event (StockExpired / StockExpiringAlert).
func NewStockItem(tenantID, productID, consignmentID uuid.UUID, quantity int, expirationDate *time.Time, today time.Time) (*StockItem, error) {
	if quantity < 0 {
		return nil, shared.NewValidationError("quantity cannot be negative")
	}

	item := &StockItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		ConsignmentID:       consignmentID,
		Quantity:            quantity,
		ExpirationDate:      expirationDate,
	}

	item.AddDomainEvent(NewStockItemCreatedEvent(item))
	item.reclassify(today, true)
	return item, nil
}

func (s *StockItem) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// reclassify recomputes Classification against today and, when emit is
// true, appends StockClassified plus any classification-specific event for
// every transition (including the initial null -> computed transition at
// creation). Reload-from-storage MUST call this with emit=false.
func (s *StockItem) reclassify(today time.Time, emit bool) {
	old := s.Classification
	newClass := Classify(s.ExpirationDate, today)
	if old == newClass && old != "" {
		return
	}
	s.Classification = newClass
	if !emit {
		return
	}
	s.AddDomainEvent(NewStockClassifiedEvent(s, old, newClass))
	switch newClass {
	case ClassificationExpired:
		s.AddDomainEvent(NewStockExpiredEvent(s))
	case ClassificationCritical:
		s.AddDomainEvent(NewStockExpiringAlertEvent(s, 7))
	case ClassificationNearExpiry:
		s.AddDomainEvent(NewStockExpiringAlertEvent(s, 30))
	}
}

// Reclassify recomputes classification against today without a prior load
// step, used by the reclassification sweep and by command handlers after
// mutating ExpirationDate. Unlike ReloadClassification, this emits events.
func (s *StockItem) Reclassify(today time.Time) {
	s.reclassify(today, true)
	s.touch()
}

// ReloadClassification recomputes Classification silently, for use when
// hydrating an aggregate from storage. It MUST NOT emit events.
func (s *StockItem) ReloadClassification(today time.Time) {
	s.Classification = Classify(s.ExpirationDate, today)
}

// UpdateExpirationDate changes the expiration date and reclassifies.
func (s *StockItem) UpdateExpirationDate(expirationDate *time.Time, today time.Time) error {
	s.ExpirationDate = expirationDate
	s.reclassify(today, true)
	s.touch()
	return nil
}

// AvailableQuantity is Quantity minus AllocatedQuantity.
func (s *StockItem) AvailableQuantity() int {
	return s.Quantity - s.AllocatedQuantity
}

// CanBePicked reports whether this item may be picked for an order: not
// EXPIRED and with available quantity remaining.
func (s *StockItem) CanBePicked() bool {
	return s.Classification != ClassificationExpired && s.AvailableQuantity() > 0
}

// AssignLocation assigns the item to a BIN location for qty units. It
// rejects expired stock, zero quantity, and any quantity exceeding the
// item's current quantity.
func (s *StockItem) AssignLocation(locationID uuid.UUID, qty int) error {
	if s.Classification == ClassificationExpired {
		return shared.NewValidationError("cannot assign expired stock to a location")
	}
	if qty <= 0 {
		return shared.NewValidationError("assigned quantity must be positive")
	}
	if qty > s.Quantity {
		return shared.NewInvariantViolationError("assigned quantity exceeds stock item quantity")
	}

	s.LocationID = &locationID
	s.touch()
	s.AddDomainEvent(NewLocationAssignedToStockItemEvent(s, locationID, qty))
	return nil
}

// UpdateAllocatedQuantity sets AllocatedQuantity, enforcing
// 0 <= new <= quantity.
func (s *StockItem) UpdateAllocatedQuantity(qty int) error {
	if qty < 0 {
		return shared.NewValidationError("allocated quantity cannot be negative")
	}
	if qty > s.Quantity {
		return shared.NewInvariantViolationError("allocated quantity cannot exceed stock item quantity")
	}

	old := s.AllocatedQuantity
	s.AllocatedQuantity = qty
	s.touch()
	if qty > old {
		s.AddDomainEvent(NewStockAllocatedEvent(s, qty-old))
	} else if qty < old {
		s.AddDomainEvent(NewStockAllocationReleasedEvent(s, old-qty))
	}
	return nil
}

// IncreaseQuantity raises Quantity by qty and emits StockAdjusted.
func (s *StockItem) IncreaseQuantity(qty int) error {
	if qty <= 0 {
		return shared.NewValidationError("increase quantity must be positive")
	}
	old := s.Quantity
	s.Quantity += qty
	s.touch()
	s.AddDomainEvent(NewStockAdjustedEvent(s, old, s.Quantity))
	return nil
}

// DecreaseQuantity lowers Quantity by qty, enforcing quantity >= 0 and
// quantity >= allocatedQuantity, and emits StockAdjusted.
func (s *StockItem) DecreaseQuantity(qty int) error {
	if qty <= 0 {
		return shared.NewValidationError("decrease quantity must be positive")
	}
	if qty > s.Quantity {
		return shared.NewInvariantViolationError("cannot decrease quantity below zero")
	}
	if s.Quantity-qty < s.AllocatedQuantity {
		return shared.NewInvariantViolationError("cannot decrease quantity below the allocated quantity")
	}

	old := s.Quantity
	s.Quantity -= qty
	s.touch()
	s.AddDomainEvent(NewStockAdjustedEvent(s, old, s.Quantity))
	return nil
}

// UpdateQuantity sets Quantity directly to a new absolute value, enforcing
// the same invariants as DecreaseQuantity when lowering it.
func (s *StockItem) UpdateQuantity(qty int) error {
	if qty < 0 {
		return shared.NewValidationError("quantity cannot be negative")
	}
	if qty < s.AllocatedQuantity {
		return shared.NewInvariantViolationError("quantity cannot be set below the allocated quantity")
	}

	old := s.Quantity
	s.Quantity = qty
	s.touch()
	if old != qty {
		s.AddDomainEvent(NewStockAdjustedEvent(s, old, qty))
	}
	return nil
}
