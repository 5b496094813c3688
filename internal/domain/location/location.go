// Package location models the warehouse storage hierarchy: the tree of
// warehouse -> zone -> aisle -> rack -> bin locations, their status machine,
// and their capacity accounting.
package location

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Type is the level of a Location within the hierarchy.
type Type string

const (
	TypeWarehouse Type = "WAREHOUSE"
	TypeZone      Type = "ZONE"
	TypeAisle     Type = "AISLE"
	TypeRack      Type = "RACK"
	TypeBin       Type = "BIN"
)

// Status is the operational status of a Location.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusOccupied  Status = "OCCUPIED"
	StatusReserved  Status = "RESERVED"
	StatusBlocked   Status = "BLOCKED"
)

// Coordinates records the physical address components of a Location. Any
// component may be left empty if it does not apply to this Location's Type.
type Coordinates struct {
	Zone  string
	Aisle string
	Rack  string
	Level string
}

// Capacity tracks how much of a Location's storage is currently occupied.
type Capacity struct {
	Current int
	Maximum *int // nil means unbounded
}

// CanAccommodate reports whether qty additional units fit within the
// remaining capacity.
func (c Capacity) CanAccommodate(qty int) bool {
	if c.Maximum == nil {
		return true
	}
	return c.Current+qty <= *c.Maximum
}

// Remaining returns the unused capacity, or math.MaxInt when Maximum is nil
// (unbounded capacity).
func (c Capacity) Remaining() int {
	if c.Maximum == nil {
		return int(^uint(0) >> 1) // math.MaxInt, avoids importing math for one constant
	}
	return *c.Maximum - c.Current
}

// Location is the aggregate root for the warehouse storage hierarchy.
type Location struct {
	shared.TenantAggregateRoot
	ParentLocationID *uuid.UUID
	Code             string
	Name             string
	Barcode          string
	LocationType     Type
	Coordinates      Coordinates
	Status           Status
	Capacity         Capacity
	Description      string
}

// barcodeAlphabet is the uppercase-alphanumeric set auto-generated barcodes
// are drawn from.
const barcodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewLocation creates a Location in the initial AVAILABLE status and emits
// LocationCreated. A WAREHOUSE must have no parent and a non-empty code;
// every other type must have a parent.
func NewLocation(tenantID uuid.UUID, locationType Type, parentLocationID *uuid.UUID, code, name, barcode string, maxCapacity *int) (*Location, error) {
	if locationType == TypeWarehouse {
		if parentLocationID != nil {
			return nil, shared.NewValidationError("a WAREHOUSE location must not have a parent")
		}
		if strings.TrimSpace(code) == "" {
			return nil, shared.NewValidationError("a WAREHOUSE location requires a code")
		}
	} else if parentLocationID == nil {
		return nil, shared.NewValidationError("a non-WAREHOUSE location requires a parent")
	}

	if !isValidType(locationType) {
		return nil, shared.NewValidationError("unknown location type: " + string(locationType))
	}

	resolvedBarcode := strings.ToUpper(strings.TrimSpace(barcode))
	if resolvedBarcode == "" {
		generated, err := generateBarcode()
		if err != nil {
			return nil, shared.NewFatalError("failed to auto-generate barcode", err)
		}
		resolvedBarcode = generated
	} else if !isValidBarcode(resolvedBarcode) {
		return nil, shared.NewValidationError("barcode must be 8-20 uppercase alphanumeric characters")
	}

	if maxCapacity != nil && *maxCapacity < 0 {
		return nil, shared.NewValidationError("maximum capacity cannot be negative")
	}

	loc := &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ParentLocationID:    parentLocationID,
		Code:                strings.TrimSpace(code),
		Name:                strings.TrimSpace(name),
		Barcode:             resolvedBarcode,
		LocationType:        locationType,
		Status:              StatusAvailable,
		Capacity:            Capacity{Current: 0, Maximum: maxCapacity},
	}

	loc.AddDomainEvent(NewLocationCreatedEvent(loc))
	return loc, nil
}

func isValidType(t Type) bool {
	switch t {
	case TypeWarehouse, TypeZone, TypeAisle, TypeRack, TypeBin:
		return true
	}
	return false
}

func isValidBarcode(barcode string) bool {
	if len(barcode) < 8 || len(barcode) > 20 {
		return false
	}
	for _, r := range barcode {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

func generateBarcode() (string, error) {
	const length = 12
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = barcodeAlphabet[int(b)%len(barcodeAlphabet)]
	}
	return string(out), nil
}

func (l *Location) touch() {
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// CanAccommodate reports whether qty additional units fit in this Location.
func (l *Location) CanAccommodate(qty int) bool {
	return l.Capacity.CanAccommodate(qty)
}

// UpdateStatus performs a validated transition per the status machine:
// AVAILABLE <-> RESERVED, OCCUPIED -> AVAILABLE, any non-BLOCKED -> BLOCKED,
// BLOCKED -> AVAILABLE. OCCUPIED is never a target here: a location becomes
// OCCUPIED only through AssignStock. Every other transition is rejected.
func (l *Location) UpdateStatus(newStatus Status, reason string) error {
	if err := l.validateTransition(newStatus, reason); err != nil {
		return err
	}
	old := l.Status
	l.Status = newStatus
	l.touch()
	l.AddDomainEvent(NewLocationStatusChangedEvent(l, old, newStatus, reason))
	return nil
}

func (l *Location) validateTransition(to Status, reason string) error {
	if to == StatusBlocked && strings.TrimSpace(reason) == "" {
		return shared.NewValidationError("blocking a location requires a non-empty reason")
	}
	from := l.Status
	if from == to {
		return shared.NewValidationError("location is already in status " + string(to))
	}
	allowed := map[Status]map[Status]bool{
		StatusAvailable: {StatusReserved: true, StatusBlocked: true},
		StatusOccupied:  {StatusAvailable: true, StatusBlocked: true},
		StatusReserved:  {StatusAvailable: true, StatusBlocked: true},
		StatusBlocked:   {StatusAvailable: true},
	}
	if !allowed[from][to] {
		return shared.NewValidationError("cannot transition location from " + string(from) + " to " + string(to))
	}
	return nil
}

// Block marks the location BLOCKED for the given reason. Valid from any
// non-BLOCKED status.
func (l *Location) Block(reason string) error {
	return l.UpdateStatus(StatusBlocked, reason)
}

// Unblock returns a BLOCKED location to AVAILABLE. BLOCKED is sticky: an
// explicit Unblock is always required, regardless of
// how much stock the location holds.
func (l *Location) Unblock() error {
	if l.Status != StatusBlocked {
		return shared.NewValidationError("location is not blocked")
	}
	old := l.Status
	l.Status = StatusAvailable
	l.touch()
	l.AddDomainEvent(NewLocationStatusChangedEvent(l, old, StatusAvailable, ""))
	return nil
}

// Reserve transitions an AVAILABLE location to RESERVED.
func (l *Location) Reserve() error {
	if l.Status != StatusAvailable {
		return shared.NewValidationError("only an AVAILABLE location can be reserved")
	}
	old := l.Status
	l.Status = StatusReserved
	l.touch()
	l.AddDomainEvent(NewLocationStatusChangedEvent(l, old, StatusReserved, ""))
	return nil
}

// Release transitions a RESERVED location back to AVAILABLE.
func (l *Location) Release() error {
	if l.Status != StatusReserved {
		return shared.NewValidationError("only a RESERVED location can be released")
	}
	old := l.Status
	l.Status = StatusAvailable
	l.touch()
	l.AddDomainEvent(NewLocationStatusChangedEvent(l, old, StatusAvailable, ""))
	return nil
}

// AssignStock raises capacity.current by qty, failing the invariant
// capacity.current <= capacity.maximum. A BLOCKED location never accepts
// stock. Assigning stock to an AVAILABLE or RESERVED location drives it to
// OCCUPIED; assigning more to an already-OCCUPIED location is a no-op on
// status.
func (l *Location) AssignStock(stockItemID uuid.UUID, qty int) error {
	if qty <= 0 {
		return shared.NewValidationError("assigned quantity must be positive")
	}
	if l.LocationType != TypeBin {
		return shared.NewValidationError("stock can only be assigned to a BIN location")
	}
	if l.Status == StatusBlocked {
		return shared.NewValidationError("cannot assign stock to a BLOCKED location")
	}
	if !l.CanAccommodate(qty) {
		return shared.NewInvariantViolationError("assigning stock would exceed location capacity")
	}

	old := l.Status
	l.Capacity.Current += qty
	if l.Status != StatusOccupied {
		l.Status = StatusOccupied
	}
	l.touch()
	if old != l.Status {
		l.AddDomainEvent(NewLocationStatusChangedEvent(l, old, l.Status, ""))
	}
	l.AddDomainEvent(NewLocationAssignedEvent(l, stockItemID, qty))
	return nil
}

// ReleaseStock lowers capacity.current by qty. Releasing all assigned stock
// returns an OCCUPIED location to AVAILABLE; a BLOCKED location stays
// BLOCKED regardless: BLOCKED is sticky and never auto-clears.
func (l *Location) ReleaseStock(stockItemID uuid.UUID, qty int) error {
	if qty <= 0 {
		return shared.NewValidationError("released quantity must be positive")
	}
	if qty > l.Capacity.Current {
		return shared.NewInvariantViolationError("cannot release more stock than currently occupies the location")
	}

	old := l.Status
	l.Capacity.Current -= qty
	if l.Capacity.Current == 0 && l.Status == StatusOccupied {
		l.Status = StatusAvailable
	}
	l.touch()
	if old != l.Status {
		l.AddDomainEvent(NewLocationStatusChangedEvent(l, old, l.Status, ""))
	}
	l.AddDomainEvent(NewLocationReleasedEvent(l, stockItemID, qty))
	return nil
}

// DisplayCode returns the code if set, else the barcode; path segments use
// this value.
func (l *Location) DisplayCode() string {
	if l.Code != "" {
		return l.Code
	}
	return l.Barcode
}

// Ancestor is the minimal shape GeneratePath needs to walk the hierarchy;
// satisfied by *Location itself.
type Ancestor interface {
	GetID() uuid.UUID
	GetParentID() *uuid.UUID
	GetDisplayCode() string
	GetLocationType() Type
}

// GetID, GetParentID, GetDisplayCode, GetLocationType implement Ancestor for
// *Location so GeneratePath can operate uniformly over a resolver callback.
func (l *Location) GetID() uuid.UUID        { return l.ID }
func (l *Location) GetParentID() *uuid.UUID { return l.ParentLocationID }
func (l *Location) GetDisplayCode() string   { return l.DisplayCode() }
func (l *Location) GetLocationType() Type    { return l.LocationType }

// GeneratePath walks parentLocationId upward via resolve, building
// "/{root}/.../{self}". It detects cycles with a visited set and returns ""
// if one is found. resolve returns (nil, false) for an unknown id.
func GeneratePath(start Ancestor, resolve func(id uuid.UUID) (Ancestor, bool)) string {
	var segments []string
	visited := make(map[uuid.UUID]bool)

	current := start
	for {
		if visited[current.GetID()] {
			return ""
		}
		visited[current.GetID()] = true
		segments = append(segments, current.GetDisplayCode())

		parentID := current.GetParentID()
		if parentID == nil || current.GetLocationType() == TypeWarehouse {
			break
		}
		parent, ok := resolve(*parentID)
		if !ok {
			break
		}
		current = parent
	}

	// segments were collected leaf-to-root; reverse to root-to-leaf.
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return "/" + strings.Join(segments, "/")
}
