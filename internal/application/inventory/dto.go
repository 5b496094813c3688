package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/movement"
	"github.com/wms/backend/internal/domain/restock"
	"github.com/wms/backend/internal/domain/stockitem"
	"github.com/wms/backend/internal/domain/threshold"
)

// CreateLocationCommand creates a new Location.
type CreateLocationCommand struct {
	LocationType     location.Type
	ParentLocationID *uuid.UUID
	Code             string
	Name             string
	Barcode          string
	MaxCapacity      *int
}

// LocationDTO is the read representation of a Location.
type LocationDTO struct {
	ID               uuid.UUID       `json:"id"`
	ParentLocationID *uuid.UUID      `json:"parent_location_id,omitempty"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Barcode          string          `json:"barcode"`
	LocationType     location.Type   `json:"location_type"`
	Zone             string          `json:"zone,omitempty"`
	Aisle            string          `json:"aisle,omitempty"`
	Rack             string          `json:"rack,omitempty"`
	Level            string          `json:"level,omitempty"`
	Status           location.Status `json:"status"`
	CapacityCurrent  int             `json:"capacity_current"`
	CapacityMaximum  *int            `json:"capacity_maximum,omitempty"`
	Description      string          `json:"description,omitempty"`
	Version          int             `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToLocationDTO builds a LocationDTO from a domain Location.
func ToLocationDTO(l *location.Location) LocationDTO {
	return LocationDTO{
		ID:               l.ID,
		ParentLocationID: l.ParentLocationID,
		Code:             l.Code,
		Name:             l.Name,
		Barcode:          l.Barcode,
		LocationType:     l.LocationType,
		Zone:             l.Coordinates.Zone,
		Aisle:            l.Coordinates.Aisle,
		Rack:             l.Coordinates.Rack,
		Level:            l.Coordinates.Level,
		Status:           l.Status,
		CapacityCurrent:  l.Capacity.Current,
		CapacityMaximum:  l.Capacity.Maximum,
		Description:      l.Description,
		Version:          l.GetVersion(),
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

// CreateStockItemCommand creates a new StockItem.
type CreateStockItemCommand struct {
	ProductID      uuid.UUID
	ConsignmentID  uuid.UUID
	Quantity       int
	ExpirationDate *time.Time
}

// StockItemDTO is the read representation of a StockItem.
type StockItemDTO struct {
	ID                uuid.UUID                  `json:"id"`
	ProductID         uuid.UUID                  `json:"product_id"`
	ConsignmentID     uuid.UUID                  `json:"consignment_id"`
	LocationID        *uuid.UUID                 `json:"location_id,omitempty"`
	Quantity          int                        `json:"quantity"`
	AllocatedQuantity int                        `json:"allocated_quantity"`
	AvailableQuantity int                        `json:"available_quantity"`
	ExpirationDate    *time.Time                 `json:"expiration_date,omitempty"`
	Classification    stockitem.Classification    `json:"classification"`
	Version           int                        `json:"version"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
}

// ToStockItemDTO builds a StockItemDTO from a domain StockItem.
func ToStockItemDTO(s *stockitem.StockItem) StockItemDTO {
	return StockItemDTO{
		ID:                s.ID,
		ProductID:         s.ProductID,
		ConsignmentID:     s.ConsignmentID,
		LocationID:        s.LocationID,
		Quantity:          s.Quantity,
		AllocatedQuantity: s.AllocatedQuantity,
		AvailableQuantity: s.AvailableQuantity(),
		ExpirationDate:    s.ExpirationDate,
		Classification:    s.Classification,
		Version:           s.GetVersion(),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// CreateMovementCommand initiates a StockMovement. Exactly one of
// StockItemID or (ProductID, SourceLocationID) must resolve to a stock
// item: callers that know the stock item id directly pass it; callers that
// only know the product and the source location let CreateStockMovement
// resolve it per FindByProductAndLocation.
type CreateMovementCommand struct {
	StockItemID           *uuid.UUID
	ProductID             *uuid.UUID
	SourceLocationID      *uuid.UUID
	DestinationLocationID *uuid.UUID
	Quantity              int
	Reason                movement.Reason
}

// MovementDTO is the read representation of a StockMovement.
type MovementDTO struct {
	ID                    uuid.UUID        `json:"id"`
	StockItemID           uuid.UUID        `json:"stock_item_id"`
	ProductID             uuid.UUID        `json:"product_id"`
	SourceLocationID      *uuid.UUID       `json:"source_location_id,omitempty"`
	DestinationLocationID *uuid.UUID       `json:"destination_location_id,omitempty"`
	Quantity              int              `json:"quantity"`
	Reason                movement.Reason  `json:"reason"`
	Status                movement.Status  `json:"status"`
	InitiatedAt           time.Time        `json:"initiated_at"`
	CompletedAt           *time.Time       `json:"completed_at,omitempty"`
	CancelledAt           *time.Time       `json:"cancelled_at,omitempty"`
	CancelReason          string           `json:"cancel_reason,omitempty"`
	Version               int              `json:"version"`
}

// ToMovementDTO builds a MovementDTO from a domain StockMovement.
func ToMovementDTO(m *movement.StockMovement) MovementDTO {
	return MovementDTO{
		ID:                    m.ID,
		StockItemID:           m.StockItemID,
		ProductID:             m.ProductID,
		SourceLocationID:      m.SourceLocationID,
		DestinationLocationID: m.DestinationLocationID,
		Quantity:              m.Quantity,
		Reason:                m.Reason,
		Status:                m.Status,
		InitiatedAt:           m.InitiatedAt,
		CompletedAt:           m.CompletedAt,
		CancelledAt:           m.CancelledAt,
		CancelReason:          m.CancelReason,
		Version:               m.GetVersion(),
	}
}

// RestockRequestDTO is the read representation of a RestockRequest.
type RestockRequestDTO struct {
	ID                uuid.UUID         `json:"id"`
	ProductID         uuid.UUID         `json:"product_id"`
	LocationID        *uuid.UUID        `json:"location_id,omitempty"`
	CurrentQuantity   int               `json:"current_quantity"`
	MinimumQuantity   int               `json:"minimum_quantity"`
	MaximumQuantity   *int              `json:"maximum_quantity,omitempty"`
	RequestedQuantity int               `json:"requested_quantity"`
	Priority          restock.Priority  `json:"priority"`
	Status            restock.Status    `json:"status"`
	SentAt            *time.Time        `json:"sent_at,omitempty"`
	OrderReference    string            `json:"order_reference,omitempty"`
	Version           int               `json:"version"`
}

// ToRestockRequestDTO builds a RestockRequestDTO from a domain RestockRequest.
func ToRestockRequestDTO(r *restock.RestockRequest) RestockRequestDTO {
	return RestockRequestDTO{
		ID:                r.ID,
		ProductID:         r.ProductID,
		LocationID:        r.LocationID,
		CurrentQuantity:   r.CurrentQuantity,
		MinimumQuantity:   r.MinimumQuantity,
		MaximumQuantity:   r.MaximumQuantity,
		RequestedQuantity: r.RequestedQuantity,
		Priority:          r.Priority,
		Status:            r.Status,
		SentAt:            r.SentAt,
		OrderReference:    r.OrderReference,
		Version:           r.GetVersion(),
	}
}

// ConfigureThresholdCommand creates or updates a StockLevelThreshold.
type ConfigureThresholdCommand struct {
	ProductID         uuid.UUID
	LocationID        *uuid.UUID
	Minimum           int
	Maximum           *int
	EnableAutoRestock bool
}

// ThresholdDTO is the read representation of a StockLevelThreshold.
type ThresholdDTO struct {
	ID                uuid.UUID  `json:"id"`
	ProductID         uuid.UUID  `json:"product_id"`
	LocationID        *uuid.UUID `json:"location_id,omitempty"`
	Minimum           int        `json:"minimum"`
	Maximum           *int       `json:"maximum,omitempty"`
	EnableAutoRestock bool       `json:"enable_auto_restock"`
	Version           int        `json:"version"`
}

// ToThresholdDTO builds a ThresholdDTO from a domain StockLevelThreshold.
func ToThresholdDTO(t *threshold.StockLevelThreshold) ThresholdDTO {
	return ThresholdDTO{
		ID:                t.ID,
		ProductID:         t.ProductID,
		LocationID:        t.LocationID,
		Minimum:           t.Minimum,
		Maximum:           t.Maximum,
		EnableAutoRestock: t.EnableAutoRestock,
		Version:           t.GetVersion(),
	}
}
