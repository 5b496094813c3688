package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/movement"
)

// StockMovementModel is the persistence model for the StockMovement aggregate.
type StockMovementModel struct {
	TenantAggregateModel
	StockItemID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID             uuid.UUID  `gorm:"type:uuid;not null;index"`
	SourceLocationID      *uuid.UUID `gorm:"type:uuid;index"`
	DestinationLocationID *uuid.UUID `gorm:"type:uuid;index"`
	Quantity              int        `gorm:"not null"`
	Reason                string     `gorm:"type:varchar(20);not null"`
	Status                string     `gorm:"type:varchar(20);not null;index"`
	InitiatedAt           time.Time  `gorm:"not null"`
	CompletedAt           *time.Time
	CancelledAt           *time.Time
	CancelReason          string `gorm:"type:text"`
}

// TableName returns the table name for GORM.
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement.
func (m *StockMovementModel) ToDomain() *movement.StockMovement {
	mv := &movement.StockMovement{
		StockItemID:           m.StockItemID,
		ProductID:             m.ProductID,
		SourceLocationID:      m.SourceLocationID,
		DestinationLocationID: m.DestinationLocationID,
		Quantity:              m.Quantity,
		Reason:                movement.Reason(m.Reason),
		Status:                movement.Status(m.Status),
		InitiatedAt:           m.InitiatedAt,
		CompletedAt:           m.CompletedAt,
		CancelledAt:           m.CancelledAt,
		CancelReason:          m.CancelReason,
	}
	m.PopulateTenantAggregateRoot(&mv.TenantAggregateRoot)
	return mv
}

// StockMovementModelFromDomain builds a persistence model from a domain
// StockMovement.
func StockMovementModelFromDomain(mv *movement.StockMovement) *StockMovementModel {
	m := &StockMovementModel{
		StockItemID:           mv.StockItemID,
		ProductID:             mv.ProductID,
		SourceLocationID:      mv.SourceLocationID,
		DestinationLocationID: mv.DestinationLocationID,
		Quantity:              mv.Quantity,
		Reason:                string(mv.Reason),
		Status:                string(mv.Status),
		InitiatedAt:           mv.InitiatedAt,
		CompletedAt:           mv.CompletedAt,
		CancelledAt:           mv.CancelledAt,
		CancelReason:          mv.CancelReason,
	}
	m.FromDomainTenantAggregateRoot(mv.TenantAggregateRoot)
	return m
}
