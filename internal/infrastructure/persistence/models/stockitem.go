package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/stockitem"
)

// StockItemModel is the persistence model for the StockItem aggregate.
type StockItemModel struct {
	TenantAggregateModel
	ProductID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	ConsignmentID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	LocationID        *uuid.UUID `gorm:"type:uuid;index"`
	Quantity          int        `gorm:"not null;default:0"`
	AllocatedQuantity int        `gorm:"not null;default:0"`
	ExpirationDate    *time.Time `gorm:"index"`
	Classification    string     `gorm:"type:varchar(30);not null;index"`
}

// TableName returns the table name for GORM.
func (StockItemModel) TableName() string {
	return "stock_items"
}

// ToDomain converts the persistence model to a domain StockItem, silently
// recomputing Classification rather than trusting the persisted copy, so
// reload is stable even if a sweep's reclassification write was missed.
func (m *StockItemModel) ToDomain(today time.Time) *stockitem.StockItem {
	item := &stockitem.StockItem{
		ProductID:         m.ProductID,
		ConsignmentID:     m.ConsignmentID,
		LocationID:        m.LocationID,
		Quantity:          m.Quantity,
		AllocatedQuantity: m.AllocatedQuantity,
		ExpirationDate:    m.ExpirationDate,
	}
	m.PopulateTenantAggregateRoot(&item.TenantAggregateRoot)
	item.ReloadClassification(today)
	return item
}

// StockItemModelFromDomain builds a persistence model from a domain StockItem.
func StockItemModelFromDomain(s *stockitem.StockItem) *StockItemModel {
	m := &StockItemModel{
		ProductID:         s.ProductID,
		ConsignmentID:     s.ConsignmentID,
		LocationID:        s.LocationID,
		Quantity:          s.Quantity,
		AllocatedQuantity: s.AllocatedQuantity,
		ExpirationDate:    s.ExpirationDate,
		Classification:    string(s.Classification),
	}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	return m
}
