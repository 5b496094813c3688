package models

import (
	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/threshold"
)

// StockLevelThresholdModel is the persistence model for the
// StockLevelThreshold aggregate.
type StockLevelThresholdModel struct {
	TenantAggregateModel
	ProductID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	LocationID        *uuid.UUID `gorm:"type:uuid;index"`
	Minimum           int        `gorm:"not null"`
	Maximum           *int
	EnableAutoRestock bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM.
func (StockLevelThresholdModel) TableName() string {
	return "stock_level_thresholds"
}

// ToDomain converts the persistence model to a domain StockLevelThreshold.
func (m *StockLevelThresholdModel) ToDomain() *threshold.StockLevelThreshold {
	t := &threshold.StockLevelThreshold{
		ProductID:         m.ProductID,
		LocationID:        m.LocationID,
		Minimum:           m.Minimum,
		Maximum:           m.Maximum,
		EnableAutoRestock: m.EnableAutoRestock,
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	return t
}

// StockLevelThresholdModelFromDomain builds a persistence model from a
// domain StockLevelThreshold.
func StockLevelThresholdModelFromDomain(t *threshold.StockLevelThreshold) *StockLevelThresholdModel {
	m := &StockLevelThresholdModel{
		ProductID:         t.ProductID,
		LocationID:        t.LocationID,
		Minimum:           t.Minimum,
		Maximum:           t.Maximum,
		EnableAutoRestock: t.EnableAutoRestock,
	}
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	return m
}
