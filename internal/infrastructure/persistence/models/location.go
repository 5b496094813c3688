package models

import (
	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/location"
)

// LocationModel is the persistence model for the Location aggregate.
type LocationModel struct {
	TenantAggregateModel
	ParentLocationID *uuid.UUID `gorm:"type:uuid;index"`
	Code             string     `gorm:"type:varchar(100);index"`
	Name             string     `gorm:"type:varchar(255)"`
	Barcode          string     `gorm:"type:varchar(20);uniqueIndex;not null"`
	LocationType     string     `gorm:"type:varchar(20);not null;index"`
	Zone             string     `gorm:"type:varchar(50)"`
	Aisle            string     `gorm:"type:varchar(50)"`
	Rack             string     `gorm:"type:varchar(50)"`
	Level            string     `gorm:"type:varchar(50)"`
	Status           string     `gorm:"type:varchar(20);not null;index"`
	CapacityCurrent  int        `gorm:"not null;default:0"`
	CapacityMaximum  *int
	Description      string `gorm:"type:text"`
}

// TableName returns the table name for GORM.
func (LocationModel) TableName() string {
	return "locations"
}

// ToDomain converts the persistence model to a domain Location.
func (m *LocationModel) ToDomain() *location.Location {
	loc := &location.Location{
		ParentLocationID: m.ParentLocationID,
		Code:             m.Code,
		Name:             m.Name,
		Barcode:          m.Barcode,
		LocationType:     location.Type(m.LocationType),
		Coordinates: location.Coordinates{
			Zone:  m.Zone,
			Aisle: m.Aisle,
			Rack:  m.Rack,
			Level: m.Level,
		},
		Status: location.Status(m.Status),
		Capacity: location.Capacity{
			Current: m.CapacityCurrent,
			Maximum: m.CapacityMaximum,
		},
		Description: m.Description,
	}
	m.PopulateTenantAggregateRoot(&loc.TenantAggregateRoot)
	return loc
}

// LocationModelFromDomain builds a persistence model from a domain Location.
func LocationModelFromDomain(l *location.Location) *LocationModel {
	m := &LocationModel{
		ParentLocationID: l.ParentLocationID,
		Code:             l.Code,
		Name:             l.Name,
		Barcode:          l.Barcode,
		LocationType:     string(l.LocationType),
		Zone:             l.Coordinates.Zone,
		Aisle:            l.Coordinates.Aisle,
		Rack:             l.Coordinates.Rack,
		Level:            l.Coordinates.Level,
		Status:           string(l.Status),
		CapacityCurrent:  l.Capacity.Current,
		CapacityMaximum:  l.Capacity.Maximum,
		Description:      l.Description,
	}
	m.FromDomainTenantAggregateRoot(l.TenantAggregateRoot)
	return m
}
