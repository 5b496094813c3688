package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/restock"
)

// RestockRequestModel is the persistence model for the RestockRequest
// aggregate.
type RestockRequestModel struct {
	TenantAggregateModel
	ProductID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	LocationID        *uuid.UUID `gorm:"type:uuid;index"`
	CurrentQuantity   int        `gorm:"not null"`
	MinimumQuantity   int        `gorm:"not null"`
	MaximumQuantity   *int
	RequestedQuantity int       `gorm:"not null"`
	Priority          string    `gorm:"type:varchar(10);not null;index"`
	Status            string    `gorm:"type:varchar(20);not null;index"`
	SentAt            *time.Time
	OrderReference    string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM.
func (RestockRequestModel) TableName() string {
	return "restock_requests"
}

// ToDomain converts the persistence model to a domain RestockRequest.
func (m *RestockRequestModel) ToDomain() *restock.RestockRequest {
	r := &restock.RestockRequest{
		ProductID:         m.ProductID,
		LocationID:        m.LocationID,
		CurrentQuantity:   m.CurrentQuantity,
		MinimumQuantity:   m.MinimumQuantity,
		MaximumQuantity:   m.MaximumQuantity,
		RequestedQuantity: m.RequestedQuantity,
		Priority:          restock.Priority(m.Priority),
		Status:            restock.Status(m.Status),
		SentAt:            m.SentAt,
		OrderReference:    m.OrderReference,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// RestockRequestModelFromDomain builds a persistence model from a domain
// RestockRequest.
func RestockRequestModelFromDomain(r *restock.RestockRequest) *RestockRequestModel {
	m := &RestockRequestModel{
		ProductID:         r.ProductID,
		LocationID:        r.LocationID,
		CurrentQuantity:   r.CurrentQuantity,
		MinimumQuantity:   r.MinimumQuantity,
		MaximumQuantity:   r.MaximumQuantity,
		RequestedQuantity: r.RequestedQuantity,
		Priority:          string(r.Priority),
		Status:            string(r.Status),
		SentAt:            r.SentAt,
		OrderReference:    r.OrderReference,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}
