package models

import (
	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/identity"
)

// TenantModel is the persistence model for the tenant registry. Rows live
// in the public schema and are read by every cross-tenant process (the
// tenant context bridge, the reclassification sweep, the outbox processor)
// to discover which tenant_<slug>_schema namespaces exist.
type TenantModel struct {
	BaseModel
	Slug       string `gorm:"type:varchar(100);uniqueIndex;not null"`
	SchemaName string `gorm:"type:varchar(120);uniqueIndex;not null"`
	IsActive   bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM.
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant.
func (m *TenantModel) ToDomain() identity.Tenant {
	return identity.Tenant{
		ID:         m.ID,
		Slug:       m.Slug,
		SchemaName: m.SchemaName,
		IsActive:   m.IsActive,
	}
}

// TenantModelFromDomain builds a persistence model from a domain Tenant.
func TenantModelFromDomain(t identity.Tenant) *TenantModel {
	m := &TenantModel{
		Slug:       t.Slug,
		SchemaName: t.SchemaName,
		IsActive:   t.IsActive,
	}
	m.ID = t.ID
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return m
}
