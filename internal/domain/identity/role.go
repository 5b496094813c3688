// Package identity models the role/data-scope shape the Tenant Context's
// security collaborator hands to the core: a security context carrying
// tenantId, userId, and roles. Issuance and validation of the underlying
// token stay out of scope; this package only gives that payload a concrete
// Go shape so the data-scope query filter and
// the tenant-registry scheduler have something to operate on.
package identity

import "fmt"

// DataScopeType enumerates how a role restricts the rows it can see.
type DataScopeType string

const (
	// DataScopeAll grants unrestricted access within the tenant.
	DataScopeAll DataScopeType = "ALL"
	// DataScopeSelf restricts to rows created by the current user.
	DataScopeSelf DataScopeType = "SELF"
	// DataScopeDepartment restricts to the user's department (not modeled
	// further in this core; falls back to SELF, see datascope.Filter).
	DataScopeDepartment DataScopeType = "DEPARTMENT"
	// DataScopeWarehouse restricts to an explicit set of warehouse (root
	// Location) IDs the user has been assigned.
	DataScopeWarehouse DataScopeType = "WAREHOUSE"
	// DataScopeCustom restricts by an arbitrary whitelisted field/value set.
	DataScopeCustom DataScopeType = "CUSTOM"
)

// DataScope binds a scope type to the resource it restricts.
type DataScope struct {
	Resource    string
	ScopeType   DataScopeType
	ScopeField  string
	ScopeValues []string
}

// NewWarehouseDataScope creates a WAREHOUSE-scoped DataScope restricting
// access to the given warehouse (root Location) IDs.
func NewWarehouseDataScope(resource string, warehouseIDs []string) (*DataScope, error) {
	if len(warehouseIDs) == 0 {
		return nil, fmt.Errorf("at least one warehouse id is required")
	}
	return &DataScope{
		Resource:    resource,
		ScopeType:   DataScopeWarehouse,
		ScopeField:  "warehouse_id",
		ScopeValues: warehouseIDs,
	}, nil
}

// Role is the shape of a resolved role as handed to the core by the
// authentication/authorization collaborator.
type Role struct {
	Name       string
	IsEnabled  bool
	DataScopes []DataScope
}
