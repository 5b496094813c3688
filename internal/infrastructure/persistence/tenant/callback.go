package tenant

import (
	"gorm.io/gorm"
)

// TenantCallback is a GORM safety net that refuses to execute a statement
// against a tenant-owned table unless a search_path switch has already run
// on the session (via TenantDB.WithContext/WithSchema/Transaction). It does
// not itself add any filter; schema isolation already scopes every table
// lookup, this callback only catches repository code that forgot to scope
// its *gorm.DB in the first place.
type TenantCallback struct {
	required  bool
	skipTable map[string]bool
}

// NewTenantCallback creates a callback handler. skipTables lists tables that
// intentionally live outside any tenant schema (the public tenant registry,
// migration bookkeeping, the outbox dispatcher cursor, etc).
func NewTenantCallback(required bool, skipTables ...string) *TenantCallback {
	skip := make(map[string]bool, len(skipTables))
	for _, t := range skipTables {
		skip[t] = true
	}
	return &TenantCallback{required: required, skipTable: skip}
}

// RegisterCallbacks registers the safety-net callback with GORM.
func (tc *TenantCallback) RegisterCallbacks(db *gorm.DB) {
	_ = db.Callback().Query().Before("gorm:query").Register("tenant:require_schema_query", tc.check)
	_ = db.Callback().Update().Before("gorm:update").Register("tenant:require_schema_update", tc.check)
	_ = db.Callback().Delete().Before("gorm:delete").Register("tenant:require_schema_delete", tc.check)
	_ = db.Callback().Create().Before("gorm:create").Register("tenant:require_schema_create", tc.check)
	_ = db.Callback().Row().Before("gorm:row").Register("tenant:require_schema_row", tc.check)
}

func (tc *TenantCallback) check(db *gorm.DB) {
	if !tc.required || db.Statement.Unscoped {
		return
	}
	table := db.Statement.Table
	if table == "" && db.Statement.Schema != nil {
		table = db.Statement.Schema.Table
	}
	if tc.skipTable[table] {
		return
	}
	if _, ok := db.Get(schemaAppliedKey); ok {
		return
	}
	_ = db.AddError(ErrTenantIDRequired)
}

// EnableSchemaGuard registers the safety-net callback on a GORM DB instance.
func EnableSchemaGuard(db *gorm.DB, skipTables ...string) {
	NewTenantCallback(true, skipTables...).RegisterCallbacks(db)
}

// DisableSchemaGuard removes the safety-net callbacks (testing only).
func DisableSchemaGuard(db *gorm.DB) {
	_ = db.Callback().Query().Remove("tenant:require_schema_query")
	_ = db.Callback().Update().Remove("tenant:require_schema_update")
	_ = db.Callback().Delete().Remove("tenant:require_schema_delete")
	_ = db.Callback().Create().Remove("tenant:require_schema_create")
	_ = db.Callback().Row().Remove("tenant:require_schema_row")
}
