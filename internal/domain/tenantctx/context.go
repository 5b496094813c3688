// Package tenantctx models the ambient Tenant Context: every command
// operation is executed on behalf of a tenant, an actor user, and a set of
// roles. The source system carried this as thread-local state;
// here it is an explicit value threaded through every call site via
// context.Context, per the "cross-cutting tenant ambient value" design note.
package tenantctx

import (
	"context"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/google/uuid"
)

type contextKey string

const ctxKey contextKey = "wms:tenant_context"

// TenantContext carries the identity a command or query executes under.
type TenantContext struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Roles    []string
}

// HasRole returns true if the context carries the given role.
func (t TenantContext) HasRole(role string) bool {
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// WithContext returns a new context carrying the given TenantContext.
func WithContext(ctx context.Context, tc TenantContext) context.Context {
	return context.WithValue(ctx, ctxKey, tc)
}

// FromContext retrieves the TenantContext previously attached with WithContext.
// The second return value is false when no Tenant Context has been set.
func FromContext(ctx context.Context) (TenantContext, bool) {
	tc, ok := ctx.Value(ctxKey).(TenantContext)
	return tc, ok
}

// Require retrieves the TenantContext or returns a Validation error when
// none is present: every command rejects if no Tenant Context is set.
func Require(ctx context.Context) (TenantContext, error) {
	tc, ok := FromContext(ctx)
	if !ok {
		return TenantContext{}, shared.NewValidationError("tenant context is required")
	}
	return tc, nil
}

// CheckTenant verifies that the Tenant Context's tenant matches the tenant
// carried by an inbound command. A mismatch is unconditionally fatal to the
// request.
func CheckTenant(tc TenantContext, commandTenantID uuid.UUID) error {
	if tc.TenantID != commandTenantID {
		return shared.NewTenantMismatchError("tenant context does not match command tenant")
	}
	return nil
}

// RequireAndCheck combines Require and CheckTenant, the two validations every
// command handler must perform before touching a repository.
func RequireAndCheck(ctx context.Context, commandTenantID uuid.UUID) (TenantContext, error) {
	tc, err := Require(ctx)
	if err != nil {
		return TenantContext{}, err
	}
	if err := CheckTenant(tc, commandTenantID); err != nil {
		return TenantContext{}, err
	}
	return tc, nil
}
