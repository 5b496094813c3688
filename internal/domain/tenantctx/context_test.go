package tenantctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("returns false when absent", func(t *testing.T) {
		_, ok := FromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("round trips through WithContext", func(t *testing.T) {
		tc := TenantContext{TenantID: uuid.New(), UserID: uuid.New(), Roles: []string{"warehouse_operator"}}
		ctx := WithContext(context.Background(), tc)
		got, ok := FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, tc, got)
	})
}

func TestHasRole(t *testing.T) {
	tc := TenantContext{Roles: []string{"admin", "picker"}}
	assert.True(t, tc.HasRole("admin"))
	assert.False(t, tc.HasRole("auditor"))
}

func TestRequire(t *testing.T) {
	t.Run("fails without a tenant context", func(t *testing.T) {
		_, err := Require(context.Background())
		require.Error(t, err)
	})

	t.Run("succeeds when set", func(t *testing.T) {
		tc := TenantContext{TenantID: uuid.New()}
		ctx := WithContext(context.Background(), tc)
		got, err := Require(ctx)
		require.NoError(t, err)
		assert.Equal(t, tc.TenantID, got.TenantID)
	})
}

func TestCheckTenant(t *testing.T) {
	tid := uuid.New()
	tc := TenantContext{TenantID: tid}

	t.Run("passes when tenants match", func(t *testing.T) {
		assert.NoError(t, CheckTenant(tc, tid))
	})

	t.Run("fails when tenants differ", func(t *testing.T) {
		err := CheckTenant(tc, uuid.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tenant")
	})
}

func TestRequireAndCheck(t *testing.T) {
	tid := uuid.New()
	tc := TenantContext{TenantID: tid, UserID: uuid.New()}
	ctx := WithContext(context.Background(), tc)

	t.Run("succeeds for matching tenant", func(t *testing.T) {
		got, err := RequireAndCheck(ctx, tid)
		require.NoError(t, err)
		assert.Equal(t, tid, got.TenantID)
	})

	t.Run("fails for mismatched tenant", func(t *testing.T) {
		_, err := RequireAndCheck(ctx, uuid.New())
		require.Error(t, err)
	})

	t.Run("fails when no tenant context present", func(t *testing.T) {
		_, err := RequireAndCheck(context.Background(), tid)
		require.Error(t, err)
	})
}
