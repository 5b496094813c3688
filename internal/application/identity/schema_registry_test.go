package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/domain/shared"
)

type mockTenantRepo struct {
	bySlug map[string]identity.Tenant
}

func newMockTenantRepo() *mockTenantRepo {
	return &mockTenantRepo{bySlug: make(map[string]identity.Tenant)}
}

func (m *mockTenantRepo) FindActive(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	var out []identity.Tenant
	for _, t := range m.bySlug {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	for _, t := range m.bySlug {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, nil
}

func (m *mockTenantRepo) FindBySlug(ctx context.Context, slug string) (*identity.Tenant, error) {
	if t, ok := m.bySlug[slug]; ok {
		return &t, nil
	}
	return nil, nil
}

func (m *mockTenantRepo) Save(ctx context.Context, t identity.Tenant) error {
	m.bySlug[t.Slug] = t
	return nil
}

func TestSchemaRegistry_Provision_RejectsInvalidSlug(t *testing.T) {
	repo := newMockTenantRepo()
	reg := NewSchemaRegistry(nil, repo, "migrations/tenant", zap.NewNop())

	_, err := reg.Provision(context.Background(), "")
	require.Error(t, err)

	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
}

func TestSchemaRegistry_Provision_RejectsDuplicateSlug(t *testing.T) {
	repo := newMockTenantRepo()
	existing := identity.Tenant{ID: uuid.New(), Slug: "acme", SchemaName: "tenant_acme_schema", IsActive: true}
	require.NoError(t, repo.Save(context.Background(), existing))

	reg := NewSchemaRegistry(nil, repo, "migrations/tenant", zap.NewNop())

	_, err := reg.Provision(context.Background(), "acme")
	require.Error(t, err)

	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, shared.CodeConflict, domainErr.Code)
}

func TestSchemaRegistry_Deactivate_NotFound(t *testing.T) {
	repo := newMockTenantRepo()
	reg := NewSchemaRegistry(nil, repo, "migrations/tenant", zap.NewNop())

	err := reg.Deactivate(context.Background(), "missing")
	require.Error(t, err)

	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, shared.CodeNotFound, domainErr.Code)
}
