package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "billhub/internal/core/context"
	"billhub/internal/domain"
	"billhub/internal/domain/catalogs/client"
	"billhub/internal/domain/documents/documenttest"
)

func tenantCtx(tenantID string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   "u1",
		TenantID: tenantID,
		Role:     "tenant_user",
	})
}

func newFixture() (*client.Service, *client.Client, *client.Client) {
	own := client.NewClient("B1", "Alice Thompson")
	foreign := client.NewClient("B2", "Foreign Client")
	repo := documenttest.NewFakeClientRepo(own, foreign)
	svc := client.NewService(repo, nil, documenttest.PassThroughTx{})
	return svc, own, foreign
}

// The fake repository returns every row regardless of tenant, standing in for
// a query-layer bug. The page must still come back scoped.
func TestList_FiltersForeignTenants(t *testing.T) {
	svc, _, _ := newFixture()

	result, err := svc.List(tenantCtx("B1"), domain.DefaultListFilter())
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "B1", result.Items[0].TenantID)
	assert.Equal(t, "Alice Thompson", result.Items[0].Name)
}

// The HTTP layer holds the embedded base service, so the re-filter must hold
// on that path too.
func TestListVisible_FiltersForeignTenants(t *testing.T) {
	svc, _, _ := newFixture()

	result, err := domain.ListVisible(tenantCtx("B1"), svc.CatalogService, domain.DefaultListFilter())
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "B1", result.Items[0].TenantID)
}

func TestList_SuperAdminSeesAllTenants(t *testing.T) {
	svc, _, _ := newFixture()

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: "root",
		Role:   "platform_super_admin",
	})

	result, err := svc.List(ctx, domain.DefaultListFilter())
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
}
