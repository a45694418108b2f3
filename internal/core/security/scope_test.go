package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type ownedRecord struct {
	tenantID string
}

func (r ownedRecord) OwnerTenantID() string { return r.tenantID }

type userRecord struct {
	tenantID      string
	platformOwned bool
}

func (r userRecord) OwnerTenantID() string { return r.tenantID }
func (r userRecord) IsPlatformOwned() bool { return r.platformOwned }

func TestAccessScope_CanAccess(t *testing.T) {
	tests := []struct {
		name     string
		scope    AccessScope
		tenantID string
		want     bool
	}{
		{"super admin any tenant", AccessScope{Role: RolePlatformSuperAdmin, TenantID: "B1"}, "B2", true},
		{"tenant admin own tenant", AccessScope{Role: RoleTenantAdmin, TenantID: "B1"}, "B1", true},
		{"tenant admin other tenant", AccessScope{Role: RoleTenantAdmin, TenantID: "B1"}, "B2", false},
		{"tenant user other tenant", AccessScope{Role: RoleTenantUser, TenantID: "B1"}, "B2", false},
		{"empty tenant never matches", AccessScope{Role: RoleTenantUser}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.CanAccess(tt.tenantID))
		})
	}
}

// Feeding a mixed-tenant result set directly into the filter must strip every
// foreign record, even when the underlying query was unfiltered.
func TestFilterVisible_MixedTenants(t *testing.T) {
	scope := &AccessScope{Role: RoleTenantUser, TenantID: "B1"}

	mixed := []ownedRecord{
		{tenantID: "B1"},
		{tenantID: "B2"},
		{tenantID: "B1"},
		{tenantID: "B3"},
	}

	visible := FilterVisible(scope, mixed)

	assert.Len(t, visible, 2)
	for _, r := range visible {
		assert.Equal(t, "B1", r.OwnerTenantID())
	}
}

func TestFilterVisible_SuperAdminSeesAll(t *testing.T) {
	scope := &AccessScope{Role: RolePlatformSuperAdmin, TenantID: "B1"}

	mixed := []ownedRecord{{tenantID: "B1"}, {tenantID: "B2"}}
	assert.Len(t, FilterVisible(scope, mixed), 2)
}

func TestFilterUserRecords_HidesPlatformAccounts(t *testing.T) {
	scope := &AccessScope{Role: RoleTenantAdmin, TenantID: "B1"}

	users := []userRecord{
		{tenantID: "B1"},
		{tenantID: "B1", platformOwned: true}, // hidden despite tenant match
		{tenantID: "B2"},
	}

	visible := FilterUserRecords(scope, users)

	assert.Len(t, visible, 1)
	assert.False(t, visible[0].IsPlatformOwned())
	assert.Equal(t, "B1", visible[0].OwnerTenantID())
}

func TestFilterUserRecords_SuperAdminSeesPlatformAccounts(t *testing.T) {
	scope := &AccessScope{Role: RolePlatformSuperAdmin}

	users := []userRecord{
		{tenantID: "B1", platformOwned: true},
		{tenantID: "B2"},
	}
	assert.Len(t, FilterUserRecords(scope, users), 2)
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"platform_super_admin", "tenant_admin", "tenant_user"} {
		_, err := ParseRole(valid)
		assert.NoError(t, err)
	}

	_, err := ParseRole("root")
	assert.Error(t, err)
}
