// Package security provides authorization and tenant data scoping.
package security

import (
	"context"
	"fmt"

	"billhub/internal/core/apperror"
	appctx "billhub/internal/core/context"
)

// Role defines the actor roles in the system.
type Role string

const (
	// RolePlatformSuperAdmin has unrestricted visibility and mutation across all tenants.
	RolePlatformSuperAdmin Role = "platform_super_admin"

	// RoleTenantAdmin manages records within their own tenant.
	RoleTenantAdmin Role = "tenant_admin"

	// RoleTenantUser works with records within their own tenant.
	RoleTenantUser Role = "tenant_user"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePlatformSuperAdmin, RoleTenantAdmin, RoleTenantUser:
		return Role(s), nil
	}
	return "", apperror.NewValidation("unknown role").WithDetail("role", s)
}

// AccessScope defines the boundaries of data visibility for the current request.
// It is applied twice: at the query boundary (repositories add a tenant predicate)
// and defensively on result sets (FilterVisible), so a permissive fallback query
// can never leak another tenant's records.
type AccessScope struct {
	// UserID is the authenticated user
	UserID string

	// TenantID is the actor's owning tenant (from JWT)
	TenantID string

	// Role governs cross-tenant access
	Role Role
}

// NewAccessScope creates AccessScope from context.
func NewAccessScope(ctx context.Context) *AccessScope {
	user := appctx.GetUser(ctx)
	if user == nil {
		return &AccessScope{Role: RoleTenantUser}
	}

	return &AccessScope{
		UserID:   user.UserID,
		TenantID: user.TenantID,
		Role:     Role(user.Role),
	}
}

// IsSuperAdmin reports whether the actor bypasses tenant filtering.
func (s *AccessScope) IsSuperAdmin() bool {
	return s.Role == RolePlatformSuperAdmin
}

// CanAccess checks if the actor may see or act on a record owned by tenantID.
func (s *AccessScope) CanAccess(tenantID string) bool {
	if s.IsSuperAdmin() {
		return true
	}
	return s.TenantID != "" && s.TenantID == tenantID
}

// RequireAccess returns Forbidden if the record's tenant is outside the scope.
func (s *AccessScope) RequireAccess(tenantID string) error {
	if !s.CanAccess(tenantID) {
		return apperror.NewForbidden("record belongs to another tenant").
			WithDetail("tenant_id", tenantID)
	}
	return nil
}

// RequireRole returns Forbidden unless the actor holds one of the given roles.
func (s *AccessScope) RequireRole(roles ...Role) error {
	for _, r := range roles {
		if s.Role == r {
			return nil
		}
	}
	return apperror.NewForbidden(fmt.Sprintf("role %s is not permitted for this operation", s.Role)).
		WithDetail("required_roles", roles)
}

// TenantOwned is implemented by every record carrying a tenant ownership tag.
type TenantOwned interface {
	OwnerTenantID() string
}

// FilterVisible re-applies tenant scoping to a result set.
// Repositories already filter at the query boundary; this second pass is kept
// deliberately so a query-layer bug cannot widen visibility.
func FilterVisible[T TenantOwned](scope *AccessScope, items []T) []T {
	if scope.IsSuperAdmin() {
		return items
	}

	visible := make([]T, 0, len(items))
	for _, item := range items {
		if scope.CanAccess(item.OwnerTenantID()) {
			visible = append(visible, item)
		}
	}
	return visible
}

// UserRecord is a TenantOwned record that may belong to the platform operator.
type UserRecord interface {
	TenantOwned
	IsPlatformOwned() bool
}

// FilterUserRecords applies tenant scoping plus the platform-account rule:
// user records owned by the platform super admin are hidden from non-super
// actors regardless of tenant match.
func FilterUserRecords[T UserRecord](scope *AccessScope, items []T) []T {
	if scope.IsSuperAdmin() {
		return items
	}

	visible := make([]T, 0, len(items))
	for _, item := range items {
		if item.IsPlatformOwned() {
			continue
		}
		if scope.CanAccess(item.OwnerTenantID()) {
			visible = append(visible, item)
		}
	}
	return visible
}

// --- Context-based scope access ---

type scopeKey struct{}

// WithScope adds AccessScope to context.
func WithScope(ctx context.Context, scope *AccessScope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// GetScope returns AccessScope from context.
func GetScope(ctx context.Context) *AccessScope {
	if v, ok := ctx.Value(scopeKey{}).(*AccessScope); ok {
		return v
	}
	return NewAccessScope(ctx)
}
