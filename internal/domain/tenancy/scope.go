// Package tenancy carries the organization a request acts on. A Scope is
// built once per request from the authenticated user and the resolved tenant,
// then passed by value to every service and repository call.
package tenancy

import (
	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/pkg/apperror"
)

// Scope identifies the tenant and user a call runs as
type Scope struct {
	TenantID   uuid.UUID
	UserID     uuid.UUID
	SuperAdmin bool
}

// ForTenant builds a scope for a member acting inside one tenant
func ForTenant(tenantID, userID uuid.UUID) Scope {
	return Scope{TenantID: tenantID, UserID: userID}
}

// Platform builds an unrestricted scope for super-admin operations
func Platform(userID uuid.UUID) Scope {
	return Scope{UserID: userID, SuperAdmin: true}
}

// HasTenant reports whether the scope is bound to a tenant
func (s Scope) HasTenant() bool {
	return s.TenantID != uuid.Nil
}

// Require returns the tenant id or ErrTenantRequired. Every write path calls
// this, including super admins, since each row must belong to one tenant.
func (s Scope) Require() (uuid.UUID, error) {
	if !s.HasTenant() {
		return uuid.Nil, apperror.ErrTenantRequired
	}
	return s.TenantID, nil
}

// Owns reports whether a row owned by tenantID is visible in this scope
func (s Scope) Owns(tenantID uuid.UUID) bool {
	if s.SuperAdmin && !s.HasTenant() {
		return true
	}
	return s.HasTenant() && s.TenantID == tenantID
}
