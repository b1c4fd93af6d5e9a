package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/pkg/pagination"
)

// TenantRepository defines the interface for tenant data operations
type TenantRepository interface {
	// Register creates the owner, the tenant and the owner membership in one transaction
	Register(ctx context.Context, owner *entity.User, tenant *entity.Tenant) error

	// Create creates a tenant and its owner membership for an existing user
	Create(ctx context.Context, tenant *entity.Tenant) error

	GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error)

	// GetBySlug retrieves a tenant by slug (subdomain identifier)
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)

	Update(ctx context.Context, tenant *entity.Tenant) error

	// SlugExists checks if a slug is already taken
	SlugExists(ctx context.Context, slug string) (bool, error)

	// GetUserTenants retrieves all tenants a user belongs to
	GetUserTenants(ctx context.Context, userID uuid.UUID) ([]entity.Tenant, error)

	AddMember(ctx context.Context, membership *entity.TenantMembership) error
	RemoveMember(ctx context.Context, tenantID, userID uuid.UUID) error

	// GetMembers retrieves all members of a tenant with user details
	GetMembers(ctx context.Context, tenantID uuid.UUID) ([]entity.TenantMembership, error)

	// GetMembership returns nil, nil when the user is not a member
	GetMembership(ctx context.Context, tenantID, userID uuid.UUID) (*entity.TenantMembership, error)

	UpdateMemberRole(ctx context.Context, tenantID, userID uuid.UUID, role string) error

	// ListAll retrieves all tenants (for super admin use)
	ListAll(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Tenant, int64, error)
}
