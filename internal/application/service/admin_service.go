package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/sangkips/cleanops-api/pkg/logger"
	"github.com/sangkips/cleanops-api/pkg/pagination"
	"go.uber.org/zap"
)

// AdminService handles super-admin operations across tenants. Callers are
// checked for the super-admin role by the router.
type AdminService struct {
	tenantRepo    repository.TenantRepository
	userRepo      repository.UserRepository
	analyticsRepo repository.AnalyticsRepository
}

// NewAdminService creates a new admin service
func NewAdminService(
	tenantRepo repository.TenantRepository,
	userRepo repository.UserRepository,
	analyticsRepo repository.AnalyticsRepository,
) *AdminService {
	return &AdminService{
		tenantRepo:    tenantRepo,
		userRepo:      userRepo,
		analyticsRepo: analyticsRepo,
	}
}

// GetPlatformStats returns row counts across every tenant
func (s *AdminService) GetPlatformStats(ctx context.Context) (*repository.PlatformStats, error) {
	return s.analyticsRepo.PlatformStats(ctx)
}

// ListTenants returns a paginated list of all tenants
func (s *AdminService) ListTenants(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Tenant], error) {
	params.Validate()

	tenants, total, err := s.tenantRepo.ListAll(ctx, params, search)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(tenants, p), nil
}

// SetTenantActive suspends or reactivates a tenant. Suspended tenants cannot
// be resolved by the tenant middleware.
func (s *AdminService) SetTenantActive(ctx context.Context, tenantID uuid.UUID, active bool) (*entity.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}

	tenant.Active = active
	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("tenant activation changed",
		zap.String("tenant_id", tenant.ID.String()),
		zap.Bool("active", active),
	)
	return tenant, nil
}

// AssignUserInput represents the input for assigning a user to a tenant
type AssignUserInput struct {
	TenantID uuid.UUID
	Email    string
	Role     string
}

// AssignUserToTenant adds an existing user to a tenant, or changes their
// role when they are already a member
func (s *AdminService) AssignUserToTenant(ctx context.Context, input *AssignUserInput) (*entity.TenantMembership, error) {
	role := input.Role
	if role == "" {
		role = entity.MembershipRoleMember
	}
	if !entity.ValidMembershipRole(role) {
		return nil, apperror.Invalid("role", "must be admin or member")
	}

	tenant, err := s.tenantRepo.GetByID(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	membership, err := s.tenantRepo.GetMembership(ctx, tenant.ID, user.ID)
	if err != nil {
		return nil, err
	}

	switch {
	case membership == nil:
		membership = &entity.TenantMembership{TenantID: tenant.ID, UserID: user.ID, Role: role}
		if err := s.tenantRepo.AddMember(ctx, membership); err != nil {
			return nil, err
		}
	case membership.Role == entity.MembershipRoleOwner:
		return nil, apperror.NewBadRequestError("Cannot change the role of the tenant owner")
	default:
		if err := s.tenantRepo.UpdateMemberRole(ctx, tenant.ID, user.ID, role); err != nil {
			return nil, err
		}
		membership.Role = role
	}

	membership.User = *user
	membership.PopulateUserDetails()
	return membership, nil
}

// GrantSuperAdmin gives a user the platform super-admin role
func (s *AdminService) GrantSuperAdmin(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	if user.IsSuperAdmin() {
		return user, nil
	}

	if err := s.userRepo.AssignRole(ctx, user.ID, entity.RoleSuperAdmin); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, user.ID)
}
