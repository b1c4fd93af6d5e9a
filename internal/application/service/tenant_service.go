package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/pricing"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// TenantService handles the current business and its team
type TenantService struct {
	tenantRepo repository.TenantRepository
	userRepo   repository.UserRepository
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo repository.TenantRepository, userRepo repository.UserRepository) *TenantService {
	return &TenantService{tenantRepo: tenantRepo, userRepo: userRepo}
}

// Access is the outcome of resolving a tenant for a request
type Access struct {
	Tenant     *entity.Tenant
	Membership *entity.TenantMembership
	Scope      tenancy.Scope
}

// Resolve checks that the user may act inside the tenant identified by
// slug. Unknown or inactive tenants are not found; members of other tenants
// are forbidden. Super admins may enter any tenant.
func (s *TenantService) Resolve(ctx context.Context, slug string, userID uuid.UUID, superAdmin bool) (*Access, error) {
	tenant, err := s.tenantRepo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	if tenant == nil || !tenant.Active {
		return nil, apperror.NewNotFoundError("Tenant")
	}

	membership, err := s.tenantRepo.GetMembership(ctx, tenant.ID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil && !superAdmin {
		return nil, apperror.NewAppError(http.StatusForbidden, "You are not a member of this business")
	}

	scope := tenancy.ForTenant(tenant.ID, userID)
	scope.SuperAdmin = superAdmin
	return &Access{Tenant: tenant, Membership: membership, Scope: scope}, nil
}

// GetCurrent returns the tenant the scope is bound to
func (s *TenantService) GetCurrent(ctx context.Context, scope tenancy.Scope) (*entity.Tenant, error) {
	tenantID, err := scope.Require()
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return tenant, nil
}

// GetUserTenants retrieves all tenants a user belongs to
func (s *TenantService) GetUserTenants(ctx context.Context, userID uuid.UUID) ([]entity.Tenant, error) {
	return s.tenantRepo.GetUserTenants(ctx, userID)
}

// UpdateTenantInput carries the editable business fields. Nil leaves a
// field unchanged.
type UpdateTenantInput struct {
	Name               *string
	Email              *string
	Phone              *string
	Currency           *string
	Timezone           *string
	DefaultTaxRate     *decimal.Decimal
	TaxLabel           *string
	InvoicePrefix      *string
	EstimatePrefix     *string
	JobPrefix          *string
	PaymentTermsDays   *int
	EmailNotifications *bool
	RotateIntakeToken  bool
}

// UpdateTenant updates the business profile and settings
func (s *TenantService) UpdateTenant(ctx context.Context, scope tenancy.Scope, input *UpdateTenantInput) (*entity.Tenant, error) {
	if err := s.requireManager(ctx, scope); err != nil {
		return nil, err
	}

	tenant, err := s.GetCurrent(ctx, scope)
	if err != nil {
		return nil, err
	}

	if input.DefaultTaxRate != nil && input.DefaultTaxRate.IsNegative() {
		return nil, apperror.Invalid("default_tax_rate", "must not be negative")
	}
	if input.DefaultTaxRate != nil && !pricing.Bounded(*input.DefaultTaxRate) {
		return nil, apperror.Invalid("default_tax_rate", outOfRange)
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		tenant.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		tenant.Email = input.Email
	}
	if input.Phone != nil {
		tenant.Phone = input.Phone
	}

	settings := &tenant.Settings
	setString(&settings.Currency, input.Currency)
	setString(&settings.Timezone, input.Timezone)
	setString(&settings.TaxLabel, input.TaxLabel)
	setString(&settings.InvoicePrefix, input.InvoicePrefix)
	setString(&settings.EstimatePrefix, input.EstimatePrefix)
	setString(&settings.JobPrefix, input.JobPrefix)
	if input.DefaultTaxRate != nil {
		settings.DefaultTaxRate = *input.DefaultTaxRate
	}
	if input.PaymentTermsDays != nil {
		settings.PaymentTermsDays = *input.PaymentTermsDays
	}
	if input.EmailNotifications != nil {
		settings.EmailNotifications = *input.EmailNotifications
	}
	if input.RotateIntakeToken || settings.IntakeFormToken == "" {
		settings.IntakeFormToken = randomToken()
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func setString(dst *string, src *string) {
	if src != nil && strings.TrimSpace(*src) != "" {
		*dst = strings.TrimSpace(*src)
	}
}

// GetMembers lists the team with user details
func (s *TenantService) GetMembers(ctx context.Context, scope tenancy.Scope) ([]entity.TenantMembership, error) {
	tenantID, err := scope.Require()
	if err != nil {
		return nil, err
	}

	members, err := s.tenantRepo.GetMembers(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	for i := range members {
		members[i].PopulateUserDetails()
	}
	return members, nil
}

// InviteMember adds an existing account to the team by email
func (s *TenantService) InviteMember(ctx context.Context, scope tenancy.Scope, emailAddr, role string) (*entity.TenantMembership, error) {
	if err := s.requireManager(ctx, scope); err != nil {
		return nil, err
	}
	if role == "" {
		role = entity.MembershipRoleMember
	}
	if !entity.ValidMembershipRole(role) {
		return nil, invalidRole()
	}

	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	existing, err := s.tenantRepo.GetMembership(ctx, scope.TenantID, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("User is already a member of this business")
	}

	membership := &entity.TenantMembership{
		TenantID: scope.TenantID,
		UserID:   user.ID,
		Role:     role,
	}
	if err := s.tenantRepo.AddMember(ctx, membership); err != nil {
		return nil, err
	}
	membership.User = *user
	membership.PopulateUserDetails()
	return membership, nil
}

// UpdateMemberRole changes a member's role. The owner's role is fixed.
func (s *TenantService) UpdateMemberRole(ctx context.Context, scope tenancy.Scope, userID uuid.UUID, role string) error {
	if err := s.requireManager(ctx, scope); err != nil {
		return err
	}
	if !entity.ValidMembershipRole(role) {
		return invalidRole()
	}

	target, err := s.member(ctx, scope, userID)
	if err != nil {
		return err
	}
	if target.Role == entity.MembershipRoleOwner {
		return apperror.NewBadRequestError("The owner's role cannot be changed")
	}

	return s.tenantRepo.UpdateMemberRole(ctx, scope.TenantID, userID, role)
}

// RemoveMember takes a user off the team. The owner cannot be removed.
func (s *TenantService) RemoveMember(ctx context.Context, scope tenancy.Scope, userID uuid.UUID) error {
	if err := s.requireManager(ctx, scope); err != nil {
		return err
	}

	target, err := s.member(ctx, scope, userID)
	if err != nil {
		return err
	}
	if target.Role == entity.MembershipRoleOwner {
		return apperror.NewBadRequestError("The owner cannot be removed")
	}

	return s.tenantRepo.RemoveMember(ctx, scope.TenantID, userID)
}

func (s *TenantService) member(ctx context.Context, scope tenancy.Scope, userID uuid.UUID) (*entity.TenantMembership, error) {
	membership, err := s.tenantRepo.GetMembership(ctx, scope.TenantID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, apperror.NewNotFoundError("Member")
	}
	return membership, nil
}

// requireManager allows owners, admins and platform super admins
func (s *TenantService) requireManager(ctx context.Context, scope tenancy.Scope) error {
	if _, err := scope.Require(); err != nil {
		return err
	}
	if scope.SuperAdmin {
		return nil
	}
	membership, err := s.tenantRepo.GetMembership(ctx, scope.TenantID, scope.UserID)
	if err != nil {
		return err
	}
	if membership == nil || !membership.CanManage() {
		return apperror.ErrForbidden
	}
	return nil
}

func invalidRole() error {
	return apperror.Invalid("role", "must be admin or member")
}
