package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	domainRepo "github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/pkg/pagination"
	"gorm.io/gorm"
)

type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) domainRepo.TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) Register(ctx context.Context, owner *entity.User, tenant *entity.Tenant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Roles").Create(owner).Error; err != nil {
			return err
		}
		if err := assignRole(tx, owner.ID, entity.RoleUser); err != nil {
			return err
		}
		tenant.OwnerID = owner.ID
		return createTenant(tx, tenant)
	})
}

func (r *tenantRepository) Create(ctx context.Context, tenant *entity.Tenant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createTenant(tx, tenant)
	})
}

func createTenant(tx *gorm.DB, tenant *entity.Tenant) error {
	if err := tx.Omit("Members").Create(tenant).Error; err != nil {
		return err
	}
	return tx.Create(&entity.TenantMembership{
		TenantID: tenant.ID,
		UserID:   tenant.OwnerID,
		Role:     entity.MembershipRoleOwner,
	}).Error
}

func (r *tenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	var tenant entity.Tenant
	return notFound(&tenant, r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error)
}

func (r *tenantRepository) GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	var tenant entity.Tenant
	return notFound(&tenant, r.db.WithContext(ctx).First(&tenant, "slug = ?", slug).Error)
}

func (r *tenantRepository) Update(ctx context.Context, tenant *entity.Tenant) error {
	return r.db.WithContext(ctx).Omit("Members").Save(tenant).Error
}

func (r *tenantRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&entity.Tenant{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *tenantRepository) GetUserTenants(ctx context.Context, userID uuid.UUID) ([]entity.Tenant, error) {
	var tenants []entity.Tenant
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Model(&entity.TenantMembership{}).Select("tenant_id").Where("user_id = ?", userID)).
		Order("name ASC").
		Find(&tenants).Error
	return tenants, err
}

func (r *tenantRepository) AddMember(ctx context.Context, membership *entity.TenantMembership) error {
	return r.db.WithContext(ctx).Omit("User").Create(membership).Error
}

func (r *tenantRepository) RemoveMember(ctx context.Context, tenantID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Delete(&entity.TenantMembership{}).Error
}

func (r *tenantRepository) GetMembers(ctx context.Context, tenantID uuid.UUID) ([]entity.TenantMembership, error) {
	var members []entity.TenantMembership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].PopulateUserDetails()
	}
	return members, nil
}

func (r *tenantRepository) GetMembership(ctx context.Context, tenantID, userID uuid.UUID) (*entity.TenantMembership, error) {
	var membership entity.TenantMembership
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&membership).Error
	return notFound(&membership, err)
}

func (r *tenantRepository) UpdateMemberRole(ctx context.Context, tenantID, userID uuid.UUID, role string) error {
	return r.db.WithContext(ctx).
		Model(&entity.TenantMembership{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Update("role", role).Error
}

func (r *tenantRepository) ListAll(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Tenant, int64, error) {
	var tenants []entity.Tenant
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Tenant{}).Scopes(Search(search, "name", "slug"))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&tenants).Error

	return tenants, total, err
}

// assignRole attaches the named platform role, creating it on first use
func assignRole(tx *gorm.DB, userID uuid.UUID, name string) error {
	var role entity.Role
	if err := tx.Where(entity.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
		return err
	}
	return tx.Model(&entity.User{ID: userID}).Association("Roles").Append(&role)
}
