package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	domainRepo "github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/pagination"
	"gorm.io/gorm"
)

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) domainRepo.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Omit("Properties").Create(client).Error
}

func (r *clientRepository) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Client, error) {
	var client entity.Client
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(scope)).
		Preload("Properties", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&client, "id = ?", id).Error
	return notFound(&client, err)
}

func (r *clientRepository) Update(ctx context.Context, client *entity.Client) error {
	return r.db.WithContext(ctx).Omit("Properties").Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(TenantScope(scope)).Where("client_id = ?", id).Delete(&entity.Property{}).Error; err != nil {
			return err
		}
		return tx.Scopes(TenantScope(scope)).Delete(&entity.Client{}, "id = ?", id).Error
	})
}

func (r *clientRepository) List(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, search string) ([]entity.Client, int64, error) {
	var clients []entity.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Client{}).
		Scopes(TenantScope(scope), Search(search, "name", "company_name", "CAST(emails AS TEXT)", "CAST(phones AS TEXT)"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&clients).Error

	return clients, total, err
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *gorm.DB) domainRepo.PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, property *entity.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *propertyRepository) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Property, error) {
	var property entity.Property
	err := r.db.WithContext(ctx).Scopes(TenantScope(scope)).First(&property, "id = ?", id).Error
	return notFound(&property, err)
}

func (r *propertyRepository) Update(ctx context.Context, property *entity.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

func (r *propertyRepository) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(scope)).Delete(&entity.Property{}, "id = ?", id).Error
}

func (r *propertyRepository) ListByClient(ctx context.Context, scope tenancy.Scope, clientID uuid.UUID) ([]entity.Property, error) {
	var properties []entity.Property
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(scope)).
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		Find(&properties).Error
	return properties, err
}

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) domainRepo.LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *leadRepository) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Lead, error) {
	var lead entity.Lead
	err := r.db.WithContext(ctx).Scopes(TenantScope(scope)).First(&lead, "id = ?", id).Error
	return notFound(&lead, err)
}

func (r *leadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

func (r *leadRepository) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(scope)).Delete(&entity.Lead{}, "id = ?", id).Error
}

func (r *leadRepository) List(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, filter domainRepo.LeadFilter) ([]entity.Lead, int64, error) {
	var leads []entity.Lead
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Lead{}).
		Scopes(TenantScope(scope), Search(filter.Search, "name", "email", "phone"))
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&leads).Error

	return leads, total, err
}

func (r *leadRepository) Convert(ctx context.Context, lead *entity.Lead, client *entity.Client, property *entity.Property) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Properties").Create(client).Error; err != nil {
			return err
		}
		if property != nil {
			property.ClientID = client.ID
			if err := tx.Create(property).Error; err != nil {
				return err
			}
		}
		lead.ClientID = &client.ID
		lead.Status = enum.LeadStatusConverted
		return tx.Save(lead).Error
	})
}
