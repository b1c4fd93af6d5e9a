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
	"gorm.io/gorm/clause"
)

type estimateRepository struct {
	db *gorm.DB
}

// NewEstimateRepository creates a new estimate repository
func NewEstimateRepository(db *gorm.DB) domainRepo.EstimateRepository {
	return &estimateRepository{db: db}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *estimateRepository) Create(ctx context.Context, estimate *entity.Estimate) error {
	return r.db.WithContext(ctx).Omit("Client").Create(estimate).Error
}

func (r *estimateRepository) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Estimate, error) {
	var estimate entity.Estimate
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(scope)).
		Preload("LineItems", byPosition).
		Preload("Client").
		First(&estimate, "id = ?", id).Error
	return notFound(&estimate, err)
}

func (r *estimateRepository) Update(ctx context.Context, estimate *entity.Estimate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(estimate).Error; err != nil {
			return err
		}
		if err := tx.Where("estimate_id = ?", estimate.ID).Delete(&entity.EstimateLineItem{}).Error; err != nil {
			return err
		}
		if len(estimate.LineItems) == 0 {
			return nil
		}
		for i := range estimate.LineItems {
			estimate.LineItems[i].ID = uuid.Nil
			estimate.LineItems[i].EstimateID = estimate.ID
		}
		return tx.Create(&estimate.LineItems).Error
	})
}

func (r *estimateRepository) UpdateStatus(ctx context.Context, scope tenancy.Scope, id uuid.UUID, status enum.EstimateStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Estimate{}).
		Scopes(TenantScope(scope)).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *estimateRepository) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(TenantScope(scope)).Delete(&entity.Estimate{}, "id = ?", id)
		if result.Error != nil || result.RowsAffected == 0 {
			return result.Error
		}
		return tx.Where("estimate_id = ?", id).Delete(&entity.EstimateLineItem{}).Error
	})
}

func (r *estimateRepository) List(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, filter domainRepo.EstimateFilter) ([]entity.Estimate, int64, error) {
	var estimates []entity.Estimate
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Estimate{}).Scopes(TenantScope(scope))
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.
		Preload("LineItems", byPosition).
		Preload("Client").
		Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&estimates).Error

	return estimates, total, err
}

func (r *estimateRepository) ConvertToJob(ctx context.Context, estimate *entity.Estimate, job *entity.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Client", "Property", "Visits").Create(job).Error; err != nil {
			return err
		}
		estimate.JobID = &job.ID
		estimate.Status = enum.EstimateStatusAccepted
		return tx.Model(&entity.Estimate{}).
			Where("id = ? AND tenant_id = ?", estimate.ID, estimate.TenantID).
			Updates(map[string]interface{}{"job_id": job.ID, "status": estimate.Status}).Error
	})
}
