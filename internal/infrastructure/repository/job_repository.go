package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	domainRepo "github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) domainRepo.JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *entity.Job) error {
	return r.db.WithContext(ctx).Omit("Client", "Property").Create(job).Error
}

func (r *jobRepository) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Job, error) {
	var job entity.Job
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(scope)).
		Preload("LineItems", byPosition).
		Preload("Visits", func(db *gorm.DB) *gorm.DB { return db.Order("scheduled_at ASC") }).
		Preload("Client").
		Preload("Property").
		First(&job, "id = ?", id).Error
	return notFound(&job, err)
}

func (r *jobRepository) Update(ctx context.Context, job *entity.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(job).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", job.ID).Delete(&entity.JobLineItem{}).Error; err != nil {
			return err
		}
		if len(job.LineItems) == 0 {
			return nil
		}
		for i := range job.LineItems {
			job.LineItems[i].ID = uuid.Nil
			job.LineItems[i].JobID = job.ID
		}
		return tx.Create(&job.LineItems).Error
	})
}

func (r *jobRepository) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(TenantScope(scope)).Delete(&entity.Job{}, "id = ?", id)
		if result.Error != nil || result.RowsAffected == 0 {
			return result.Error
		}
		if err := tx.Where("job_id = ?", id).Delete(&entity.JobVisit{}).Error; err != nil {
			return err
		}
		return tx.Where("job_id = ?", id).Delete(&entity.JobLineItem{}).Error
	})
}

func (r *jobRepository) List(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, filter domainRepo.JobFilter) ([]entity.Job, int64, error) {
	var jobs []entity.Job
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Job{}).Scopes(TenantScope(scope))
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.From != nil {
		query = query.Where("scheduled_start >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("scheduled_start < ?", *filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.
		Preload("Client").
		Preload("LineItems", byPosition).
		Offset(params.Offset()).Limit(params.PerPage).
		Order("scheduled_start DESC, created_at DESC").
		Find(&jobs).Error

	return jobs, total, err
}

func (r *jobRepository) AddVisit(ctx context.Context, visit *entity.JobVisit) error {
	return r.db.WithContext(ctx).Create(visit).Error
}

func (r *jobRepository) GetVisit(ctx context.Context, scope tenancy.Scope, jobID, visitID uuid.UUID) (*entity.JobVisit, error) {
	var visit entity.JobVisit
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(scope)).
		First(&visit, "id = ? AND job_id = ?", visitID, jobID).Error
	return notFound(&visit, err)
}

func (r *jobRepository) UpdateVisit(ctx context.Context, visit *entity.JobVisit) error {
	return r.db.WithContext(ctx).Save(visit).Error
}

func (r *jobRepository) ListVisits(ctx context.Context, scope tenancy.Scope, from, to time.Time) ([]entity.JobVisit, error) {
	var visits []entity.JobVisit
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(scope)).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Order("scheduled_at ASC").
		Find(&visits).Error
	return visits, err
}
