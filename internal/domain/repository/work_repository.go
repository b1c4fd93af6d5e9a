package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/pagination"
)

// EstimateFilter narrows estimate listings
type EstimateFilter struct {
	Status   *enum.EstimateStatus
	ClientID *uuid.UUID
}

// EstimateRepository defines the interface for estimate data operations.
// Create and Update write the header and its line items together.
type EstimateRepository interface {
	Create(ctx context.Context, estimate *entity.Estimate) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Estimate, error)
	Update(ctx context.Context, estimate *entity.Estimate) error
	UpdateStatus(ctx context.Context, scope tenancy.Scope, id uuid.UUID, status enum.EstimateStatus) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, filter EstimateFilter) ([]entity.Estimate, int64, error)

	// ConvertToJob stores the job and links the estimate to it atomically
	ConvertToJob(ctx context.Context, estimate *entity.Estimate, job *entity.Job) error
}

// JobFilter narrows job listings
type JobFilter struct {
	Status   *enum.JobStatus
	ClientID *uuid.UUID
	From     *time.Time
	To       *time.Time
}

// JobRepository defines the interface for job and visit data operations
type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Job, error)
	Update(ctx context.Context, job *entity.Job) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, filter JobFilter) ([]entity.Job, int64, error)

	AddVisit(ctx context.Context, visit *entity.JobVisit) error
	GetVisit(ctx context.Context, scope tenancy.Scope, jobID, visitID uuid.UUID) (*entity.JobVisit, error)
	UpdateVisit(ctx context.Context, visit *entity.JobVisit) error
	ListVisits(ctx context.Context, scope tenancy.Scope, from, to time.Time) ([]entity.JobVisit, error)
}
