package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/pricing"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/sangkips/cleanops-api/pkg/pagination"
	"github.com/sangkips/cleanops-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// EstimateService handles quotes and their conversion into jobs
type EstimateService struct {
	estimateRepo repository.EstimateRepository
	refs         documentRefs
	now          func() time.Time
}

// NewEstimateService creates a new estimate service
func NewEstimateService(
	estimateRepo repository.EstimateRepository,
	tenantRepo repository.TenantRepository,
	clientRepo repository.ClientRepository,
	propertyRepo repository.PropertyRepository,
) *EstimateService {
	return &EstimateService{
		estimateRepo: estimateRepo,
		refs:         documentRefs{tenantRepo: tenantRepo, clientRepo: clientRepo, propertyRepo: propertyRepo},
		now:          time.Now,
	}
}

// EstimateDetail is an estimate with its derived totals
type EstimateDetail struct {
	Estimate *entity.Estimate
	Pricing  pricing.Breakdown
}

func estimateDetail(e *entity.Estimate) *EstimateDetail {
	return &EstimateDetail{Estimate: e, Pricing: e.Pricing()}
}

// EstimateInput represents the create and update estimate input. A nil
// TaxRate takes the tenant's default.
type EstimateInput struct {
	ClientID   uuid.UUID
	PropertyID *uuid.UUID
	Title      string
	TaxRate    *decimal.Decimal
	ValidUntil *time.Time
	Notes      *string
	LineItems  []LineInput
}

// CreateEstimate creates a DRAFT estimate
func (s *EstimateService) CreateEstimate(ctx context.Context, scope tenancy.Scope, input *EstimateInput) (*EstimateDetail, error) {
	tenant, err := s.refs.tenant(ctx, scope)
	if err != nil {
		return nil, err
	}

	taxRate := tenant.Settings.DefaultTaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	lines, err := buildLines(input.LineItems, taxRate)
	if err != nil {
		return nil, err
	}

	client, err := s.refs.client(ctx, scope, input.ClientID)
	if err != nil {
		return nil, err
	}
	if err := s.refs.property(ctx, scope, client.ID, input.PropertyID); err != nil {
		return nil, err
	}

	estimate := &entity.Estimate{
		TenantID:   tenant.ID,
		Number:     utils.GenerateDocumentNo(tenant.Settings.EstimatePrefix, s.now()),
		ClientID:   client.ID,
		PropertyID: input.PropertyID,
		Title:      strings.TrimSpace(input.Title),
		Status:     enum.EstimateStatusDraft,
		TaxRate:    taxRate,
		ValidUntil: input.ValidUntil,
		Notes:      input.Notes,
		LineItems:  estimateLines(lines),
	}
	if err := s.estimateRepo.Create(ctx, estimate); err != nil {
		return nil, err
	}

	estimate.Client = client
	return estimateDetail(estimate), nil
}

func (s *EstimateService) load(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Estimate, error) {
	estimate, err := s.estimateRepo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if estimate == nil {
		return nil, apperror.NewNotFoundError("Estimate")
	}
	return estimate, nil
}

// GetEstimate retrieves an estimate with its totals
func (s *EstimateService) GetEstimate(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*EstimateDetail, error) {
	estimate, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return estimateDetail(estimate), nil
}

// ListEstimates lists estimates with totals, newest first
func (s *EstimateService) ListEstimates(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, filter repository.EstimateFilter) (*pagination.PaginatedResult[*EstimateDetail], error) {
	estimates, total, err := s.estimateRepo.List(ctx, scope, params, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*EstimateDetail, len(estimates))
	for i := range estimates {
		items[i] = estimateDetail(&estimates[i])
	}

	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, p), nil
}

// UpdateEstimate rewrites an estimate that has not been accepted or declined
func (s *EstimateService) UpdateEstimate(ctx context.Context, scope tenancy.Scope, id uuid.UUID, input *EstimateInput) (*EstimateDetail, error) {
	estimate, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !estimate.Status.IsEditable() || estimate.JobID != nil {
		return nil, apperror.NewConflictError("Only draft or sent estimates can be edited")
	}

	taxRate := estimate.TaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	lines, err := buildLines(input.LineItems, taxRate)
	if err != nil {
		return nil, err
	}

	if input.ClientID != uuid.Nil && input.ClientID != estimate.ClientID {
		client, err := s.refs.client(ctx, scope, input.ClientID)
		if err != nil {
			return nil, err
		}
		estimate.ClientID = client.ID
		estimate.Client = client
	}
	if err := s.refs.property(ctx, scope, estimate.ClientID, input.PropertyID); err != nil {
		return nil, err
	}

	estimate.PropertyID = input.PropertyID
	estimate.Title = strings.TrimSpace(input.Title)
	estimate.TaxRate = taxRate
	estimate.ValidUntil = input.ValidUntil
	estimate.Notes = input.Notes
	estimate.LineItems = estimateLines(lines)

	if err := s.estimateRepo.Update(ctx, estimate); err != nil {
		return nil, err
	}
	return estimateDetail(estimate), nil
}

// UpdateEstimateStatus sets the estimate status. Converted estimates are
// locked as ACCEPTED.
func (s *EstimateService) UpdateEstimateStatus(ctx context.Context, scope tenancy.Scope, id uuid.UUID, status enum.EstimateStatus) (*EstimateDetail, error) {
	estimate, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if estimate.JobID != nil {
		return nil, apperror.NewConflictError("Estimate has already been converted to a job")
	}

	if err := s.estimateRepo.UpdateStatus(ctx, scope, id, status); err != nil {
		return nil, err
	}
	estimate.Status = status
	return estimateDetail(estimate), nil
}

// DeleteEstimate deletes an estimate that has not become a job
func (s *EstimateService) DeleteEstimate(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	estimate, err := s.load(ctx, scope, id)
	if err != nil {
		return err
	}
	if estimate.JobID != nil {
		return apperror.NewConflictError("Estimate has already been converted to a job")
	}
	return s.estimateRepo.Delete(ctx, scope, id)
}

// ConvertToJobInput schedules the job created from an estimate
type ConvertToJobInput struct {
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	AssignedUserID *uuid.UUID
}

// ConvertToJob books the estimate as a SCHEDULED job carrying the same line
// items, and marks the estimate ACCEPTED
func (s *EstimateService) ConvertToJob(ctx context.Context, scope tenancy.Scope, id uuid.UUID, input *ConvertToJobInput) (*entity.Job, error) {
	estimate, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if estimate.JobID != nil {
		return nil, apperror.NewConflictError("Estimate has already been converted to a job")
	}
	if estimate.Status == enum.EstimateStatusDeclined {
		return nil, apperror.NewConflictError("A declined estimate cannot be converted")
	}

	tenant, err := s.refs.tenant(ctx, scope)
	if err != nil {
		return nil, err
	}
	if err := s.refs.assignee(ctx, scope, input.AssignedUserID); err != nil {
		return nil, err
	}

	title := estimate.Title
	if title == "" {
		title = "Estimate " + estimate.Number
	}

	job := &entity.Job{
		TenantID:       estimate.TenantID,
		Number:         utils.GenerateDocumentNo(tenant.Settings.JobPrefix, s.now()),
		ClientID:       estimate.ClientID,
		PropertyID:     estimate.PropertyID,
		EstimateID:     &estimate.ID,
		Title:          title,
		Instructions:   estimate.Notes,
		Status:         enum.JobStatusScheduled,
		ScheduledStart: input.ScheduledStart,
		ScheduledEnd:   input.ScheduledEnd,
		AssignedUserID: input.AssignedUserID,
		LineItems:      jobLines(copyLines(estimate.LineItems)),
	}
	if err := s.estimateRepo.ConvertToJob(ctx, estimate, job); err != nil {
		return nil, err
	}

	job.Client = estimate.Client
	return job, nil
}
