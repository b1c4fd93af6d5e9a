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
)

const (
	defaultVisitMinutes = 120
	maxCalendarRange    = 92 * 24 * time.Hour
)

// JobService handles booked work, its visits and invoicing it
type JobService struct {
	jobRepo  repository.JobRepository
	refs     documentRefs
	invoices *InvoiceService
	now      func() time.Time
}

// NewJobService creates a new job service
func NewJobService(
	jobRepo repository.JobRepository,
	tenantRepo repository.TenantRepository,
	clientRepo repository.ClientRepository,
	propertyRepo repository.PropertyRepository,
	invoices *InvoiceService,
) *JobService {
	return &JobService{
		jobRepo:  jobRepo,
		refs:     documentRefs{tenantRepo: tenantRepo, clientRepo: clientRepo, propertyRepo: propertyRepo},
		invoices: invoices,
		now:      time.Now,
	}
}

// JobDetail is a job priced at the tenant's default tax rate
type JobDetail struct {
	Job     *entity.Job
	Pricing pricing.Breakdown
}

// JobInput represents the create and update job input
type JobInput struct {
	ClientID       uuid.UUID
	PropertyID     *uuid.UUID
	Title          string
	Instructions   *string
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	AssignedUserID *uuid.UUID
	LineItems      []LineInput
}

func validateSchedule(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperror.Invalid("scheduled_end", "must not be before scheduled_start")
	}
	return nil
}

// CreateJob books a SCHEDULED job
func (s *JobService) CreateJob(ctx context.Context, scope tenancy.Scope, input *JobInput) (*JobDetail, error) {
	tenant, err := s.refs.tenant(ctx, scope)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperror.Invalid("title", "is required")
	}
	if err := validateSchedule(input.ScheduledStart, input.ScheduledEnd); err != nil {
		return nil, err
	}
	lines, err := buildLines(input.LineItems, tenant.Settings.DefaultTaxRate)
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
	if err := s.refs.assignee(ctx, scope, input.AssignedUserID); err != nil {
		return nil, err
	}

	job := &entity.Job{
		TenantID:       tenant.ID,
		Number:         utils.GenerateDocumentNo(tenant.Settings.JobPrefix, s.now()),
		ClientID:       client.ID,
		PropertyID:     input.PropertyID,
		Title:          strings.TrimSpace(input.Title),
		Instructions:   input.Instructions,
		Status:         enum.JobStatusScheduled,
		ScheduledStart: input.ScheduledStart,
		ScheduledEnd:   input.ScheduledEnd,
		AssignedUserID: input.AssignedUserID,
		LineItems:      jobLines(lines),
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	job.Client = client
	return &JobDetail{Job: job, Pricing: job.Pricing(tenant.Settings.DefaultTaxRate)}, nil
}

func (s *JobService) load(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Job")
	}
	return job, nil
}

// GetJob retrieves a job with its visits and pricing
func (s *JobService) GetJob(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*JobDetail, error) {
	job, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	tenant, err := s.refs.tenant(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &JobDetail{Job: job, Pricing: job.Pricing(tenant.Settings.DefaultTaxRate)}, nil
}

// ListJobs lists jobs, latest scheduled first
func (s *JobService) ListJobs(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, filter repository.JobFilter) (*pagination.PaginatedResult[*JobDetail], error) {
	tenant, err := s.refs.tenant(ctx, scope)
	if err != nil {
		return nil, err
	}

	jobs, total, err := s.jobRepo.List(ctx, scope, params, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*JobDetail, len(jobs))
	for i := range jobs {
		items[i] = &JobDetail{Job: &jobs[i], Pricing: jobs[i].Pricing(tenant.Settings.DefaultTaxRate)}
	}

	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, p), nil
}

// UpdateJob rewrites an active job
func (s *JobService) UpdateJob(ctx context.Context, scope tenancy.Scope, id uuid.UUID, input *JobInput) (*JobDetail, error) {
	job, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !job.Status.IsActive() {
		return nil, apperror.NewConflictError("Completed or cancelled jobs cannot be edited")
	}
	if err := validateSchedule(input.ScheduledStart, input.ScheduledEnd); err != nil {
		return nil, err
	}

	tenant, err := s.refs.tenant(ctx, scope)
	if err != nil {
		return nil, err
	}
	lines, err := buildLines(input.LineItems, tenant.Settings.DefaultTaxRate)
	if err != nil {
		return nil, err
	}

	if input.ClientID != uuid.Nil && input.ClientID != job.ClientID {
		client, err := s.refs.client(ctx, scope, input.ClientID)
		if err != nil {
			return nil, err
		}
		job.ClientID = client.ID
		job.Client = client
	}
	if err := s.refs.property(ctx, scope, job.ClientID, input.PropertyID); err != nil {
		return nil, err
	}
	if err := s.refs.assignee(ctx, scope, input.AssignedUserID); err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		job.Title = title
	}
	job.PropertyID = input.PropertyID
	job.Instructions = input.Instructions
	job.ScheduledStart = input.ScheduledStart
	job.ScheduledEnd = input.ScheduledEnd
	job.AssignedUserID = input.AssignedUserID
	job.LineItems = jobLines(lines)

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	return &JobDetail{Job: job, Pricing: job.Pricing(tenant.Settings.DefaultTaxRate)}, nil
}

// UpdateJobStatus sets the job status and stamps completion
func (s *JobService) UpdateJobStatus(ctx context.Context, scope tenancy.Scope, id uuid.UUID, status enum.JobStatus) (*JobDetail, error) {
	job, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if job.Status == enum.JobStatusCancelled && status != enum.JobStatusCancelled {
		return nil, apperror.NewConflictError("A cancelled job cannot be reopened")
	}

	job.Status = status
	switch status {
	case enum.JobStatusCompleted:
		if job.CompletedAt == nil {
			now := s.now().UTC()
			job.CompletedAt = &now
		}
	default:
		job.CompletedAt = nil
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	return s.GetJob(ctx, scope, id)
}

// DeleteJob deletes a job with its visits
func (s *JobService) DeleteJob(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if _, err := s.load(ctx, scope, id); err != nil {
		return err
	}
	return s.jobRepo.Delete(ctx, scope, id)
}

// VisitInput represents the add visit input
type VisitInput struct {
	ScheduledAt     time.Time
	DurationMinutes int
	AssignedUserID  *uuid.UUID
	Notes           *string
}

// AddVisit schedules another trip for the job
func (s *JobService) AddVisit(ctx context.Context, scope tenancy.Scope, jobID uuid.UUID, input *VisitInput) (*entity.JobVisit, error) {
	job, err := s.load(ctx, scope, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Status.IsActive() {
		return nil, apperror.NewConflictError("Visits can only be added to active jobs")
	}
	if input.ScheduledAt.IsZero() {
		return nil, apperror.Invalid("scheduled_at", "is required")
	}
	if input.DurationMinutes < 0 {
		return nil, apperror.Invalid("duration_minutes", "must not be negative")
	}
	if err := s.refs.assignee(ctx, scope, input.AssignedUserID); err != nil {
		return nil, err
	}

	duration := input.DurationMinutes
	if duration == 0 {
		duration = defaultVisitMinutes
	}
	assignee := input.AssignedUserID
	if assignee == nil {
		assignee = job.AssignedUserID
	}

	visit := &entity.JobVisit{
		TenantID:        job.TenantID,
		JobID:           job.ID,
		ScheduledAt:     input.ScheduledAt.UTC(),
		DurationMinutes: duration,
		AssignedUserID:  assignee,
		Notes:           input.Notes,
	}
	if err := s.jobRepo.AddVisit(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

// CompleteVisit marks a visit done
func (s *JobService) CompleteVisit(ctx context.Context, scope tenancy.Scope, jobID, visitID uuid.UUID, notes *string) (*entity.JobVisit, error) {
	visit, err := s.jobRepo.GetVisit(ctx, scope, jobID, visitID)
	if err != nil {
		return nil, err
	}
	if visit == nil {
		return nil, apperror.NewNotFoundError("Visit")
	}
	if visit.CompletedAt != nil {
		return visit, nil
	}

	now := s.now().UTC()
	visit.CompletedAt = &now
	if notes != nil {
		visit.Notes = notes
	}
	if err := s.jobRepo.UpdateVisit(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

// ListVisits returns the visit calendar between from and to
func (s *JobService) ListVisits(ctx context.Context, scope tenancy.Scope, from, to time.Time) ([]entity.JobVisit, error) {
	if !to.After(from) {
		return nil, apperror.NewBadRequestError("'to' must be after 'from'")
	}
	if to.Sub(from) > maxCalendarRange {
		return nil, apperror.NewBadRequestError("Calendar range is limited to 92 days")
	}
	return s.jobRepo.ListVisits(ctx, scope, from.UTC(), to.UTC())
}

// CreateInvoice copies the job's line items into a new DRAFT invoice taxed
// at the tenant's default rate
func (s *JobService) CreateInvoice(ctx context.Context, scope tenancy.Scope, jobID uuid.UUID) (*InvoiceDetail, error) {
	job, err := s.load(ctx, scope, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == enum.JobStatusCancelled {
		return nil, apperror.NewConflictError("A cancelled job cannot be invoiced")
	}
	if len(job.LineItems) == 0 {
		return nil, apperror.NewBadRequestError("Job has no line items to invoice")
	}

	tenant, err := s.refs.tenant(ctx, scope)
	if err != nil {
		return nil, err
	}

	invoice := s.invoices.newInvoice(tenant, job.ClientID, tenant.Settings.DefaultTaxRate, copyLines(job.LineItems))
	invoice.JobID = &job.ID
	s.invoices.applyDates(invoice, tenant, nil, nil)

	if err := s.invoices.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	invoice.Client = job.Client
	return s.invoices.detail(invoice), nil
}
