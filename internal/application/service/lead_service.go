package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/sangkips/cleanops-api/pkg/pagination"
)

// LeadService handles prospects and their conversion into clients
type LeadService struct {
	leadRepo repository.LeadRepository
	now      func() time.Time
}

// NewLeadService creates a new lead service
func NewLeadService(leadRepo repository.LeadRepository) *LeadService {
	return &LeadService{leadRepo: leadRepo, now: time.Now}
}

// LeadInput represents the create and update lead input
type LeadInput struct {
	Name         string
	Email        *string
	Phone        *string
	Source       string
	ServiceTypes []string
	Message      *string
	Address      entity.Address
	Details      entity.PropertyDetails
}

// CreateLead records a new prospect
func (s *LeadService) CreateLead(ctx context.Context, scope tenancy.Scope, input *LeadInput) (*entity.Lead, error) {
	tenantID, err := scope.Require()
	if err != nil {
		return nil, err
	}

	lead := &entity.Lead{TenantID: tenantID, Status: enum.LeadStatusNew}
	applyLeadInput(lead, input)
	if lead.Source == "" {
		lead.Source = entity.LeadSourceManual
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func applyLeadInput(lead *entity.Lead, input *LeadInput) {
	lead.Name = strings.TrimSpace(input.Name)
	lead.Email = input.Email
	lead.Phone = input.Phone
	if input.Source != "" {
		lead.Source = input.Source
	}
	lead.ServiceTypes = input.ServiceTypes
	lead.Message = input.Message
	lead.Address = input.Address
	lead.Details = input.Details
}

// GetLead retrieves a lead by ID
func (s *LeadService) GetLead(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, apperror.NewNotFoundError("Lead")
	}
	return lead, nil
}

// ListLeads lists leads, newest first
func (s *LeadService) ListLeads(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, filter repository.LeadFilter) (*pagination.PaginatedResult[entity.Lead], error) {
	leads, total, err := s.leadRepo.List(ctx, scope, params, filter)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(leads, p), nil
}

// UpdateLead replaces a lead's details
func (s *LeadService) UpdateLead(ctx context.Context, scope tenancy.Scope, id uuid.UUID, input *LeadInput) (*entity.Lead, error) {
	lead, err := s.GetLead(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	applyLeadInput(lead, input)
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// UpdateLeadStatus moves a lead through the pipeline. CONVERTED is only
// reachable through ConvertLead.
func (s *LeadService) UpdateLeadStatus(ctx context.Context, scope tenancy.Scope, id uuid.UUID, status enum.LeadStatus) (*entity.Lead, error) {
	if status == enum.LeadStatusConverted {
		return nil, apperror.NewBadRequestError("Use the convert action to convert a lead")
	}

	lead, err := s.GetLead(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if lead.Status == enum.LeadStatusConverted {
		return nil, apperror.NewConflictError("Lead has already been converted")
	}

	lead.Status = status
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// DeleteLead deletes a lead
func (s *LeadService) DeleteLead(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if _, err := s.GetLead(ctx, scope, id); err != nil {
		return err
	}
	return s.leadRepo.Delete(ctx, scope, id)
}

// ConvertOutput is the client created from a lead
type ConvertOutput struct {
	Lead     *entity.Lead
	Client   *entity.Client
	Property *entity.Property
}

// ConvertLead creates a client (and a property when the lead gave an
// address) from the lead and marks it CONVERTED
func (s *LeadService) ConvertLead(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*ConvertOutput, error) {
	lead, err := s.GetLead(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if lead.Status == enum.LeadStatusConverted || lead.ClientID != nil {
		return nil, apperror.NewConflictError("Lead has already been converted")
	}

	client := &entity.Client{
		TenantID:       lead.TenantID,
		Name:           lead.Name,
		BillingAddress: lead.Address,
	}
	if lead.Email != nil && *lead.Email != "" {
		client.Emails = []entity.ContactEmail{{Label: "primary", Address: strings.ToLower(*lead.Email)}}
	}
	if lead.Phone != nil && *lead.Phone != "" {
		client.Phones = []entity.ContactPhone{{Label: "primary", Number: *lead.Phone}}
	}

	var property *entity.Property
	if !lead.Address.IsZero() {
		property = &entity.Property{
			TenantID: lead.TenantID,
			Name:     "Primary",
			Address:  lead.Address,
			Details:  lead.Details,
		}
	}

	now := s.now().UTC()
	lead.ConvertedAt = &now
	if err := s.leadRepo.Convert(ctx, lead, client, property); err != nil {
		return nil, err
	}

	return &ConvertOutput{Lead: lead, Client: client, Property: property}, nil
}
