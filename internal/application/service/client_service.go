package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/sangkips/cleanops-api/pkg/pagination"
)

// ClientService handles clients and their properties
type ClientService struct {
	clientRepo   repository.ClientRepository
	propertyRepo repository.PropertyRepository
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository, propertyRepo repository.PropertyRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo, propertyRepo: propertyRepo}
}

// ClientInput represents the create and update client input
type ClientInput struct {
	Name           string
	CompanyName    *string
	Emails         []entity.ContactEmail
	Phones         []entity.ContactPhone
	BillingAddress entity.Address
	Notes          *string
}

// CreateClient creates a new client
func (s *ClientService) CreateClient(ctx context.Context, scope tenancy.Scope, input *ClientInput) (*entity.Client, error) {
	tenantID, err := scope.Require()
	if err != nil {
		return nil, err
	}

	client := &entity.Client{TenantID: tenantID}
	applyClientInput(client, input)

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func applyClientInput(client *entity.Client, input *ClientInput) {
	client.Name = strings.TrimSpace(input.Name)
	client.CompanyName = input.CompanyName
	client.Emails = cleanEmails(input.Emails)
	client.Phones = cleanPhones(input.Phones)
	client.BillingAddress = input.BillingAddress
	client.Notes = input.Notes
}

func cleanEmails(in []entity.ContactEmail) []entity.ContactEmail {
	out := make([]entity.ContactEmail, 0, len(in))
	for _, e := range in {
		e.Address = strings.ToLower(strings.TrimSpace(e.Address))
		if e.Address != "" {
			out = append(out, e)
		}
	}
	return out
}

func cleanPhones(in []entity.ContactPhone) []entity.ContactPhone {
	out := make([]entity.ContactPhone, 0, len(in))
	for _, p := range in {
		p.Number = strings.TrimSpace(p.Number)
		if p.Number != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	return client, nil
}

// ListClients lists the tenant's clients
func (s *ClientService) ListClients(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Client], error) {
	clients, total, err := s.clientRepo.List(ctx, scope, params, search)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(clients, p), nil
}

// UpdateClient replaces the client's details
func (s *ClientService) UpdateClient(ctx context.Context, scope tenancy.Scope, id uuid.UUID, input *ClientInput) (*entity.Client, error) {
	client, err := s.GetClient(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	applyClientInput(client, input)
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient deletes a client and its properties
func (s *ClientService) DeleteClient(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if _, err := s.GetClient(ctx, scope, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, scope, id)
}

// PropertyInput represents the create and update property input
type PropertyInput struct {
	Name    string
	Address entity.Address
	Details entity.PropertyDetails
	Notes   *string
}

// AddProperty attaches a new property to a client
func (s *ClientService) AddProperty(ctx context.Context, scope tenancy.Scope, clientID uuid.UUID, input *PropertyInput) (*entity.Property, error) {
	client, err := s.GetClient(ctx, scope, clientID)
	if err != nil {
		return nil, err
	}

	property := &entity.Property{
		TenantID: client.TenantID,
		ClientID: client.ID,
		Name:     strings.TrimSpace(input.Name),
		Address:  input.Address,
		Details:  input.Details,
		Notes:    input.Notes,
	}
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// GetProperty retrieves a property by ID
func (s *ClientService) GetProperty(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperror.NewNotFoundError("Property")
	}
	return property, nil
}

// ListProperties lists a client's properties
func (s *ClientService) ListProperties(ctx context.Context, scope tenancy.Scope, clientID uuid.UUID) ([]entity.Property, error) {
	if _, err := s.GetClient(ctx, scope, clientID); err != nil {
		return nil, err
	}
	return s.propertyRepo.ListByClient(ctx, scope, clientID)
}

// UpdateProperty replaces a property's details
func (s *ClientService) UpdateProperty(ctx context.Context, scope tenancy.Scope, id uuid.UUID, input *PropertyInput) (*entity.Property, error) {
	property, err := s.GetProperty(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	property.Name = strings.TrimSpace(input.Name)
	property.Address = input.Address
	property.Details = input.Details
	property.Notes = input.Notes

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// DeleteProperty deletes a property
func (s *ClientService) DeleteProperty(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if _, err := s.GetProperty(ctx, scope, id); err != nil {
		return err
	}
	return s.propertyRepo.Delete(ctx, scope, id)
}
