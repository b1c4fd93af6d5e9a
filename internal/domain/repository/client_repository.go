package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/pagination"
)

// Lookups take the caller's scope and return nil, nil for rows that do not
// exist or belong to another tenant, so the two cases are indistinguishable.

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, search string) ([]entity.Client, int64, error)
}

// PropertyRepository defines the interface for property data operations
type PropertyRepository interface {
	Create(ctx context.Context, property *entity.Property) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Property, error)
	Update(ctx context.Context, property *entity.Property) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	ListByClient(ctx context.Context, scope tenancy.Scope, clientID uuid.UUID) ([]entity.Property, error)
}

// LeadFilter narrows lead listings
type LeadFilter struct {
	Search string
	Status *enum.LeadStatus
}

// LeadRepository defines the interface for lead data operations
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Lead, error)
	Update(ctx context.Context, lead *entity.Lead) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, filter LeadFilter) ([]entity.Lead, int64, error)

	// Convert stores the new client and links the lead to it atomically
	Convert(ctx context.Context, lead *entity.Lead, client *entity.Client, property *entity.Property) error
}
