package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/apperror"
)

// documentRefs checks the references shared by estimates, jobs and
// invoices: the tenant's settings, the client and optional property or job.
type documentRefs struct {
	tenantRepo   repository.TenantRepository
	clientRepo   repository.ClientRepository
	propertyRepo repository.PropertyRepository
	jobRepo      repository.JobRepository
}

func (d documentRefs) tenant(ctx context.Context, scope tenancy.Scope) (*entity.Tenant, error) {
	tenantID, err := scope.Require()
	if err != nil {
		return nil, err
	}
	tenant, err := d.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return tenant, nil
}

func (d documentRefs) client(ctx context.Context, scope tenancy.Scope, clientID uuid.UUID) (*entity.Client, error) {
	client, err := d.clientRepo.GetByID(ctx, scope, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.Invalid("client_id", "client not found")
	}
	return client, nil
}

func (d documentRefs) property(ctx context.Context, scope tenancy.Scope, clientID uuid.UUID, propertyID *uuid.UUID) error {
	if propertyID == nil {
		return nil
	}
	property, err := d.propertyRepo.GetByID(ctx, scope, *propertyID)
	if err != nil {
		return err
	}
	if property == nil || property.ClientID != clientID {
		return apperror.Invalid("property_id", "property not found for this client")
	}
	return nil
}

func (d documentRefs) job(ctx context.Context, scope tenancy.Scope, clientID uuid.UUID, jobID *uuid.UUID) error {
	if jobID == nil {
		return nil
	}
	job, err := d.jobRepo.GetByID(ctx, scope, *jobID)
	if err != nil {
		return err
	}
	if job == nil || job.ClientID != clientID {
		return apperror.Invalid("job_id", "job not found for this client")
	}
	return nil
}

func (d documentRefs) assignee(ctx context.Context, scope tenancy.Scope, userID *uuid.UUID) error {
	if userID == nil {
		return nil
	}
	membership, err := d.tenantRepo.GetMembership(ctx, scope.TenantID, *userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return apperror.Invalid("assigned_user_id", "is not a member of this business")
	}
	return nil
}
