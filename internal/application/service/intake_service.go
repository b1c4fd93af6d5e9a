package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/sangkips/cleanops-api/pkg/logger"
	"go.uber.org/zap"
)

// IntakeService ingests website booking forms as leads
type IntakeService struct {
	tenantRepo      repository.TenantRepository
	leadRepo        repository.LeadRepository
	serviceTypeRepo repository.ServiceTypeRepository
}

// NewIntakeService creates a new intake service
func NewIntakeService(
	tenantRepo repository.TenantRepository,
	leadRepo repository.LeadRepository,
	serviceTypeRepo repository.ServiceTypeRepository,
) *IntakeService {
	return &IntakeService{
		tenantRepo:      tenantRepo,
		leadRepo:        leadRepo,
		serviceTypeRepo: serviceTypeRepo,
	}
}

// IntakeForm is the payload posted by a tenant's website
type IntakeForm struct {
	Name     string
	Email    string
	Phone    string
	Services []string
	Message  string
	Address  entity.Address
	Details  entity.PropertyDetails

	// Honeypot is a hidden field humans leave empty
	Honeypot string
}

// IntakeResult reports whether the form produced a lead
type IntakeResult struct {
	Lead     *entity.Lead
	Accepted bool
}

// ListServiceTypes returns the services a form can offer
func (s *IntakeService) ListServiceTypes(ctx context.Context) ([]entity.ServiceType, error) {
	return s.serviceTypeRepo.ListActive(ctx)
}

// Submit authenticates the form with the tenant's intake token and records a
// website lead. Bot submissions caught by the honeypot are accepted and
// dropped.
func (s *IntakeService) Submit(ctx context.Context, tenantSlug, token string, form *IntakeForm) (*IntakeResult, error) {
	tenant, err := s.tenantRepo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(tenantSlug)))
	if err != nil {
		return nil, err
	}
	if tenant == nil || !tenant.Active {
		return nil, apperror.NewNotFoundError("Tenant")
	}

	expected := tenant.Settings.IntakeFormToken
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(token)) != 1 {
		return nil, apperror.ErrInvalidToken
	}

	log := logger.FromContext(ctx).With(zap.String("tenant_id", tenant.ID.String()))
	if form.Honeypot != "" {
		log.Info("intake submission dropped by honeypot")
		return &IntakeResult{Accepted: true}, nil
	}

	if err := validateIntake(form); err != nil {
		return nil, err
	}

	types, err := s.serviceTypeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	matched, unknown := MatchServiceTypes(form.Services, types)

	lead := &entity.Lead{
		TenantID:     tenant.ID,
		Name:         strings.TrimSpace(form.Name),
		Email:        optional(strings.ToLower(form.Email)),
		Phone:        optional(form.Phone),
		Source:       entity.LeadSourceWebsite,
		ServiceTypes: matched,
		Status:       enum.LeadStatusNew,
		Message:      optional(intakeMessage(form.Message, unknown)),
		Address:      form.Address,
		Details:      form.Details,
	}
	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}

	log.Info("intake lead created",
		zap.String("lead_id", lead.ID.String()),
		zap.Strings("services", matched),
		zap.Int("unmatched_services", len(unknown)),
	)
	return &IntakeResult{Lead: lead, Accepted: true}, nil
}

func validateIntake(form *IntakeForm) error {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(form.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if strings.TrimSpace(form.Email) == "" && strings.TrimSpace(form.Phone) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email", Message: "email or phone is required"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// MatchServiceTypes maps free-text labels such as "Move-in / Move-out" onto
// service type slugs. A label matches when its slug equals the type's slug or
// the slug of the type's name. Unmatched labels are returned as given.
func MatchServiceTypes(labels []string, types []entity.ServiceType) (matched, unknown []string) {
	index := make(map[string]string, len(types)*2)
	for _, t := range types {
		index[t.Slug] = t.Slug
		index[slug.Make(t.Name)] = t.Slug
	}

	seen := make(map[string]bool, len(labels))
	matched = []string{}
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		s, ok := index[slug.Make(label)]
		if !ok {
			unknown = append(unknown, label)
			continue
		}
		if !seen[s] {
			seen[s] = true
			matched = append(matched, s)
		}
	}
	return matched, unknown
}

func intakeMessage(message string, unknown []string) string {
	message = strings.TrimSpace(message)
	if len(unknown) == 0 {
		return message
	}
	extra := fmt.Sprintf("Other services requested: %s", strings.Join(unknown, ", "))
	if message == "" {
		return extra
	}
	return message + "\n\n" + extra
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
