package repository

import (
	"context"
	"time"

	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	domainRepo "github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) PlatformStats(ctx context.Context) (*domainRepo.PlatformStats, error) {
	var stats domainRepo.PlatformStats
	db := r.db.WithContext(ctx)

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&entity.Tenant{}, &stats.Tenants},
		{&entity.User{}, &stats.Users},
		{&entity.Client{}, &stats.Clients},
		{&entity.Job{}, &stats.Jobs},
		{&entity.Invoice{}, &stats.Invoices},
		{&entity.Payment{}, &stats.Payments},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	return &stats, nil
}

func (r *analyticsRepository) TenantCounts(ctx context.Context, scope tenancy.Scope, now time.Time) (*domainRepo.TenantCounts, error) {
	var counts domainRepo.TenantCounts
	db := r.db.WithContext(ctx)

	if err := db.Model(&entity.Client{}).Scopes(TenantScope(scope)).Count(&counts.Clients).Error; err != nil {
		return nil, err
	}

	openLeads := []enum.LeadStatus{enum.LeadStatusNew, enum.LeadStatusContacted, enum.LeadStatusQualified}
	if err := db.Model(&entity.Lead{}).Scopes(TenantScope(scope)).
		Where("status IN ?", openLeads).
		Count(&counts.OpenLeads).Error; err != nil {
		return nil, err
	}

	activeJobs := []enum.JobStatus{enum.JobStatusScheduled, enum.JobStatusInProgress}
	if err := db.Model(&entity.Job{}).Scopes(TenantScope(scope)).
		Where("status IN ?", activeJobs).
		Count(&counts.ActiveJobs).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&entity.JobVisit{}).Scopes(TenantScope(scope)).
		Where("scheduled_at >= ? AND completed_at IS NULL", now).
		Count(&counts.UpcomingVisits).Error; err != nil {
		return nil, err
	}

	return &counts, nil
}

func (r *analyticsRepository) TopClients(ctx context.Context, scope tenancy.Scope, since time.Time, limit int) ([]domainRepo.TopClientResult, error) {
	var results []domainRepo.TopClientResult

	query := r.db.WithContext(ctx).
		Table("payments AS p").
		Select("c.id AS client_id, c.name AS client_name, COALESCE(SUM(p.amount), 0) AS collected, COUNT(p.id) AS payments").
		Joins("JOIN invoices i ON i.id = p.invoice_id").
		Joins("JOIN clients c ON c.id = i.client_id").
		Where("p.deleted_at IS NULL AND p.paid_at >= ?", since)

	switch {
	case scope.HasTenant():
		query = query.Where("p.tenant_id = ?", scope.TenantID)
	case !scope.SuperAdmin:
		return results, nil
	}

	err := query.
		Group("c.id, c.name").
		Order("collected DESC").
		Limit(limit).
		Scan(&results).Error

	for i := range results {
		results[i].Collected = results[i].Collected.Round(2)
	}

	return results, err
}
