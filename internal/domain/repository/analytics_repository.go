package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

// PlatformStats are cross-tenant counters for the admin console
type PlatformStats struct {
	Tenants  int64 `json:"tenants"`
	Users    int64 `json:"users"`
	Clients  int64 `json:"clients"`
	Jobs     int64 `json:"jobs"`
	Invoices int64 `json:"invoices"`
	Payments int64 `json:"payments"`
}

// TenantCounts are the headline counters of one business
type TenantCounts struct {
	Clients        int64 `json:"clients"`
	OpenLeads      int64 `json:"open_leads"`
	ActiveJobs     int64 `json:"active_jobs"`
	UpcomingVisits int64 `json:"upcoming_visits"`
}

// TopClientResult is a client ranked by money collected
type TopClientResult struct {
	ClientID   uuid.UUID       `json:"client_id"`
	ClientName string          `json:"client_name"`
	Collected  decimal.Decimal `json:"collected"`
	Payments   int64           `json:"payments"`
}

// AnalyticsRepository defines aggregation queries for dashboards
type AnalyticsRepository interface {
	PlatformStats(ctx context.Context) (*PlatformStats, error)
	TenantCounts(ctx context.Context, scope tenancy.Scope, now time.Time) (*TenantCounts, error)
	TopClients(ctx context.Context, scope tenancy.Scope, since time.Time, limit int) ([]TopClientResult, error)
}
