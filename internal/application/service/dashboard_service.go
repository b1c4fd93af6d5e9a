package service

import (
	"context"
	"time"

	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/pricing"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

const (
	dailySeriesDays = 7
	topClientsLimit = 5
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	invoiceRepo   repository.InvoiceRepository
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(invoiceRepo repository.InvoiceRepository, analyticsRepo repository.AnalyticsRepository) *DashboardService {
	return &DashboardService{invoiceRepo: invoiceRepo, analyticsRepo: analyticsRepo, now: time.Now}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	repository.TenantCounts
	OpenInvoices       int                          `json:"open_invoices"`
	OverdueInvoices    int                          `json:"overdue_invoices"`
	Outstanding        decimal.Decimal              `json:"outstanding"`
	Overpaid           decimal.Decimal              `json:"overpaid"`
	CollectedThisMonth decimal.Decimal              `json:"collected_this_month"`
	DailyCollected     []DailyCollectedPoint        `json:"daily_collected"`
	TopClients         []repository.TopClientResult `json:"top_clients"`
}

// DailyCollectedPoint is the money received on one day
type DailyCollectedPoint struct {
	Date      string          `json:"date"`
	Collected decimal.Decimal `json:"collected"`
}

// GetDashboardStats prices every collectable invoice with the pricing core,
// so the outstanding figure always matches what each invoice shows
func (s *DashboardService) GetDashboardStats(ctx context.Context, scope tenancy.Scope) (*DashboardStats, error) {
	now := s.now().UTC()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	startOfSeries := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(dailySeriesDays - 1))

	counts, err := s.analyticsRepo.TenantCounts(ctx, scope, now)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.ListByStatus(ctx, scope,
		enum.InvoiceStatusSent, enum.InvoiceStatusOverdue, enum.InvoiceStatusPaid)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TenantCounts:       *counts,
		Outstanding:        decimal.Zero,
		Overpaid:           decimal.Zero,
		CollectedThisMonth: decimal.Zero,
	}

	daily := make(map[string]decimal.Decimal, dailySeriesDays)
	for i := range invoices {
		invoice := &invoices[i]
		summary := invoice.Summary()

		switch balance := summary.Reconciliation.BalanceDue; {
		case balance.IsPositive():
			stats.OpenInvoices++
			stats.Outstanding = stats.Outstanding.Add(balance)
			if invoice.Status == enum.InvoiceStatusOverdue || invoice.IsOverdue(now) {
				stats.OverdueInvoices++
			}
		case balance.IsNegative():
			stats.Overpaid = stats.Overpaid.Sub(balance)
		}

		for _, p := range invoice.Payments {
			if !p.PaidAt.Before(startOfMonth) {
				stats.CollectedThisMonth = stats.CollectedThisMonth.Add(p.Amount)
			}
			if !p.PaidAt.Before(startOfSeries) {
				day := p.PaidAt.UTC().Format(dateLayout)
				daily[day] = daily[day].Add(p.Amount)
			}
		}
	}
	stats.CollectedThisMonth = stats.CollectedThisMonth.Round(pricing.Places)

	stats.DailyCollected = make([]DailyCollectedPoint, 0, dailySeriesDays)
	for i := 0; i < dailySeriesDays; i++ {
		day := startOfSeries.AddDate(0, 0, i).Format(dateLayout)
		stats.DailyCollected = append(stats.DailyCollected, DailyCollectedPoint{
			Date:      day,
			Collected: daily[day].Round(pricing.Places),
		})
	}

	stats.TopClients, err = s.analyticsRepo.TopClients(ctx, scope, startOfMonth.AddDate(0, -11, 0), topClientsLimit)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
