package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	domainRepo "github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/internal/infrastructure/database"
	"github.com/sangkips/cleanops-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func seedClient(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name, email string) *entity.Client {
	t.Helper()
	client := &entity.Client{
		TenantID: tenantID,
		Name:     name,
		Emails:   []entity.ContactEmail{{Label: "main", Address: email}},
	}
	require.NoError(t, NewClientRepository(db).Create(context.Background(), client))
	return client
}

func seedInvoice(t *testing.T, db *gorm.DB, tenantID, clientID uuid.UUID, number string) *entity.Invoice {
	t.Helper()
	invoice := &entity.Invoice{
		TenantID:  tenantID,
		Number:    number,
		ClientID:  clientID,
		Status:    enum.InvoiceStatusSent,
		IssueDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		TaxRate:   decimal.NewFromInt(13),
		LineItems: []entity.InvoiceLineItem{
			{LineFields: entity.LineFields{Description: "Deep clean", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50), Position: 0}},
			{LineFields: entity.LineFields{Description: "Windows", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(150), Position: 1}},
		},
	}
	require.NoError(t, NewInvoiceRepository(db).Create(context.Background(), invoice))
	return invoice
}

func TestTenantScopeIsolatesRows(t *testing.T) {
	db := setupDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()

	acme, other := uuid.New(), uuid.New()
	mine := seedClient(t, db, acme, "Jane Doe", "jane@example.com")
	seedClient(t, db, other, "John Roe", "john@example.com")

	found, err := repo.GetByID(ctx, tenancy.ForTenant(acme, uuid.New()), mine.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "jane@example.com", found.PrimaryEmail())

	found, err = repo.GetByID(ctx, tenancy.ForTenant(other, uuid.New()), mine.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	clients, total, err := repo.List(ctx, tenancy.Scope{}, pagination.DefaultPagination(), "")
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, clients)

	_, total, err = repo.List(ctx, tenancy.Platform(uuid.New()), pagination.DefaultPagination(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	clients, total, err = repo.List(ctx, tenancy.ForTenant(acme, uuid.New()), pagination.DefaultPagination(), "JANE@")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, mine.ID, clients[0].ID)
}

func TestInvoiceSummaryFromStoredRows(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	tenantID := uuid.New()
	scope := tenancy.ForTenant(tenantID, uuid.New())

	client := seedClient(t, db, tenantID, "Jane Doe", "jane@example.com")
	invoice := seedInvoice(t, db, tenantID, client.ID, "INV-0001")

	payments := NewPaymentRepository(db)
	paidAt := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	for _, amount := range []int64{100, 50} {
		require.NoError(t, payments.Create(ctx, &entity.Payment{
			TenantID:  tenantID,
			InvoiceID: invoice.ID,
			Amount:    decimal.NewFromInt(amount),
			PaidAt:    paidAt,
		}))
	}

	repo := NewInvoiceRepository(db)
	loaded, err := repo.GetByID(ctx, scope, invoice.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.LineItems, 2)
	require.NotNil(t, loaded.Client)

	summary := loaded.Summary()
	assert.Equal(t, "250.00", summary.Breakdown.Subtotal.StringFixed(2))
	assert.Equal(t, "32.50", summary.Breakdown.TaxAmount.StringFixed(2))
	assert.Equal(t, "282.50", summary.Breakdown.Total.StringFixed(2))
	assert.Equal(t, "150.00", summary.Reconciliation.AmountPaid.StringFixed(2))
	assert.Equal(t, "132.50", summary.Reconciliation.BalanceDue.StringFixed(2))

	loaded.LineItems = []entity.InvoiceLineItem{
		{LineFields: entity.LineFields{Description: "Move out", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(300)}},
	}
	require.NoError(t, repo.Update(ctx, loaded))

	reloaded, err := repo.GetByID(ctx, scope, invoice.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.LineItems, 1)
	assert.Equal(t, "Move out", reloaded.LineItems[0].Description)

	open, err := repo.ListByStatus(ctx, scope, enum.InvoiceStatusSent, enum.InvoiceStatusOverdue)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	byClient, total, err := repo.List(ctx, scope, pagination.DefaultPagination(), domainRepo.InvoiceFilter{Search: "jane"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, byClient, 1)

	missing, err := repo.GetByID(ctx, tenancy.ForTenant(uuid.New(), uuid.New()), invoice.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPaymentCursorAndTotals(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	tenantID := uuid.New()
	scope := tenancy.ForTenant(tenantID, uuid.New())

	client := seedClient(t, db, tenantID, "Jane Doe", "jane@example.com")
	invoice := seedInvoice(t, db, tenantID, client.ID, "INV-0001")

	repo := NewPaymentRepository(db)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	amounts := []string{"10", "20", "30", "40", "50.50"}
	ids := make([]uuid.UUID, len(amounts))
	for i, a := range amounts {
		p := &entity.Payment{
			TenantID:  tenantID,
			InvoiceID: invoice.ID,
			Amount:    decimal.RequireFromString(a),
			Method:    enum.PaymentMethodCash,
			PaidAt:    base.Add(time.Duration(i) * time.Hour),
		}
		if i == 4 {
			p.Method = enum.PaymentMethodETransfer
		}
		require.NoError(t, repo.Create(ctx, p))
		ids[i] = p.ID
	}

	key := func(p entity.Payment) (string, time.Time) { return p.ID.String(), p.PaidAt }

	params := &pagination.CursorParams{Limit: 2}
	rows, err := repo.ListWithCursor(ctx, scope, params, domainRepo.PaymentFilter{})
	require.NoError(t, err)
	page, items := pagination.NewCursorPagination(rows, params, key)
	require.Len(t, items, 2)
	assert.Equal(t, ids[4], items[0].ID)
	assert.Equal(t, ids[3], items[1].ID)
	assert.True(t, page.HasNext)
	require.NotNil(t, items[0].Invoice)

	params = &pagination.CursorParams{Limit: 2, Cursor: *page.NextCursor}
	rows, err = repo.ListWithCursor(ctx, scope, params, domainRepo.PaymentFilter{})
	require.NoError(t, err)
	page, items = pagination.NewCursorPagination(rows, params, key)
	require.Len(t, items, 2)
	assert.Equal(t, ids[2], items[0].ID)
	assert.Equal(t, ids[1], items[1].ID)
	assert.True(t, page.HasNext)

	params = &pagination.CursorParams{Limit: 2, Cursor: *page.NextCursor}
	rows, err = repo.ListWithCursor(ctx, scope, params, domainRepo.PaymentFilter{})
	require.NoError(t, err)
	page, items = pagination.NewCursorPagination(rows, params, key)
	require.Len(t, items, 1)
	assert.Equal(t, ids[0], items[0].ID)
	assert.False(t, page.HasNext)

	params = &pagination.CursorParams{Limit: 2, Cursor: *page.PrevCursor, Direction: pagination.CursorDirectionPrev}
	rows, err = repo.ListWithCursor(ctx, scope, params, domainRepo.PaymentFilter{})
	require.NoError(t, err)
	page, items = pagination.NewCursorPagination(rows, params, key)
	require.Len(t, items, 2)
	assert.Equal(t, ids[2], items[0].ID)
	assert.Equal(t, ids[1], items[1].ID)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)

	total, err := repo.SumAmounts(ctx, scope, domainRepo.PaymentFilter{})
	require.NoError(t, err)
	assert.Equal(t, "150.50", total.StringFixed(2))

	cash := enum.PaymentMethodCash
	total, err = repo.SumAmounts(ctx, scope, domainRepo.PaymentFilter{Method: &cash})
	require.NoError(t, err)
	assert.Equal(t, "100.00", total.StringFixed(2))

	from := base.Add(2 * time.Hour)
	total, err = repo.SumAmounts(ctx, scope, domainRepo.PaymentFilter{From: &from})
	require.NoError(t, err)
	assert.Equal(t, "120.50", total.StringFixed(2))

	total, err = repo.SumAmounts(ctx, tenancy.ForTenant(uuid.New(), uuid.New()), domainRepo.PaymentFilter{})
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	require.NoError(t, repo.Delete(ctx, scope, ids[4]))
	remaining, err := repo.ListByInvoice(ctx, scope, invoice.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 4)
}

func TestTenantCountsAndTopClients(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	tenantID := uuid.New()
	scope := tenancy.ForTenant(tenantID, uuid.New())

	jane := seedClient(t, db, tenantID, "Jane Doe", "jane@example.com")
	seedClient(t, db, tenantID, "John Roe", "john@example.com")
	invoice := seedInvoice(t, db, tenantID, jane.ID, "INV-0001")

	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, NewPaymentRepository(db).Create(ctx, &entity.Payment{
		TenantID:  tenantID,
		InvoiceID: invoice.ID,
		Amount:    decimal.RequireFromString("82.50"),
		PaidAt:    now.Add(-24 * time.Hour),
	}))
	require.NoError(t, NewLeadRepository(db).Create(ctx, &entity.Lead{
		TenantID: tenantID,
		Name:     "Walk-in",
		Status:   enum.LeadStatusNew,
	}))

	analytics := NewAnalyticsRepository(db)
	counts, err := analytics.TenantCounts(ctx, scope, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Clients)
	assert.Equal(t, int64(1), counts.OpenLeads)
	assert.Zero(t, counts.ActiveJobs)

	top, err := analytics.TopClients(ctx, scope, now.AddDate(0, -1, 0), 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, jane.ID, top[0].ClientID)
	assert.Equal(t, "82.50", top[0].Collected.StringFixed(2))

	top, err = analytics.TopClients(ctx, tenancy.Scope{}, now.AddDate(0, -1, 0), 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}
