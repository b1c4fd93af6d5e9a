package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/pricing"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	infra "github.com/sangkips/cleanops-api/internal/infrastructure/repository"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/sangkips/cleanops-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	client := h.client(t, "Jane Doe", "jane@example.com")

	created, err := h.invoices.CreateInvoice(ctx, h.scope, &InvoiceInput{ClientID: client.ID, LineItems: cleaningLines()})
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusDraft, created.Invoice.Status)
	assert.True(t, dec("13").Equal(created.Invoice.TaxRate))
	assert.True(t, dec("250.00").Equal(created.Summary.Breakdown.Subtotal))
	assert.True(t, dec("32.50").Equal(created.Summary.Breakdown.TaxAmount))
	assert.True(t, dec("282.50").Equal(created.Summary.Breakdown.Total))
	assert.Equal(t, pricing.PaymentStateUnpaid, created.Summary.PaymentState)
	require.NotNil(t, created.Invoice.DueDate)
	assert.Equal(t, testNow.AddDate(0, 0, 14), *created.Invoice.DueDate)

	id := created.Invoice.ID

	_, err = h.payments.RecordPayment(ctx, h.scope, id, &RecordPaymentInput{Amount: dec("10"), Method: enum.PaymentMethodCash})
	requireAppError(t, err, http.StatusConflict)

	rate := dec("5")
	updated, err := h.invoices.UpdateInvoice(ctx, h.scope, id, &InvoiceInput{
		TaxRate:   &rate,
		LineItems: append(cleaningLines(), LineInput{Description: "Fridge", Quantity: dec("1"), UnitPrice: dec("40")}),
	})
	require.NoError(t, err)
	assert.True(t, dec("290.00").Equal(updated.Summary.Breakdown.Subtotal))
	assert.True(t, dec("14.50").Equal(updated.Summary.Breakdown.TaxAmount))
	assert.True(t, dec("304.50").Equal(updated.Summary.Breakdown.Total))

	sent, err := h.invoices.SendInvoice(ctx, h.scope, id)
	require.NoError(t, err)
	assert.True(t, sent.Emailed)
	assert.Equal(t, enum.InvoiceStatusSent, sent.Detail.Invoice.Status)
	require.Len(t, h.mails, 1)
	assert.Equal(t, []string{"jane@example.com"}, h.mails[0].to)
	assert.Contains(t, string(h.mails[0].msg), `filename="`+created.Invoice.Number+`.pdf"`)

	_, err = h.invoices.UpdateInvoice(ctx, h.scope, id, &InvoiceInput{LineItems: cleaningLines()})
	assert.ErrorIs(t, err, apperror.ErrInvoiceLocked)

	first, err := h.payments.RecordPayment(ctx, h.scope, id, &RecordPaymentInput{Amount: dec("100"), Method: enum.PaymentMethodCard})
	require.NoError(t, err)
	assert.False(t, first.Overpayment)
	assert.True(t, dec("204.50").Equal(first.Invoice.Summary.Reconciliation.BalanceDue))
	assert.Equal(t, pricing.PaymentStatePartial, first.Invoice.Summary.PaymentState)

	second, err := h.payments.RecordPayment(ctx, h.scope, id, &RecordPaymentInput{Amount: dec("220.004"), Method: enum.PaymentMethodCash})
	require.NoError(t, err)
	assert.True(t, second.Overpayment)
	assert.True(t, dec("220.00").Equal(second.Payment.Amount))
	assert.True(t, dec("-15.50").Equal(second.Invoice.Summary.Reconciliation.BalanceDue))
	assert.Equal(t, pricing.PaymentStateOverpaid, second.Invoice.Summary.PaymentState)

	// the stored status is left alone by payments
	got, err := h.invoices.GetInvoice(ctx, h.scope, id)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusSent, got.Invoice.Status)
	assert.True(t, dec("320.00").Equal(got.Summary.Reconciliation.AmountPaid))
	assert.Equal(t, pricing.PaymentStateOverpaid, got.Summary.PaymentState)
	assert.False(t, got.Overdue)

	err = h.invoices.DeleteInvoice(ctx, h.scope, id)
	requireAppError(t, err, http.StatusConflict)

	require.NoError(t, h.payments.DeletePayment(ctx, h.scope, second.Payment.ID))
	got, err = h.invoices.GetInvoice(ctx, h.scope, id)
	require.NoError(t, err)
	assert.True(t, dec("204.50").Equal(got.Summary.Reconciliation.BalanceDue))
}

func TestCreateInvoiceRejectsNegativeValues(t *testing.T) {
	h := newHarness(t)
	client := h.client(t, "Jane Doe", "jane@example.com")

	rate := dec("-1")
	_, err := h.invoices.CreateInvoice(context.Background(), h.scope, &InvoiceInput{
		ClientID: client.ID,
		TaxRate:  &rate,
		LineItems: []LineInput{
			{Description: "Clean", Quantity: dec("-2"), UnitPrice: dec("10")},
			{Description: " ", Quantity: dec("1"), UnitPrice: dec("-5")},
		},
	})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.ElementsMatch(t, []string{
		"tax_rate",
		"line_items[0].quantity",
		"line_items[1].description",
		"line_items[1].unit_price",
	}, fieldNames(appErr))
}

func TestCreateInvoiceRejectsOutOfRangeValues(t *testing.T) {
	h := newHarness(t)
	client := h.client(t, "Jane Doe", "jane@example.com")

	rate := dec("1e99999999")
	_, err := h.invoices.CreateInvoice(context.Background(), h.scope, &InvoiceInput{
		ClientID: client.ID,
		TaxRate:  &rate,
		LineItems: []LineInput{
			{Description: "Clean", Quantity: dec("1e99999999"), UnitPrice: dec("10")},
			{Description: "Windows", Quantity: dec("1"), UnitPrice: dec("1e-99999999")},
		},
	})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.ElementsMatch(t, []string{
		"tax_rate",
		"line_items[0].quantity",
		"line_items[1].unit_price",
	}, fieldNames(appErr))
}

func TestInvoiceJobMustBelongToClient(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	client := h.client(t, "Jane Doe", "jane@example.com")
	other := h.client(t, "John Roe", "john@example.com")

	own, err := h.jobs.CreateJob(ctx, h.scope, &JobInput{ClientID: client.ID, Title: "Weekly"})
	require.NoError(t, err)
	othersJob, err := h.jobs.CreateJob(ctx, h.scope, &JobInput{ClientID: other.ID, Title: "Move out"})
	require.NoError(t, err)

	rival := &entity.User{FirstName: "Rita", LastName: "Rival", Email: "rita@rival.test"}
	rivalTenant := &entity.Tenant{Name: "Rival Cleaning", Slug: "rival", Active: true, Settings: entity.DefaultTenantSettings()}
	require.NoError(t, infra.NewTenantRepository(h.db).Register(ctx, rival, rivalTenant))
	rivalScope := tenancy.ForTenant(rivalTenant.ID, rival.ID)
	rivalClient, err := h.clients.CreateClient(ctx, rivalScope, &ClientInput{Name: "Sam Smith"})
	require.NoError(t, err)
	foreign, err := h.jobs.CreateJob(ctx, rivalScope, &JobInput{ClientID: rivalClient.ID, Title: "Deep clean"})
	require.NoError(t, err)

	for _, jobID := range []uuid.UUID{foreign.Job.ID, othersJob.Job.ID, uuid.New()} {
		id := jobID
		_, err := h.invoices.CreateInvoice(ctx, h.scope, &InvoiceInput{ClientID: client.ID, JobID: &id, LineItems: cleaningLines()})
		appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
		assert.Equal(t, []string{"job_id"}, fieldNames(appErr))
	}

	ownID := own.Job.ID
	created, err := h.invoices.CreateInvoice(ctx, h.scope, &InvoiceInput{ClientID: client.ID, JobID: &ownID, LineItems: cleaningLines()})
	require.NoError(t, err)
	require.NotNil(t, created.Invoice.JobID)
	assert.Equal(t, ownID, *created.Invoice.JobID)

	foreignID := foreign.Job.ID
	_, err = h.invoices.UpdateInvoice(ctx, h.scope, created.Invoice.ID, &InvoiceInput{ClientID: client.ID, JobID: &foreignID, LineItems: cleaningLines()})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, []string{"job_id"}, fieldNames(appErr))

	stored, err := h.invoices.GetInvoice(ctx, h.scope, created.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, ownID, *stored.Invoice.JobID)
}

func TestInvoiceStatusTransitions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	client := h.client(t, "Jane Doe", "jane@example.com")

	created, err := h.invoices.CreateInvoice(ctx, h.scope, &InvoiceInput{ClientID: client.ID, LineItems: cleaningLines()})
	require.NoError(t, err)
	id := created.Invoice.ID

	_, err = h.invoices.UpdateInvoiceStatus(ctx, h.scope, id, enum.InvoiceStatusPaid)
	requireAppError(t, err, http.StatusConflict)

	sent, err := h.invoices.UpdateInvoiceStatus(ctx, h.scope, id, enum.InvoiceStatusSent)
	require.NoError(t, err)
	require.NotNil(t, sent.Invoice.SentAt)

	h.invoices.now = func() time.Time { return testNow.AddDate(0, 1, 0) }
	late, err := h.invoices.GetInvoice(ctx, h.scope, id)
	require.NoError(t, err)
	assert.True(t, late.Overdue)

	paid, err := h.invoices.UpdateInvoiceStatus(ctx, h.scope, id, enum.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPaid, paid.Invoice.Status)
	assert.Equal(t, pricing.PaymentStateUnpaid, paid.Summary.PaymentState)
	assert.False(t, paid.Overdue)
}

func TestSendInvoiceWithoutClientEmail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	client, err := h.clients.CreateClient(ctx, h.scope, &ClientInput{Name: "No Mail"})
	require.NoError(t, err)

	created, err := h.invoices.CreateInvoice(ctx, h.scope, &InvoiceInput{ClientID: client.ID, LineItems: cleaningLines()})
	require.NoError(t, err)

	result, err := h.invoices.SendInvoice(ctx, h.scope, created.Invoice.ID)
	require.NoError(t, err)
	assert.False(t, result.Emailed)
	assert.Equal(t, enum.InvoiceStatusSent, result.Detail.Invoice.Status)
	assert.Empty(t, h.mails)

	empty, err := h.invoices.CreateInvoice(ctx, h.scope, &InvoiceInput{ClientID: client.ID})
	require.NoError(t, err)
	_, err = h.invoices.SendInvoice(ctx, h.scope, empty.Invoice.ID)
	requireAppError(t, err, http.StatusBadRequest)
}

func TestPreviewCoercesFormInput(t *testing.T) {
	h := newHarness(t)

	summary := h.invoices.Preview(&PreviewInput{
		LineItems: []PreviewLine{
			{Quantity: "2", UnitPrice: 49.995},
			{Quantity: "abc", UnitPrice: 100},
			{Quantity: nil, UnitPrice: "12.5"},
		},
		TaxRate:  "13",
		Payments: []any{"50", "oops", 10.0},
	})

	assert.True(t, dec("99.99").Equal(summary.Breakdown.Subtotal))
	assert.True(t, dec("13.00").Equal(summary.Breakdown.TaxAmount))
	assert.True(t, dec("112.99").Equal(summary.Breakdown.Total))
	assert.True(t, dec("60.00").Equal(summary.Reconciliation.AmountPaid))
	assert.True(t, dec("52.99").Equal(summary.Reconciliation.BalanceDue))
	assert.Equal(t, pricing.PaymentStatePartial, summary.PaymentState)
}

func TestPaymentValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	client := h.client(t, "Jane Doe", "jane@example.com")
	created, err := h.invoices.CreateInvoice(ctx, h.scope, &InvoiceInput{ClientID: client.ID, LineItems: cleaningLines()})
	require.NoError(t, err)
	_, err = h.invoices.UpdateInvoiceStatus(ctx, h.scope, created.Invoice.ID, enum.InvoiceStatusSent)
	require.NoError(t, err)

	for _, amount := range []string{"0", "-5", "0.004", "1e99999999", "1e-99999999"} {
		_, err := h.payments.RecordPayment(ctx, h.scope, created.Invoice.ID, &RecordPaymentInput{Amount: dec(amount), Method: enum.PaymentMethodCash})
		appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
		assert.Equal(t, []string{"amount"}, fieldNames(appErr), amount)
	}

	exact, err := h.payments.RecordPayment(ctx, h.scope, created.Invoice.ID, &RecordPaymentInput{Amount: dec("282.50"), Method: enum.PaymentMethodCheck})
	require.NoError(t, err)
	assert.False(t, exact.Overpayment)
	assert.Equal(t, pricing.PaymentStatePaid, exact.Invoice.Summary.PaymentState)
}

func TestPaymentDashboard(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	client := h.client(t, "Jane Doe", "jane@example.com")
	created, err := h.invoices.CreateInvoice(ctx, h.scope, &InvoiceInput{ClientID: client.ID, LineItems: cleaningLines()})
	require.NoError(t, err)
	_, err = h.invoices.SendInvoice(ctx, h.scope, created.Invoice.ID)
	require.NoError(t, err)

	for i, amount := range []string{"10", "20", "30"} {
		paidAt := testNow.Add(time.Duration(i) * time.Hour)
		method := enum.PaymentMethodCash
		if i == 2 {
			method = enum.PaymentMethodCard
		}
		_, err := h.payments.RecordPayment(ctx, h.scope, created.Invoice.ID, &RecordPaymentInput{Amount: dec(amount), Method: method, PaidAt: &paidAt})
		require.NoError(t, err)
	}

	params := &pagination.CursorParams{Limit: 2}
	page, err := h.payments.ListPayments(ctx, h.scope, params, repository.PaymentFilter{})
	require.NoError(t, err)
	require.Len(t, page.Payments.Items, 2)
	assert.True(t, page.Payments.Pagination.HasNext)
	assert.True(t, dec("30").Equal(page.Payments.Items[0].Amount))
	assert.True(t, dec("60.00").Equal(page.Collected))

	params = &pagination.CursorParams{Limit: 2, Cursor: *page.Payments.Pagination.NextCursor}
	next, err := h.payments.ListPayments(ctx, h.scope, params, repository.PaymentFilter{})
	require.NoError(t, err)
	require.Len(t, next.Payments.Items, 1)
	assert.False(t, next.Payments.Pagination.HasNext)
	assert.True(t, dec("10").Equal(next.Payments.Items[0].Amount))

	cash := enum.PaymentMethodCash
	filtered, err := h.payments.ListPayments(ctx, h.scope, &pagination.CursorParams{}, repository.PaymentFilter{Method: &cash})
	require.NoError(t, err)
	assert.Len(t, filtered.Payments.Items, 2)
	assert.True(t, dec("30.00").Equal(filtered.Collected))

	from, to := testNow, testNow.Add(-time.Hour)
	_, err = h.payments.ListPayments(ctx, h.scope, &pagination.CursorParams{}, repository.PaymentFilter{From: &from, To: &to})
	requireAppError(t, err, http.StatusBadRequest)

	listed, err := h.payments.ListInvoicePayments(ctx, h.scope, created.Invoice.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}

func TestDashboardStats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	jane := h.client(t, "Jane Doe", "jane@example.com")
	john := h.client(t, "John Roe", "john@example.com")

	janeInvoice, err := h.invoices.CreateInvoice(ctx, h.scope, &InvoiceInput{ClientID: jane.ID, LineItems: cleaningLines()})
	require.NoError(t, err)
	johnInvoice, err := h.invoices.CreateInvoice(ctx, h.scope, &InvoiceInput{ClientID: john.ID, LineItems: cleaningLines()})
	require.NoError(t, err)
	_, err = h.invoices.CreateInvoice(ctx, h.scope, &InvoiceInput{ClientID: john.ID, LineItems: cleaningLines()})
	require.NoError(t, err)

	for _, d := range []*InvoiceDetail{janeInvoice, johnInvoice} {
		_, err := h.invoices.SendInvoice(ctx, h.scope, d.Invoice.ID)
		require.NoError(t, err)
	}

	today, yesterday := testNow, testNow.AddDate(0, 0, -1)
	_, err = h.payments.RecordPayment(ctx, h.scope, janeInvoice.Invoice.ID, &RecordPaymentInput{Amount: dec("300"), Method: enum.PaymentMethodCard, PaidAt: &today})
	require.NoError(t, err)
	_, err = h.payments.RecordPayment(ctx, h.scope, johnInvoice.Invoice.ID, &RecordPaymentInput{Amount: dec("82.50"), Method: enum.PaymentMethodCash, PaidAt: &yesterday})
	require.NoError(t, err)

	stats, err := h.dashboard.GetDashboardStats(ctx, h.scope)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Clients)
	assert.Equal(t, 1, stats.OpenInvoices)
	assert.Equal(t, 0, stats.OverdueInvoices)
	assert.True(t, dec("200.00").Equal(stats.Outstanding))
	assert.True(t, dec("17.50").Equal(stats.Overpaid))
	assert.True(t, dec("382.50").Equal(stats.CollectedThisMonth))

	require.Len(t, stats.DailyCollected, 7)
	assert.Equal(t, "2026-03-04", stats.DailyCollected[0].Date)
	assert.Equal(t, "2026-03-10", stats.DailyCollected[6].Date)
	assert.True(t, dec("300.00").Equal(stats.DailyCollected[6].Collected))
	assert.True(t, dec("82.50").Equal(stats.DailyCollected[5].Collected))
	assert.True(t, stats.DailyCollected[0].Collected.IsZero())

	require.Len(t, stats.TopClients, 2)
	assert.Equal(t, "Jane Doe", stats.TopClients[0].ClientName)
	assert.True(t, dec("300.00").Equal(stats.TopClients[0].Collected))
}
