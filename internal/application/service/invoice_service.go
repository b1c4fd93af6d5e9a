package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/pricing"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/sangkips/cleanops-api/pkg/email"
	"github.com/sangkips/cleanops-api/pkg/logger"
	"github.com/sangkips/cleanops-api/pkg/pagination"
	"github.com/sangkips/cleanops-api/pkg/pdf"
	"github.com/sangkips/cleanops-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// InvoiceService handles invoices. Totals are never stored; every read
// prices the line items and reconciles the payments afresh.
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	refs         documentRefs
	emailService *email.EmailService
	render       func(pdf.InvoiceData) ([]byte, error)
	now          func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	tenantRepo repository.TenantRepository,
	clientRepo repository.ClientRepository,
	propertyRepo repository.PropertyRepository,
	jobRepo repository.JobRepository,
	emailService *email.EmailService,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		refs:         documentRefs{tenantRepo: tenantRepo, clientRepo: clientRepo, propertyRepo: propertyRepo, jobRepo: jobRepo},
		emailService: emailService,
		render:       pdf.RenderInvoice,
		now:          time.Now,
	}
}

// InvoiceDetail is an invoice with its derived money picture. Status is the
// stored, user-controlled state; Summary.PaymentState is derived from the
// balance and may disagree with it.
type InvoiceDetail struct {
	Invoice *entity.Invoice
	Summary pricing.Summary
	Overdue bool
}

func (s *InvoiceService) detail(invoice *entity.Invoice) *InvoiceDetail {
	summary := invoice.Summary()
	return &InvoiceDetail{
		Invoice: invoice,
		Summary: summary,
		Overdue: invoice.IsOverdue(s.now()) && !summary.Reconciliation.IsSettled(),
	}
}

// InvoiceInput represents the create and update invoice input. A nil
// TaxRate takes the tenant's default; a nil DueDate applies payment terms.
type InvoiceInput struct {
	ClientID  uuid.UUID
	JobID     *uuid.UUID
	IssueDate *time.Time
	DueDate   *time.Time
	TaxRate   *decimal.Decimal
	Notes     *string
	LineItems []LineInput
}

// CreateInvoice creates a DRAFT invoice
func (s *InvoiceService) CreateInvoice(ctx context.Context, scope tenancy.Scope, input *InvoiceInput) (*InvoiceDetail, error) {
	tenant, err := s.refs.tenant(ctx, scope)
	if err != nil {
		return nil, err
	}

	taxRate := tenant.Settings.DefaultTaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	lines, err := buildLines(input.LineItems, taxRate)
	if err != nil {
		return nil, err
	}

	client, err := s.refs.client(ctx, scope, input.ClientID)
	if err != nil {
		return nil, err
	}
	if err := s.refs.job(ctx, scope, client.ID, input.JobID); err != nil {
		return nil, err
	}

	invoice := s.newInvoice(tenant, client.ID, taxRate, lines)
	invoice.JobID = input.JobID
	invoice.Notes = input.Notes
	s.applyDates(invoice, tenant, input.IssueDate, input.DueDate)

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	invoice.Client = client
	return s.detail(invoice), nil
}

func (s *InvoiceService) newInvoice(tenant *entity.Tenant, clientID uuid.UUID, taxRate decimal.Decimal, lines []entity.LineFields) *entity.Invoice {
	now := s.now().UTC()
	return &entity.Invoice{
		TenantID:  tenant.ID,
		Number:    utils.GenerateDocumentNo(tenant.Settings.InvoicePrefix, now),
		ClientID:  clientID,
		Status:    enum.InvoiceStatusDraft,
		IssueDate: now,
		TaxRate:   taxRate,
		LineItems: invoiceLines(lines),
	}
}

func (s *InvoiceService) applyDates(invoice *entity.Invoice, tenant *entity.Tenant, issue, due *time.Time) {
	if issue != nil {
		invoice.IssueDate = issue.UTC()
	}
	switch {
	case due != nil:
		d := due.UTC()
		invoice.DueDate = &d
	case tenant.Settings.PaymentTermsDays > 0:
		d := invoice.IssueDate.AddDate(0, 0, tenant.Settings.PaymentTermsDays)
		invoice.DueDate = &d
	}
}

func (s *InvoiceService) load(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// GetInvoice retrieves an invoice with pricing and payment reconciliation
func (s *InvoiceService) GetInvoice(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*InvoiceDetail, error) {
	invoice, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return s.detail(invoice), nil
}

// ListInvoices lists invoices, each with its own summary
func (s *InvoiceService) ListInvoices(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, filter repository.InvoiceFilter) (*pagination.PaginatedResult[*InvoiceDetail], error) {
	invoices, total, err := s.invoiceRepo.List(ctx, scope, params, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*InvoiceDetail, len(invoices))
	for i := range invoices {
		items[i] = s.detail(&invoices[i])
	}

	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, p), nil
}

// UpdateInvoice rewrites a DRAFT invoice. Once sent, line items and tax
// are frozen so recorded payments keep reconciling against the same total.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, scope tenancy.Scope, id uuid.UUID, input *InvoiceInput) (*InvoiceDetail, error) {
	invoice, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !invoice.Status.IsEditable() {
		return nil, apperror.ErrInvoiceLocked
	}

	tenant, err := s.refs.tenant(ctx, scope)
	if err != nil {
		return nil, err
	}

	taxRate := invoice.TaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	lines, err := buildLines(input.LineItems, taxRate)
	if err != nil {
		return nil, err
	}

	if input.ClientID != uuid.Nil && input.ClientID != invoice.ClientID {
		client, err := s.refs.client(ctx, scope, input.ClientID)
		if err != nil {
			return nil, err
		}
		invoice.ClientID = client.ID
		invoice.Client = client
	}
	if err := s.refs.job(ctx, scope, invoice.ClientID, input.JobID); err != nil {
		return nil, err
	}

	invoice.JobID = input.JobID
	invoice.TaxRate = taxRate
	invoice.Notes = input.Notes
	invoice.LineItems = invoiceLines(lines)
	invoice.DueDate = nil
	s.applyDates(invoice, tenant, input.IssueDate, input.DueDate)

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return s.detail(invoice), nil
}

// UpdateInvoiceStatus moves the stored status. Payments never change it on
// their own; marking an invoice PAID is an explicit action.
func (s *InvoiceService) UpdateInvoiceStatus(ctx context.Context, scope tenancy.Scope, id uuid.UUID, status enum.InvoiceStatus) (*InvoiceDetail, error) {
	invoice, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == status {
		return s.detail(invoice), nil
	}
	if !invoice.Status.CanTransitionTo(status) {
		return nil, apperror.NewConflictError("Cannot change invoice from " + invoice.Status.String() + " to " + status.String())
	}

	var sentAt *time.Time
	if status == enum.InvoiceStatusSent && invoice.SentAt == nil {
		now := s.now().UTC()
		sentAt = &now
		invoice.SentAt = sentAt
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, scope, id, status, sentAt); err != nil {
		return nil, err
	}
	invoice.Status = status
	return s.detail(invoice), nil
}

// DeleteInvoice deletes an invoice that has no payments recorded
func (s *InvoiceService) DeleteInvoice(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	invoice, err := s.load(ctx, scope, id)
	if err != nil {
		return err
	}
	if len(invoice.Payments) > 0 {
		return apperror.NewConflictError("Invoice has payments; delete them first or cancel the invoice")
	}
	return s.invoiceRepo.Delete(ctx, scope, id)
}

// PreviewLine is an unvalidated row from an invoice form being edited
type PreviewLine struct {
	Quantity  any
	UnitPrice any
}

// PreviewInput is whatever the form currently holds
type PreviewInput struct {
	LineItems []PreviewLine
	TaxRate   any
	Payments  []any
}

// Preview prices an in-progress form. Values that are not numbers count as
// zero instead of failing, so half-typed input still renders totals.
func (s *InvoiceService) Preview(input *PreviewInput) pricing.Summary {
	items := make([]pricing.LineItem, len(input.LineItems))
	for i, l := range input.LineItems {
		items[i] = pricing.Line(l.Quantity, l.UnitPrice)
	}
	return pricing.Summarize(items, pricing.Coerce(input.TaxRate), pricing.Amounts(input.Payments...))
}

// SendResult reports what Send did
type SendResult struct {
	Detail  *InvoiceDetail
	Emailed bool
}

// SendInvoice marks the invoice SENT and emails it to the client's primary
// address with the PDF attached, when email is configured
func (s *InvoiceService) SendInvoice(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*SendResult, error) {
	invoice, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == enum.InvoiceStatusCancelled {
		return nil, apperror.NewConflictError("A cancelled invoice cannot be sent")
	}
	if len(invoice.LineItems) == 0 {
		return nil, apperror.NewBadRequestError("Add at least one line item before sending")
	}

	tenant, err := s.refs.tenant(ctx, scope)
	if err != nil {
		return nil, err
	}

	if invoice.Status == enum.InvoiceStatusDraft {
		now := s.now().UTC()
		if err := s.invoiceRepo.UpdateStatus(ctx, scope, id, enum.InvoiceStatusSent, &now); err != nil {
			return nil, err
		}
		invoice.Status = enum.InvoiceStatusSent
		invoice.SentAt = &now
	}

	detail := s.detail(invoice)
	result := &SendResult{Detail: detail}

	recipient := ""
	if invoice.Client != nil {
		recipient = invoice.Client.PrimaryEmail()
	}
	if recipient == "" || !tenant.Settings.EmailNotifications || !s.emailService.IsConfigured() {
		return result, nil
	}

	doc, err := s.render(s.documentData(tenant, detail))
	if err != nil {
		return nil, err
	}

	err = s.emailService.SendInvoiceEmail(email.InvoiceEmail{
		To:           recipient,
		ClientName:   invoice.Client.Name,
		BusinessName: tenant.Name,
		InvoiceNo:    invoice.Number,
		Total:        money(tenant, detail.Summary.Breakdown.Total),
		BalanceDue:   money(tenant, detail.Summary.Reconciliation.BalanceDue),
		DueDate:      formatDate(invoice.DueDate),
		PDF:          doc,
	})
	if err != nil && !errors.Is(err, email.ErrNotConfigured) {
		logger.FromContext(ctx).Error("failed to email invoice",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
		return result, nil
	}

	result.Emailed = err == nil
	return result, nil
}

// RenderPDF renders the invoice document and returns it with a file name
func (s *InvoiceService) RenderPDF(ctx context.Context, scope tenancy.Scope, id uuid.UUID) ([]byte, string, error) {
	invoice, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, "", err
	}
	tenant, err := s.refs.tenant(ctx, scope)
	if err != nil {
		return nil, "", err
	}

	doc, err := s.render(s.documentData(tenant, s.detail(invoice)))
	if err != nil {
		return nil, "", err
	}
	return doc, invoice.Number + ".pdf", nil
}

func (s *InvoiceService) documentData(tenant *entity.Tenant, d *InvoiceDetail) pdf.InvoiceData {
	inv := d.Invoice
	data := pdf.InvoiceData{
		BusinessName:  tenant.Name,
		BusinessEmail: deref(tenant.Email),
		BusinessPhone: deref(tenant.Phone),
		InvoiceNumber: inv.Number,
		Status:        inv.Status.String(),
		IssueDate:     inv.IssueDate.Format(dateLayout),
		DueDate:       formatDate(inv.DueDate),
		Currency:      tenant.Settings.Currency,
		Subtotal:      d.Summary.Breakdown.Subtotal.StringFixed(pricing.Places),
		TaxRate:       d.Summary.Breakdown.TaxRatePercent.String() + "%",
		TaxAmount:     d.Summary.Breakdown.TaxAmount.StringFixed(pricing.Places),
		Total:         d.Summary.Breakdown.Total.StringFixed(pricing.Places),
		AmountPaid:    d.Summary.Reconciliation.AmountPaid.StringFixed(pricing.Places),
		BalanceDue:    d.Summary.Reconciliation.BalanceDue.StringFixed(pricing.Places),
		Notes:         deref(inv.Notes),
	}
	if inv.Client != nil {
		data.ClientName = inv.Client.Name
		data.ClientEmail = inv.Client.PrimaryEmail()
		data.ClientAddress = inv.Client.BillingAddress.String()
	}
	for _, li := range inv.LineItems {
		line := li.PricingLine()
		data.Items = append(data.Items, pdf.InvoiceItem{
			Description: li.Description,
			Quantity:    li.Quantity.String(),
			UnitPrice:   li.UnitPrice.StringFixed(pricing.Places),
			Amount:      line.Amount().StringFixed(pricing.Places),
		})
	}
	return data
}

func money(tenant *entity.Tenant, d decimal.Decimal) string {
	return tenant.Settings.Currency + " " + d.StringFixed(pricing.Places)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
