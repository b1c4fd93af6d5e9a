package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/pricing"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/sangkips/cleanops-api/pkg/logger"
	"github.com/sangkips/cleanops-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService records money received against invoices. Payments never
// change the stored invoice status; the payment state is derived on read.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	invoices    *InvoiceService
	now         func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repository.PaymentRepository, invoices *InvoiceService) *PaymentService {
	return &PaymentService{paymentRepo: paymentRepo, invoices: invoices, now: time.Now}
}

// RecordPaymentInput represents the record payment input
type RecordPaymentInput struct {
	Amount    decimal.Decimal
	Method    enum.PaymentMethod
	PaidAt    *time.Time
	Reference *string
	Notes     *string
}

// RecordPaymentOutput is the stored payment and the invoice as it stands
// afterwards. Overpayment is set when the amount exceeded what was owed.
type RecordPaymentOutput struct {
	Payment     *entity.Payment
	Invoice     *InvoiceDetail
	Overpayment bool
}

// RecordPayment stores a payment against a sent invoice. Paying more than
// the balance is allowed and flagged.
func (s *PaymentService) RecordPayment(ctx context.Context, scope tenancy.Scope, invoiceID uuid.UUID, input *RecordPaymentInput) (*RecordPaymentOutput, error) {
	if !pricing.Bounded(input.Amount) {
		return nil, apperror.Invalid("amount", outOfRange)
	}
	amount := input.Amount.Round(pricing.Places)
	if !amount.IsPositive() {
		return nil, apperror.Invalid("amount", "must be greater than 0")
	}
	if !input.Method.IsValid() {
		return nil, apperror.Invalid("method", "is not a supported payment method")
	}

	invoice, err := s.invoices.load(ctx, scope, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.Status.IsCollectable() {
		return nil, apperror.NewConflictError("Payments can only be recorded against sent invoices")
	}

	before := invoice.Summary()
	overpayment := amount.GreaterThan(before.Reconciliation.BalanceDue)

	paidAt := s.now().UTC()
	if input.PaidAt != nil {
		paidAt = input.PaidAt.UTC()
	}

	payment := &entity.Payment{
		TenantID:   invoice.TenantID,
		InvoiceID:  invoice.ID,
		Amount:     amount,
		Method:     input.Method,
		PaidAt:     paidAt,
		Reference:  input.Reference,
		Notes:      input.Notes,
		RecordedBy: scope.UserID,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if overpayment {
		logger.FromContext(ctx).Warn("payment exceeds balance due",
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("amount", amount.StringFixed(pricing.Places)),
			zap.String("balance_due", before.Reconciliation.BalanceDue.StringFixed(pricing.Places)),
		)
	}

	invoice.Payments = append(invoice.Payments, *payment)
	return &RecordPaymentOutput{
		Payment:     payment,
		Invoice:     s.invoices.detail(invoice),
		Overpayment: overpayment,
	}, nil
}

// ListInvoicePayments lists the payments of one invoice, newest first
func (s *PaymentService) ListInvoicePayments(ctx context.Context, scope tenancy.Scope, invoiceID uuid.UUID) ([]entity.Payment, error) {
	if _, err := s.invoices.load(ctx, scope, invoiceID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByInvoice(ctx, scope, invoiceID)
}

// PaymentDashboard is one page of payments plus the amount collected across
// every payment matching the filter
type PaymentDashboard struct {
	Payments  *pagination.CursorPaginatedResult[entity.Payment]
	Collected decimal.Decimal
}

// ListPayments pages through the tenant's payments, newest first
func (s *PaymentService) ListPayments(ctx context.Context, scope tenancy.Scope, params *pagination.CursorParams, filter repository.PaymentFilter) (*PaymentDashboard, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, apperror.NewBadRequestError("'to' must not be before 'from'")
	}

	rows, err := s.paymentRepo.ListWithCursor(ctx, scope, params, filter)
	if err != nil {
		return nil, err
	}
	meta, page := pagination.NewCursorPagination(rows, params, func(p entity.Payment) (string, time.Time) {
		return p.ID.String(), p.PaidAt
	})

	collected, err := s.paymentRepo.SumAmounts(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	return &PaymentDashboard{
		Payments:  pagination.NewCursorPaginatedResult(page, meta),
		Collected: collected,
	}, nil
}

// DeletePayment removes a mistaken payment
func (s *PaymentService) DeletePayment(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	payment, err := s.paymentRepo.GetByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if payment == nil {
		return apperror.NewNotFoundError("Payment")
	}
	if err := s.paymentRepo.Delete(ctx, scope, id); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("payment deleted",
		zap.String("payment_id", payment.ID.String()),
		zap.String("invoice_id", payment.InvoiceID.String()),
		zap.String("amount", payment.Amount.StringFixed(pricing.Places)),
	)
	return nil
}
