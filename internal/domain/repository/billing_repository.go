package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	Search   string
	Status   *enum.InvoiceStatus
	ClientID *uuid.UUID
}

// InvoiceRepository defines the interface for invoice data operations.
// Reads preload line items, payments and the client so every caller can
// derive totals from the same snapshot.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Invoice, error)

	// Update rewrites the header and replaces all line items
	Update(ctx context.Context, invoice *entity.Invoice) error
	UpdateStatus(ctx context.Context, scope tenancy.Scope, id uuid.UUID, status enum.InvoiceStatus, sentAt *time.Time) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, filter InvoiceFilter) ([]entity.Invoice, int64, error)

	// ListByStatus returns every invoice in the given states, fully loaded
	ListByStatus(ctx context.Context, scope tenancy.Scope, statuses ...enum.InvoiceStatus) ([]entity.Invoice, error)
}

// PaymentFilter narrows the payments dashboard
type PaymentFilter struct {
	Method *enum.PaymentMethod
	From   *time.Time
	To     *time.Time
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Payment, error)
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	ListByInvoice(ctx context.Context, scope tenancy.Scope, invoiceID uuid.UUID) ([]entity.Payment, error)

	// ListWithCursor pages newest first by paid_at. It fetches limit+1 rows.
	ListWithCursor(ctx context.Context, scope tenancy.Scope, params *pagination.CursorParams, filter PaymentFilter) ([]entity.Payment, error)

	// SumAmounts totals payments matching the filter
	SumAmounts(ctx context.Context, scope tenancy.Scope, filter PaymentFilter) (decimal.Decimal, error)
}
