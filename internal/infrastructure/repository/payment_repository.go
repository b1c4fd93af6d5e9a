package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	domainRepo "github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Omit("Invoice").Create(payment).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).Scopes(TenantScope(scope)).First(&payment, "id = ?", id).Error
	return notFound(&payment, err)
}

func (r *paymentRepository) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(scope)).Delete(&entity.Payment{}, "id = ?", id).Error
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, scope tenancy.Scope, invoiceID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(scope)).
		Where("invoice_id = ?", invoiceID).
		Order("paid_at ASC, created_at ASC").
		Find(&payments).Error
	return payments, err
}

func filterPayments(filter domainRepo.PaymentFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Method != nil {
			db = db.Where("method = ?", *filter.Method)
		}
		if filter.From != nil {
			db = db.Where("paid_at >= ?", *filter.From)
		}
		if filter.To != nil {
			db = db.Where("paid_at < ?", *filter.To)
		}
		return db
	}
}

// ListWithCursor pages newest first. The keyset is (paid_at, id), spelled
// out without row-value comparison so it runs on SQLite as well.
func (r *paymentRepository) ListWithCursor(ctx context.Context, scope tenancy.Scope, params *pagination.CursorParams, filter domainRepo.PaymentFilter) ([]entity.Payment, error) {
	var payments []entity.Payment

	params.Validate()
	cursor, err := params.DecodeCursor()
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Scopes(TenantScope(scope), filterPayments(filter)).
		Preload("Invoice").
		Preload("Invoice.Client")

	order := "paid_at DESC, id DESC"
	if cursor != nil {
		if params.Direction == pagination.CursorDirectionNext {
			query = query.Where("(paid_at < ? OR (paid_at = ? AND id < ?))", cursor.At, cursor.At, cursor.ID)
		} else {
			query = query.Where("(paid_at > ? OR (paid_at = ? AND id > ?))", cursor.At, cursor.At, cursor.ID)
			order = "paid_at ASC, id ASC"
		}
	}

	if err := query.Limit(params.Limit + 1).Order(order).Find(&payments).Error; err != nil {
		return nil, err
	}

	// prev pages are fetched oldest first; flip the page back to newest
	// first and leave the lookahead row at the end
	if cursor != nil && params.Direction == pagination.CursorDirectionPrev {
		page := payments
		if len(page) > params.Limit {
			page = page[:params.Limit]
		}
		for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
			page[i], page[j] = page[j], page[i]
		}
	}

	return payments, nil
}

func (r *paymentRepository) SumAmounts(ctx context.Context, scope tenancy.Scope, filter domainRepo.PaymentFilter) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Scopes(TenantScope(scope), filterPayments(filter)).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}
