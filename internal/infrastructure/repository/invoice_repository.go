package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	domainRepo "github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/domain/tenancy"
	"github.com/sangkips/cleanops-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

// withMoney preloads everything the pricing summary needs
func withMoney(db *gorm.DB) *gorm.DB {
	return db.
		Preload("LineItems", byPosition).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC, created_at ASC") }).
		Preload("Client")
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Omit("Client", "Payments").Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(scope), withMoney).
		First(&invoice, "id = ?", id).Error
	return notFound(&invoice, err)
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(invoice).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&entity.InvoiceLineItem{}).Error; err != nil {
			return err
		}
		if len(invoice.LineItems) == 0 {
			return nil
		}
		for i := range invoice.LineItems {
			invoice.LineItems[i].ID = uuid.Nil
			invoice.LineItems[i].InvoiceID = invoice.ID
		}
		return tx.Create(&invoice.LineItems).Error
	})
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, scope tenancy.Scope, id uuid.UUID, status enum.InvoiceStatus, sentAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if sentAt != nil {
		updates["sent_at"] = *sentAt
	}
	return r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Scopes(TenantScope(scope)).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(TenantScope(scope)).Delete(&entity.Invoice{}, "id = ?", id)
		if result.Error != nil || result.RowsAffected == 0 {
			return result.Error
		}
		return tx.Where("invoice_id = ?", id).Delete(&entity.InvoiceLineItem{}).Error
	})
}

func (r *invoiceRepository) List(ctx context.Context, scope tenancy.Scope, params *pagination.PaginationParams, filter domainRepo.InvoiceFilter) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).Scopes(TenantScope(scope))
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		like := "%" + term + "%"
		clients := r.db.Model(&entity.Client{}).Select("id").Where("LOWER(name) LIKE ?", like)
		query = query.Where("(LOWER(number) LIKE ? OR client_id IN (?))", like, clients)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.
		Scopes(withMoney).
		Offset(params.Offset()).Limit(params.PerPage).
		Order("issue_date DESC, created_at DESC").
		Find(&invoices).Error

	return invoices, total, err
}

func (r *invoiceRepository) ListByStatus(ctx context.Context, scope tenancy.Scope, statuses ...enum.InvoiceStatus) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	if len(statuses) == 0 {
		return invoices, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(scope), withMoney).
		Where("status IN ?", statuses).
		Order("issue_date ASC").
		Find(&invoices).Error
	return invoices, err
}
