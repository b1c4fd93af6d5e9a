package entity

import (
	"github.com/sangkips/cleanops-api/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// LineFields are the columns shared by estimate, job and invoice lines.
// Total is a display cache refreshed on save; totals are always recomputed
// from Quantity and UnitPrice.
type LineFields struct {
	Description string          `gorm:"size:500;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	Total       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total"`
	Position    int             `gorm:"not null;default:0" json:"position"`
}

// PricingLine converts the row into a pricing input
func (l LineFields) PricingLine() pricing.LineItem {
	return pricing.LineItem{Quantity: l.Quantity, UnitPrice: l.UnitPrice}
}

// Fields returns the shared columns, id and parent stripped
func (l LineFields) Fields() LineFields {
	return l
}

// RefreshTotal rewrites the display cache
func (l *LineFields) RefreshTotal() {
	l.Total = l.PricingLine().Amount()
}

type priced interface {
	PricingLine() pricing.LineItem
}

// PricingLines maps stored rows to pricing inputs
func PricingLines[T priced](rows []T) []pricing.LineItem {
	items := make([]pricing.LineItem, len(rows))
	for i, row := range rows {
		items[i] = row.PricingLine()
	}
	return items
}
