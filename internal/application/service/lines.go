package service

import (
	"fmt"
	"strings"

	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/pricing"
	"github.com/sangkips/cleanops-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

const outOfRange = "is out of range"

// LineInput is one priced row as submitted for an estimate, job or invoice
type LineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// buildLines validates the rows and turns them into stored line fields.
// Negative amounts are rejected here; the pricing core itself assumes
// non-negative input.
func buildLines(inputs []LineInput, taxRate decimal.Decimal) ([]entity.LineFields, error) {
	var errs []apperror.FieldError

	if taxRate.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "tax_rate", Message: "must not be negative"})
	} else if !pricing.Bounded(taxRate) {
		errs = append(errs, apperror.FieldError{Field: "tax_rate", Message: outOfRange})
	}

	lines := make([]entity.LineFields, 0, len(inputs))
	for i, in := range inputs {
		prefix := fmt.Sprintf("line_items[%d]", i)
		if strings.TrimSpace(in.Description) == "" {
			errs = append(errs, apperror.FieldError{Field: prefix + ".description", Message: "is required"})
		}
		if in.Quantity.IsNegative() {
			errs = append(errs, apperror.FieldError{Field: prefix + ".quantity", Message: "must not be negative"})
		} else if !pricing.Bounded(in.Quantity) {
			errs = append(errs, apperror.FieldError{Field: prefix + ".quantity", Message: outOfRange})
		}
		if in.UnitPrice.IsNegative() {
			errs = append(errs, apperror.FieldError{Field: prefix + ".unit_price", Message: "must not be negative"})
		} else if !pricing.Bounded(in.UnitPrice) {
			errs = append(errs, apperror.FieldError{Field: prefix + ".unit_price", Message: outOfRange})
		}

		line := entity.LineFields{
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Position:    i,
		}
		line.RefreshTotal()
		lines = append(lines, line)
	}

	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}
	return lines, nil
}

func invoiceLines(lines []entity.LineFields) []entity.InvoiceLineItem {
	rows := make([]entity.InvoiceLineItem, len(lines))
	for i, l := range lines {
		rows[i] = entity.InvoiceLineItem{LineFields: l}
	}
	return rows
}

func estimateLines(lines []entity.LineFields) []entity.EstimateLineItem {
	rows := make([]entity.EstimateLineItem, len(lines))
	for i, l := range lines {
		rows[i] = entity.EstimateLineItem{LineFields: l}
	}
	return rows
}

func jobLines(lines []entity.LineFields) []entity.JobLineItem {
	rows := make([]entity.JobLineItem, len(lines))
	for i, l := range lines {
		rows[i] = entity.JobLineItem{LineFields: l}
	}
	return rows
}

// copyLines carries rows from one document to another
func copyLines[T interface{ Fields() entity.LineFields }](rows []T) []entity.LineFields {
	lines := make([]entity.LineFields, len(rows))
	for i, r := range rows {
		lines[i] = r.Fields()
	}
	return lines
}
