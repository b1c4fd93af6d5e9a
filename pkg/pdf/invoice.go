package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// InvoiceData is the pre-formatted content of an invoice document. Amounts
// arrive as display strings so rendering never redoes money math.
type InvoiceData struct {
	BusinessName  string
	BusinessEmail string
	BusinessPhone string

	InvoiceNumber string
	Status        string
	IssueDate     string
	DueDate       string

	ClientName    string
	ClientEmail   string
	ClientAddress string

	Items []InvoiceItem

	Currency   string
	Subtotal   string
	TaxRate    string
	TaxAmount  string
	Total      string
	AmountPaid string
	BalanceDue string

	Notes string
}

// InvoiceItem is a single rendered line
type InvoiceItem struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

var (
	small      = props.Text{Size: 9}
	smallRight = props.Text{Size: 9, Align: align.Right}
	headCell   = props.Text{Size: 9, Style: fontstyle.Bold}
	headRight  = props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
)

// RenderInvoice lays out an invoice and returns the PDF bytes
func RenderInvoice(invoice InvoiceData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(8, invoice.BusinessName, props.Text{Size: 18, Style: fontstyle.Bold}),
		text.NewCol(4, "INVOICE", props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Right}),
	)

	m.AddRow(22,
		col.New(6).Add(
			text.New(invoice.BusinessEmail, props.Text{Size: 9}),
			text.New(invoice.BusinessPhone, props.Text{Size: 9, Top: 4}),
		),
		col.New(6).Add(
			text.New("Invoice number: "+invoice.InvoiceNumber, props.Text{Size: 9, Align: align.Right}),
			text.New("Issued: "+invoice.IssueDate, props.Text{Size: 9, Top: 4, Align: align.Right}),
			text.New("Due: "+invoice.DueDate, props.Text{Size: 9, Top: 8, Align: align.Right}),
			text.New("Status: "+invoice.Status, props.Text{Size: 9, Top: 12, Align: align.Right}),
		),
	)

	m.AddRow(24,
		col.New(12).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(invoice.ClientName, props.Text{Top: 5}),
			text.New(invoice.ClientEmail, props.Text{Top: 9, Size: 9}),
			text.New(invoice.ClientAddress, props.Text{Top: 13, Size: 9}),
		),
	)

	m.AddRow(8,
		text.NewCol(6, "Description", headCell),
		text.NewCol(2, "Qty", headRight),
		text.NewCol(2, "Unit price", headRight),
		text.NewCol(2, "Amount", headRight),
	)

	for _, item := range invoice.Items {
		m.AddRow(7,
			text.NewCol(6, item.Description, small),
			text.NewCol(2, item.Quantity, smallRight),
			text.NewCol(2, item.UnitPrice, smallRight),
			text.NewCol(2, item.Amount, smallRight),
		)
	}

	totalRow := func(label, value string, bold bool) {
		l, v := small, smallRight
		if bold {
			l, v = headCell, headRight
		}
		m.AddRow(7, col.New(7), text.NewCol(3, label, l), text.NewCol(2, value, v))
	}

	totalRow("Subtotal", invoice.Subtotal, false)
	totalRow(fmt.Sprintf("Tax (%s%%)", invoice.TaxRate), invoice.TaxAmount, false)
	totalRow("Total "+invoice.Currency, invoice.Total, true)
	totalRow("Paid", invoice.AmountPaid, false)
	totalRow("Balance due "+invoice.Currency, invoice.BalanceDue, true)

	if invoice.Notes != "" {
		m.AddRow(20, text.NewCol(12, invoice.Notes, props.Text{Size: 9, Top: 6}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice pdf: %w", err)
	}

	return doc.GetBytes(), nil
}
