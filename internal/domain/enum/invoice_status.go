package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceStatus is the stored lifecycle state of an invoice, changed only by explicit action
type InvoiceStatus int

const (
	InvoiceStatusDraft InvoiceStatus = iota
	InvoiceStatusSent
	InvoiceStatusPaid
	InvoiceStatusOverdue
	InvoiceStatusCancelled
)

var invoiceStatusNames = []string{"DRAFT", "SENT", "PAID", "OVERDUE", "CANCELLED"}

func (s InvoiceStatus) String() string {
	return nameOf(invoiceStatusNames, int(s))
}

// IsValid reports whether s is a declared value
func (s InvoiceStatus) IsValid() bool {
	return s >= 0 && int(s) < len(invoiceStatusNames)
}

// ParseInvoiceStatus parses a name such as "DRAFT"
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	i, err := parseName("invoice status", invoiceStatusNames, s)
	return InvoiceStatus(i), err
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName("invoice status", invoiceStatusNames, data)
	if err != nil {
		return err
	}
	*s = InvoiceStatus(i)
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = InvoiceStatus(i)
	return nil
}
