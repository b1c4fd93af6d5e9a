package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod records how a payment was collected
type PaymentMethod int

const (
	PaymentMethodCash PaymentMethod = iota
	PaymentMethodCheck
	PaymentMethodCard
	PaymentMethodBankTransfer
	PaymentMethodETransfer
	PaymentMethodOther
)

var paymentMethodNames = []string{"CASH", "CHECK", "CARD", "BANK_TRANSFER", "E_TRANSFER", "OTHER"}

func (s PaymentMethod) String() string {
	return nameOf(paymentMethodNames, int(s))
}

// IsValid reports whether s is a declared value
func (s PaymentMethod) IsValid() bool {
	return s >= 0 && int(s) < len(paymentMethodNames)
}

// ParsePaymentMethod parses a name such as "CASH"
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	i, err := parseName("payment method", paymentMethodNames, s)
	return PaymentMethod(i), err
}

func (s PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentMethod) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName("payment method", paymentMethodNames, data)
	if err != nil {
		return err
	}
	*s = PaymentMethod(i)
	return nil
}

func (s PaymentMethod) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentMethod) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = PaymentMethod(i)
	return nil
}
