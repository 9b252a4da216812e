package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod is how the customer paid
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodUPI    PaymentMethod = "UPI"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodWallet PaymentMethod = "WALLET"
	PaymentMethodSplit  PaymentMethod = "SPLIT"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return m, nil
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodCard, PaymentMethodWallet, PaymentMethodSplit:
		return true
	}
	return false
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	pm, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = pm
	return nil
}

// PaymentStatus tracks settlement of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentStatusPending || p == PaymentStatusPaid || p == PaymentStatusRefunded
}
