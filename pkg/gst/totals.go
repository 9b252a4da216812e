package gst

import (
	"fmt"

	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/eazyque/eazyque-api/pkg/money"
)

// LineItem is the priced view of one cart line.
type LineItem struct {
	Quantity       int
	UnitPrice      money.Money
	DiscountAmount money.Money
	TaxAmount      money.Money
}

// Gross is quantity × unit price
func (l LineItem) Gross() money.Money {
	return l.UnitPrice.Mul(l.Quantity)
}

// Net is the gross less the item discount
func (l LineItem) Net() money.Money {
	return l.Gross().Sub(l.DiscountAmount)
}

// Validate checks the line against the pricing rules. idx is used in field names.
func (l LineItem) Validate(idx int) error {
	var errs []apperror.FieldError
	field := func(name string) string { return fmt.Sprintf("items[%d].%s", idx, name) }

	if l.Quantity <= 0 {
		errs = append(errs, apperror.FieldError{Field: field("quantity"), Message: "quantity must be greater than zero"})
	}
	if !l.UnitPrice.IsPositive() {
		errs = append(errs, apperror.FieldError{Field: field("unit_price"), Message: "unit price must be greater than zero"})
	}
	if l.DiscountAmount.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: field("discount_amount"), Message: "discount must not be negative"})
	} else if l.Quantity > 0 && l.DiscountAmount > l.Gross() {
		errs = append(errs, apperror.FieldError{
			Field:   field("discount_amount"),
			Message: fmt.Sprintf("discount %s exceeds line total %s", l.DiscountAmount, l.Gross()),
		})
	}
	if l.TaxAmount.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: field("tax_amount"), Message: "tax must not be negative"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// OrderTotals is the aggregate of a priced cart
type OrderTotals struct {
	Subtotal      money.Money `json:"subtotal"`
	TotalTax      money.Money `json:"total_tax"`
	TotalDiscount money.Money `json:"total_discount"`
	FinalAmount   money.Money `json:"final_amount"`
}

// CalculateOrderTotals sums line nets and taxes and applies the order-level
// discount: final = subtotal − additionalDiscount + totalTax.
// TotalDiscount is the sum of item discounts only.
func CalculateOrderTotals(items []LineItem, additionalDiscount money.Money) (OrderTotals, error) {
	var t OrderTotals
	if additionalDiscount.IsNegative() {
		return t, apperror.NewFieldError("discount_amount", "discount must not be negative")
	}
	for i, item := range items {
		if err := item.Validate(i); err != nil {
			return OrderTotals{}, err
		}
		t.Subtotal += item.Net()
		t.TotalTax += item.TaxAmount
		t.TotalDiscount += item.DiscountAmount
	}
	t.FinalAmount = t.Subtotal - additionalDiscount + t.TotalTax
	return t, nil
}
