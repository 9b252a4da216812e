// Package gst computes Indian goods-and-services-tax amounts.
//
// All functions are pure. Amounts are money.Money (paise) and every computed
// amount is rounded half-up to a whole paisa.
package gst

import (
	"strings"

	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/shopspring/decimal"
)

// Kind identifies the component of a tax line
type Kind string

const (
	KindCGST Kind = "CGST"
	KindSGST Kind = "SGST"
	KindIGST Kind = "IGST"
	KindCESS Kind = "CESS"
)

// SupplyType says whether a sale stays within one state
type SupplyType string

const (
	SupplyIntrastate SupplyType = "INTRASTATE"
	SupplyInterstate SupplyType = "INTERSTATE"
)

// TaxLine is one component of a GST breakdown.
type TaxLine struct {
	Kind   Kind            `json:"kind"`
	Rate   decimal.Decimal `json:"rate"`
	Amount money.Money     `json:"amount"`
}

var hundred = decimal.NewFromInt(100)

// percentOf returns round(amount × pct / 100) in paise
func percentOf(amount money.Money, pct decimal.Decimal) money.Money {
	return money.RoundPaise(amount.PaiseDecimal().Mul(pct).Div(hundred))
}

func check(amount money.Money, rate Rate) error {
	if !rate.Valid() {
		return invalidRate(int(rate))
	}
	if amount.IsNegative() {
		return apperror.NewFieldError("amount", "amount must not be negative")
	}
	return nil
}

// CalculateIntrastateTax splits the tax into equal CGST and SGST lines.
// Each half is rounded on its own, so the pair may differ from a single
// combined rounding by one paisa.
func CalculateIntrastateTax(amount money.Money, rate Rate) ([]TaxLine, error) {
	if err := check(amount, rate); err != nil {
		return nil, err
	}
	half := rate.Half()
	share := percentOf(amount, half)
	return []TaxLine{
		{Kind: KindCGST, Rate: half, Amount: share},
		{Kind: KindSGST, Rate: half, Amount: share},
	}, nil
}

// CalculateInterstateTax returns a single IGST line at the full rate.
func CalculateInterstateTax(amount money.Money, rate Rate) ([]TaxLine, error) {
	if err := check(amount, rate); err != nil {
		return nil, err
	}
	return []TaxLine{
		{Kind: KindIGST, Rate: rate.Decimal(), Amount: percentOf(amount, rate.Decimal())},
	}, nil
}

// SupplyTypeFor compares states case-insensitively after trimming.
func SupplyTypeFor(sourceState, targetState string) SupplyType {
	if strings.EqualFold(strings.TrimSpace(sourceState), strings.TrimSpace(targetState)) {
		return SupplyIntrastate
	}
	return SupplyInterstate
}

// CalculateTax routes to the intrastate or interstate split.
func CalculateTax(amount money.Money, rate Rate, sourceState, targetState string) ([]TaxLine, error) {
	if SupplyTypeFor(sourceState, targetState) == SupplyIntrastate {
		return CalculateIntrastateTax(amount, rate)
	}
	return CalculateInterstateTax(amount, rate)
}

// CombinedTax applies the full rate in one rounding step.
func CombinedTax(amount money.Money, rate Rate) (money.Money, error) {
	if err := check(amount, rate); err != nil {
		return 0, err
	}
	return percentOf(amount, rate.Decimal()), nil
}

// CalculateInclusivePrice adds GST to a base price
func CalculateInclusivePrice(base money.Money, rate Rate) (money.Money, error) {
	if err := check(base, rate); err != nil {
		return 0, err
	}
	factor := hundred.Add(rate.Decimal())
	return money.RoundPaise(base.PaiseDecimal().Mul(factor).Div(hundred)), nil
}

// CalculateExclusivePrice removes GST from a tax-inclusive price
func CalculateExclusivePrice(inclusive money.Money, rate Rate) (money.Money, error) {
	if err := check(inclusive, rate); err != nil {
		return 0, err
	}
	factor := hundred.Add(rate.Decimal())
	return money.RoundPaise(inclusive.PaiseDecimal().Mul(hundred).Div(factor)), nil
}

// GetTotalTaxAmount sums the amounts of a breakdown
func GetTotalTaxAmount(lines []TaxLine) money.Money {
	var total money.Money
	for _, l := range lines {
		total += l.Amount
	}
	return total
}
