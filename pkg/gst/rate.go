package gst

import (
	"fmt"

	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Rate is a GST slab in percent
type Rate int

// Legal GST slabs
const (
	Rate0  Rate = 0
	Rate5  Rate = 5
	Rate12 Rate = 12
	Rate18 Rate = 18
	Rate28 Rate = 28
)

// Rates lists every legal slab in ascending order
var Rates = []Rate{Rate0, Rate5, Rate12, Rate18, Rate28}

// ParseRate returns the slab for a percent value or a validation error.
func ParseRate(percent int) (Rate, error) {
	r := Rate(percent)
	if !r.Valid() {
		return 0, invalidRate(percent)
	}
	return r, nil
}

// Valid reports whether r is one of the legal slabs
func (r Rate) Valid() bool {
	switch r {
	case Rate0, Rate5, Rate12, Rate18, Rate28:
		return true
	}
	return false
}

// Decimal returns the full rate as a decimal percent
func (r Rate) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(r))
}

// Half returns the CGST/SGST share of the rate, e.g. 9 for 18.
func (r Rate) Half() decimal.Decimal {
	return r.Decimal().Div(decimal.NewFromInt(2))
}

func (r Rate) String() string {
	return fmt.Sprintf("%d%%", int(r))
}

func invalidRate(percent int) *apperror.AppError {
	return apperror.NewFieldError("gst_rate", fmt.Sprintf("GST rate %d is not a legal slab (0, 5, 12, 18, 28)", percent))
}
