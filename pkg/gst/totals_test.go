package gst

import (
	"testing"

	"github.com/eazyque/eazyque-api/pkg/apperror"
	"github.com/eazyque/eazyque-api/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTotalsTwoUnitsAtEighteen(t *testing.T) {
	line := LineItem{Quantity: 2, UnitPrice: money.FromRupees(100)}
	tax, err := CombinedTax(line.Net(), Rate18)
	require.NoError(t, err)
	line.TaxAmount = tax

	totals, err := CalculateOrderTotals([]LineItem{line}, 0)
	require.NoError(t, err)
	assert.Equal(t, money.FromRupees(200), totals.Subtotal)
	assert.Equal(t, money.FromRupees(36), totals.TotalTax)
	assert.Equal(t, money.FromRupees(236), totals.FinalAmount)
	assert.Equal(t, money.Zero, totals.TotalDiscount)
}

func TestOrderTotalsDiscountedLine(t *testing.T) {
	line := LineItem{Quantity: 3, UnitPrice: money.FromRupees(50), DiscountAmount: money.FromRupees(20)}
	assert.Equal(t, money.FromRupees(130), line.Net())

	tax, err := CombinedTax(line.Net(), Rate12)
	require.NoError(t, err)
	assert.Equal(t, money.FromRupees(15.6), tax)
	assert.Equal(t, money.FromRupees(145.6), line.Net().Add(tax))
}

func TestOrderTotalsInvariant(t *testing.T) {
	items := []LineItem{
		{Quantity: 3, UnitPrice: money.FromRupees(49.99), DiscountAmount: money.FromRupees(5), TaxAmount: money.FromRupees(17.4)},
		{Quantity: 1, UnitPrice: money.FromRupees(1200), TaxAmount: money.FromRupees(336)},
	}
	totals, err := CalculateOrderTotals(items, money.FromRupees(25))
	require.NoError(t, err)

	assert.Equal(t, money.FromRupees(144.97+1200), totals.Subtotal)
	assert.Equal(t, money.FromRupees(5), totals.TotalDiscount)
	assert.Equal(t, totals.Subtotal-money.FromRupees(25)+totals.TotalTax, totals.FinalAmount)
}

func TestOrderTotalsRejects(t *testing.T) {
	cases := []struct {
		name  string
		items []LineItem
		extra money.Money
		field string
	}{
		{"zero quantity", []LineItem{{Quantity: 0, UnitPrice: 100}}, 0, "items[0].quantity"},
		{"zero price", []LineItem{{Quantity: 1, UnitPrice: 0}}, 0, "items[0].unit_price"},
		{"negative discount", []LineItem{{Quantity: 1, UnitPrice: 100, DiscountAmount: -1}}, 0, "items[0].discount_amount"},
		{"discount above gross", []LineItem{{Quantity: 2, UnitPrice: 100, DiscountAmount: 201}}, 0, "items[0].discount_amount"},
		{"negative order discount", []LineItem{{Quantity: 1, UnitPrice: 100}}, -5, "discount_amount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CalculateOrderTotals(tc.items, tc.extra)
			require.Error(t, err)
			appErr := apperror.GetAppError(err)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			require.NotEmpty(t, appErr.Errors)
			assert.Equal(t, tc.field, appErr.Errors[0].Field)
		})
	}
}

func TestDiscountEqualToGrossAllowed(t *testing.T) {
	totals, err := CalculateOrderTotals([]LineItem{{Quantity: 2, UnitPrice: 100, DiscountAmount: 200}}, 0)
	require.NoError(t, err)
	assert.Equal(t, money.Zero, totals.Subtotal)
}
