package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRupeesRoundsHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want Money
	}{
		{100, 10000},
		{15.6, 1560},
		{0.005, 1},
		{0.004, 0},
		{236.499, 23650},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromRupees(tt.in), "FromRupees(%v)", tt.in)
	}
}

func TestRoundPaise(t *testing.T) {
	assert.Equal(t, Money(8), RoundPaise(decimal.RequireFromString("7.5")))
	assert.Equal(t, Money(7), RoundPaise(decimal.RequireFromString("7.49")))
}

func TestString(t *testing.T) {
	assert.Equal(t, "236.00", Money(23600).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-1.20", Money(-120).String())
}

func TestJSON(t *testing.T) {
	type payload struct {
		Amount Money `json:"amount"`
	}

	out, err := json.Marshal(payload{Amount: 14560})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":145.60}`, string(out))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount":145.6}`), &p))
	assert.Equal(t, Money(14560), p.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount":"99.999"}`), &p))
	assert.Equal(t, Money(10000), p.Amount)

	assert.Error(t, json.Unmarshal([]byte(`{"amount":"abc"}`), &p))
}

func TestJSONRejectsOutOfRange(t *testing.T) {
	var m Money
	for _, in := range []string{`1e30`, `"1e30"`, `-1e30`, `92233720368547758.08`} {
		assert.Error(t, json.Unmarshal([]byte(in), &m), in)
	}
	assert.Zero(t, m)

	require.NoError(t, json.Unmarshal([]byte(`92233720368547758.07`), &m))
	assert.Equal(t, Money(math.MaxInt64), m)

	_, err := ParseDecimal(decimal.RequireFromString("-92233720368547758.09"))
	assert.Error(t, err)
}

func TestSum(t *testing.T) {
	assert.Equal(t, Money(600), Sum(100, 200, 300))
	assert.Equal(t, Zero, Sum())
}

func TestFormatINR(t *testing.T) {
	cases := map[Money]string{
		0:                    "₹0.00",
		FromPaise(5):         "₹0.05",
		FromRupees(236.5):    "₹236.50",
		FromRupees(1234):     "₹1,234.00",
		FromRupees(123456.5): "₹1,23,456.50",
		FromRupees(12345678): "₹1,23,45,678.00",
		FromRupees(-1500.25): "-₹1,500.25",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatINR(in))
	}
}

func TestInWords(t *testing.T) {
	assert.Equal(t, "Rupees Two Hundred Thirty Six Only", InWords(FromRupees(236)))
	assert.Equal(t, "Rupees One Hundred Forty Five and Sixty Paise Only", InWords(FromRupees(145.6)))
	assert.Equal(t, "Rupees One Lakh Twenty Three Thousand Four Hundred Fifty Six Only", InWords(FromRupees(123456)))
	assert.Equal(t, "Rupees Two Crore Fifty Lakh Only", InWords(FromRupees(25000000)))
	assert.Equal(t, "Rupees Zero and Fifty Paise Only", InWords(FromPaise(50)))
}
