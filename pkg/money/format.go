package money

import (
	"strings"
)

// FormatINR formats with Indian digit grouping, e.g. "₹12,34,567.50".
func FormatINR(m Money) string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	rupees := int64(m) / 100
	paise := int64(m) % 100

	digits := []byte(itoa(rupees))
	var grouped []byte
	n := len(digits)
	if n <= 3 {
		grouped = digits
	} else {
		head := digits[:n-3]
		// pairs of digits before the last three
		for i, d := range head {
			if i > 0 && (len(head)-i)%2 == 0 {
				grouped = append(grouped, ',')
			}
			grouped = append(grouped, d)
		}
		grouped = append(grouped, ',')
		grouped = append(grouped, digits[n-3:]...)
	}
	return sign + "₹" + string(grouped) + "." + pad2(paise)
}

var (
	ones = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// InWords spells the amount the way it is printed on Indian tax invoices,
// e.g. "Rupees Two Hundred Thirty Six and Fifty Paise Only".
func InWords(m Money) string {
	if m < 0 {
		return "Minus " + InWords(-m)
	}
	rupees := int64(m) / 100
	paise := int64(m) % 100

	words := "Zero"
	if rupees > 0 {
		words = indianWords(rupees)
	}
	out := "Rupees " + words
	if paise > 0 {
		out += " and " + belowHundred(paise) + " Paise"
	}
	return out + " Only"
}

func indianWords(n int64) string {
	var parts []string
	if crore := n / 10000000; crore > 0 {
		parts = append(parts, indianWords(crore), "Crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		parts = append(parts, belowHundred(lakh), "Lakh")
		n %= 100000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, belowHundred(thousand), "Thousand")
		n %= 1000
	}
	if hundred := n / 100; hundred > 0 {
		parts = append(parts, ones[hundred], "Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundred(n))
	}
	return strings.Join(parts, " ")
}

func belowHundred(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + itoa(n)
	}
	return itoa(n)
}
