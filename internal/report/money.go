package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount in the shop's single display
// format, Argentine peso style: "$ 1.234,56". Core calculations stay on
// raw numbers; rounding to centavos happens only here.
func FormatCurrency(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)

	negative := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	out := "$ " + grouped.String() + "," + fracPart
	if negative {
		out = "-" + out
	}
	return out
}
