package dashboard

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCount renders n with en-US digit grouping, e.g. 1,234.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatUSD renders v as US dollars with two decimals, e.g. $1,234.50.
// Totals beyond int64 are grouped from their decimal text.
func FormatUSD(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	cents := v.Round(2)
	whole := cents.Truncate(0)
	frac := cents.Sub(whole).Shift(2).IntPart()
	return sign + "$" + groupDigits(whole.String()) + fmt.Sprintf(".%02d", frac)
}

// groupDigits inserts en-US thousands separators into a run of digits.
func groupDigits(digits string) string {
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
