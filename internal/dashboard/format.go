package dashboard

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"pocketspese/internal/core"
)

var hundred = decimal.NewFromInt(100)

// FormatMoney renders m with a currency symbol, thousands separators and two
// decimals, e.g. "$1,234.50".
func FormatMoney(symbol string, m core.Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, humanize.Comma(cents/100), cents%100)
}

// share returns part as a percentage of total, rounded to one decimal.
func share(part, total core.Money) float64 {
	if total.Cents == 0 {
		return 0
	}
	return part.Decimal().Div(total.Decimal()).Mul(hundred).Round(1).InexactFloat64()
}
