// Package format renders amounts and dates for people.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/iho/moneybook/internal/domain"
)

const (
	DisplayDateLayout = "Jan 2, 2006"
	currencySymbol    = "$"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats an amount as US dollars with grouping and two decimals,
// e.g. $1,234.56 or -$40.00.
func Currency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	digits := printer.Sprint(number.Decimal(amount.Abs().Round(2).InexactFloat64(), number.Scale(2)))
	return sign + currencySymbol + digits
}

// Date formats a calendar date as "Jan 2, 2006". The zero date renders empty.
func Date(d domain.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DisplayDateLayout)
}
