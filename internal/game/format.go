package game

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currencyPrinter = message.NewPrinter(language.English)

// FormatCurrency renders a balance with thousands separators.
func FormatCurrency(n int64) string {
	return currencyPrinter.Sprintf("%d", n)
}
