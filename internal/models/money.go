package models

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders a whole-dollar amount with two decimals and thousands
// separators, e.g. 1200 -> "$1,200.00".
func FormatPrice(dollars int) string {
	return "$" + pricePrinter.Sprintf("%.2f", float64(dollars))
}
