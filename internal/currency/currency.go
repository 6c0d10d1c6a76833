// Package currency renders amounts as Indonesian Rupiah.
package currency

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const symbol = "Rp"

var printer = message.NewPrinter(language.Indonesian)

// Format renders d with two decimals, e.g. "Rp5.000.000,00" or "-Rp1.500,50".
func Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	return sign + symbol + digits(d)
}

// FormatSigned always prefixes the sign, e.g. "+Rp5.000.000,00".
func FormatSigned(d decimal.Decimal, negative bool) string {
	sign := "+"
	if negative {
		sign = "-"
	}

	return sign + symbol + digits(d.Abs())
}

// Compact drops the decimals, for narrow terminal columns: "Rp5.000.000".
func Compact(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	f, _ := d.Round(0).Float64()

	return sign + symbol + printer.Sprint(number.Decimal(f, number.Scale(0)))
}

func digits(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprint(number.Decimal(f, number.Scale(2)))
}
