package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var thousandsOnly = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// ParseAmount parses Indonesian formatted amounts: "." groups thousands and
// "," separates decimals. "Rp" prefixes and accounting parentheses are accepted.
// Examples: "Rp5.000.000,00" -> 5000000, "(25.000)" -> -25000, "12.50" -> 12.50.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), " ", "")

	negative := false

	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = clean[1 : len(clean)-1]
	}

	if strings.HasPrefix(clean, "-") {
		negative = !negative
		clean = clean[1:]
	}

	for _, prefix := range []string{"Rp.", "Rp", "IDR"} {
		if len(clean) >= len(prefix) && strings.EqualFold(clean[:len(prefix)], prefix) {
			clean = clean[len(prefix):]
			break
		}
	}

	switch {
	case strings.Contains(clean, ","):
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case thousandsOnly.MatchString(clean):
		clean = strings.ReplaceAll(clean, ".", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	if negative {
		d = d.Neg()
	}

	return d.Round(2), nil
}
