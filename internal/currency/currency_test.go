package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/bivo/internal/currency"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "Rp0,00"},
		{in: "5000000", want: "Rp5.000.000,00"},
		{in: "1500.5", want: "Rp1.500,50"},
		{in: "-2500", want: "-Rp2.500,00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, currency.Format(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+Rp5.000.000,00", currency.FormatSigned(decimal.NewFromInt(5000000), false))
	assert.Equal(t, "-Rp25.000,00", currency.FormatSigned(decimal.NewFromInt(25000), true))
}

func TestCompact(t *testing.T) {
	assert.Equal(t, "Rp2.500.000", currency.Compact(decimal.NewFromInt(2500000)))
	assert.Equal(t, "-Rp10", currency.Compact(decimal.RequireFromString("-9.6")))
}
