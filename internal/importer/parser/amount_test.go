package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "5000000", want: "5000000"},
		{in: "5.000.000", want: "5000000"},
		{in: "5.000.000,00", want: "5000000"},
		{in: "Rp5.000.000,50", want: "5000000.5"},
		{in: "Rp. 12.500", want: "12500"},
		{in: "IDR 750", want: "750"},
		{in: "-25.000", want: "-25000"},
		{in: "-Rp25.000", want: "-25000"},
		{in: "(1.500,25)", want: "-1500.25"},
		{in: "12.50", want: "12.5"},
		{in: "0,125", want: "0.13"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "Rp", "1,2,3"} {
		_, err := ParseAmount(in)
		assert.Error(t, err, in)
	}
}
