package moeda

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"150", "R$ 150,00"},
		{"1234.56", "R$ 1.234,56"},
		{"0.5", "R$ 0,50"},
		{"-312.4", "R$ -312,40"},
		{"-0.07", "R$ -0,07"},
		{"2275.005", "R$ 2.275,01"}, // meio centavo arredonda para cima
		// totais grandes além da precisão exata de um float64
		{"999999999999999.99", "R$ 999.999.999.999.999,99"},
		{"12345678901234.56", "R$ 12.345.678.901.234,56"},
	}
	for _, c := range cases {
		got := FormatBRL(decimal.RequireFromString(c.in))
		assert.Equal(t, c.want, got, "entrada %s", c.in)
	}
}

func TestFormatHoras(t *testing.T) {
	assert.Equal(t, "6,50 h", FormatHoras(decimal.RequireFromString("6.5")))
	assert.Equal(t, "0,25 h", FormatHoras(decimal.RequireFromString("0.25")))
	assert.Equal(t, "42,00 h", FormatHoras(decimal.NewFromInt(42)))
	assert.Equal(t, "1.234,75 h", FormatHoras(decimal.RequireFromString("1234.75")))
}
