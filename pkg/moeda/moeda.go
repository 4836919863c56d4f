// Package moeda formata valores monetários em Real brasileiro (pt-BR)
// para exibição em faturas e no anexo de horas.
package moeda

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ptBR = message.NewPrinter(language.BrazilianPortuguese)
	cem  = decimal.NewFromInt(100)
)

// FormatBRL formata um decimal como "R$ 1.234,56" (duas casas, separadores
// pt-BR). Parte inteira e centavos saem do próprio decimal, sem passar por
// float, então totais grandes não sofrem arredondamento binário.
func FormatBRL(v decimal.Decimal) string {
	sign, units, cents := parts(v)
	return ptBR.Sprintf("R$ %s%d,%02d", sign, units, cents)
}

// FormatHoras formata horas decimais como "42,50 h".
func FormatHoras(h decimal.Decimal) string {
	sign, units, cents := parts(h)
	return ptBR.Sprintf("%s%d,%02d h", sign, units, cents)
}

func parts(v decimal.Decimal) (sign string, units, cents int64) {
	r := v.Round(2)
	if r.IsNegative() {
		sign = "-"
		r = r.Abs()
	}
	units = r.IntPart()
	cents = r.Sub(decimal.NewFromInt(units)).Mul(cem).IntPart()
	return sign, units, cents
}
