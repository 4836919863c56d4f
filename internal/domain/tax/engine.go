// Package tax calcula retenções e alíquota efetiva por regime tributário.
// Funções puras sobre a configuração do escritório; nenhum I/O.
package tax

import (
	"github.com/shopspring/decimal"
	"github.com/victorbarbieri91/zyra-billing/internal/domain"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
)

// CodigoDAS código da guia única do Simples Nacional na lista de retenções.
const CodigoDAS = "das"

var cem = decimal.NewFromInt(100)

// Withholding retenção individual calculada sobre a receita.
type Withholding struct {
	Code             string
	Amount           decimal.Decimal
	WithheldAtSource bool
}

// Result resultado da apuração.
// EffectiveRate é percentual (ex.: 11.2 = 11,2%).
type Result struct {
	EffectiveRate       decimal.Decimal
	Withholdings        []Withholding
	BracketIndex        int  // apenas Simples Nacional
	OutOfRange          bool // RBT12 acima do teto da última faixa (exibido na UI, não fatal)
	PayrollLevySeparate bool // anexo IV: CPP fora do DAS
}

// Compute apura alíquota efetiva e retenções para uma receita bruta.
// Retorna domain.ErrInvalidConfig se o sub-objeto populado não corresponde ao regime.
func Compute(cfg entity.TaxRegimeConfig, grossRevenue decimal.Decimal) (Result, error) {
	switch cfg.Regime {
	case entity.RegimeLucroPresumido:
		if cfg.Presumido == nil || cfg.Simples != nil {
			return Result{}, domain.ErrInvalidConfig
		}
		return computePresumido(cfg.Presumido, grossRevenue), nil

	case entity.RegimeSimplesNacional:
		if cfg.Simples == nil || cfg.Presumido != nil {
			return Result{}, domain.ErrInvalidConfig
		}
		return computeSimples(*cfg.Simples, grossRevenue)

	case entity.RegimeLucroReal, entity.RegimeMEI:
		// Apuração integral feita pela contabilidade do escritório, fora do sistema.
		if cfg.Presumido != nil || cfg.Simples != nil {
			return Result{}, domain.ErrInvalidConfig
		}
		return Result{EffectiveRate: decimal.Zero}, nil

	default:
		return Result{}, domain.ErrInvalidConfig
	}
}

// computePresumido: valor retido = receita * alíquota/100 para cada código ativo.
// Códigos inativos não geram linha. A alíquota efetiva exibida ao tomador é a
// soma das alíquotas ativas retidas na fonte.
func computePresumido(tributos map[string]entity.TributoConfig, gross decimal.Decimal) Result {
	res := Result{EffectiveRate: decimal.Zero}
	for _, code := range entity.TributoCodes {
		tc, ok := tributos[code]
		if !ok || !tc.Active {
			continue
		}
		res.Withholdings = append(res.Withholdings, Withholding{
			Code:             code,
			Amount:           gross.Mul(tc.Rate).Div(cem),
			WithheldAtSource: tc.WithheldAtSource,
		})
		if tc.WithheldAtSource {
			res.EffectiveRate = res.EffectiveRate.Add(tc.Rate)
		}
	}
	return res
}

// computeSimples: faixa pela RBT12 (teto inclusivo) e alíquota efetiva
// ((RBT12 * nominal - dedução) / RBT12), limitada a >= 0.
// RBT12 zero: efetiva 0, primeira faixa, sem divisão.
func computeSimples(cfg entity.SimplesConfig, gross decimal.Decimal) (Result, error) {
	table, err := TableForAnexo(cfg.Anexo)
	if err != nil {
		return Result{}, domain.ErrInvalidConfig
	}

	res := Result{PayrollLevySeparate: cfg.FolhaForaDoDAS}

	if cfg.RBT12.IsZero() {
		res.BracketIndex = 1
		res.EffectiveRate = decimal.Zero
		return res, nil
	}

	idx, bracket, outOfRange := lookupBracket(table, cfg.RBT12)
	res.BracketIndex = idx
	res.OutOfRange = outOfRange

	// nominal é percentual: efetiva% = (RBT12 * nominal% - dedução*100) / RBT12
	numerator := cfg.RBT12.Mul(bracket.NominalRate).Sub(bracket.Deduction.Mul(cem))
	effective := numerator.Div(cfg.RBT12)
	if effective.IsNegative() {
		effective = decimal.Zero
	}
	res.EffectiveRate = effective

	if gross.GreaterThan(decimal.Zero) && effective.GreaterThan(decimal.Zero) {
		res.Withholdings = append(res.Withholdings, Withholding{
			Code:   CodigoDAS,
			Amount: gross.Mul(effective).Div(cem),
		})
	}
	return res, nil
}
