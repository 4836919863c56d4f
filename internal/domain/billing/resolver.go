// Package billing resolve o valor monetário e o default de faturabilidade de
// cada insumo de trabalho conforme o modelo de cobrança do contrato.
// Funções puras; as tarifas vêm sempre frescas do repositório do caller.
package billing

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/victorbarbieri91/zyra-billing/internal/domain"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
)

// Tipos de insumo faturável.
const (
	KindHoras       = "horas"           // horas trabalhadas com cargo
	KindMarcoFixo   = "marco_fixo"      // gatilho de honorário fixo do ciclo
	KindAto         = "ato_processual"  // ocorrência de ato processual
	KindExito       = "exito"           // evento de êxito (acordo/condenação)
	KindMensalidade = "mensalidade"     // cobrança mensal por pasta
)

var cem = decimal.NewFromInt(100)

// BillableInput insumo a valorar. Os campos relevantes dependem de Kind.
type BillableInput struct {
	Kind            string
	Hours           decimal.Decimal
	RoleID          string
	ActCode         string
	SettlementValue decimal.Decimal // valor do acordo/condenação (KindExito)
}

// Resolution valor calculado e default de faturabilidade do insumo.
type Resolution struct {
	Amount          decimal.Decimal
	BillableDefault bool
}

// RoleRateTable tarifa horária padrão por cargo do escritório.
type RoleRateTable map[string]decimal.Decimal

// Resolve aplica o modelo de cobrança do contrato ao insumo.
// Erros: domain.ErrUnsupportedBillingModel para modelo desconhecido;
// domain.ErrMissingRateConfig quando o parâmetro exigido pelo modelo está ausente.
func Resolve(c entity.BillingContract, in BillableInput, standardRates RoleRateTable) (Resolution, error) {
	return resolve(c.Model, c.Params, c.SubRules, in, standardRates)
}

func resolve(model string, p entity.RuleParams, subRules []entity.SubRule, in BillableInput, rates RoleRateTable) (Resolution, error) {
	switch model {
	case entity.ModelFixo:
		// Horas sob contrato fixo são informativas; o honorário entra uma vez por ciclo.
		if in.Kind != KindMarcoFixo {
			return Resolution{Amount: decimal.Zero, BillableDefault: false}, nil
		}
		if p.FixedAmount == nil {
			return Resolution{}, domain.ErrMissingRateConfig
		}
		return Resolution{Amount: *p.FixedAmount, BillableDefault: true}, nil

	case entity.ModelPorHora:
		if in.Kind != KindHoras {
			return Resolution{Amount: decimal.Zero, BillableDefault: false}, nil
		}
		if p.HourlyRate == nil {
			return Resolution{}, domain.ErrMissingRateConfig
		}
		return Resolution{Amount: in.Hours.Mul(*p.HourlyRate), BillableDefault: true}, nil

	case entity.ModelPorCargo:
		if in.Kind != KindHoras {
			return Resolution{Amount: decimal.Zero, BillableDefault: false}, nil
		}
		// Tarifa negociada do contrato prevalece sobre a tarifa padrão do cargo.
		rate, ok := p.RoleRates[in.RoleID]
		if !ok {
			rate, ok = rates[in.RoleID]
		}
		if !ok {
			return Resolution{}, domain.ErrMissingRateConfig
		}
		return Resolution{Amount: in.Hours.Mul(rate), BillableDefault: true}, nil

	case entity.ModelPorAto:
		if in.Kind != KindAto {
			return Resolution{Amount: decimal.Zero, BillableDefault: false}, nil
		}
		value, ok := p.ActValues[in.ActCode]
		if !ok {
			return Resolution{}, domain.ErrMissingRateConfig
		}
		// Valor sugerido; a cobrança só ocorre após confirmação do alerta pelo operador.
		return Resolution{Amount: value, BillableDefault: false}, nil

	case entity.ModelMensalPorPasta:
		if in.Kind != KindMensalidade {
			return Resolution{Amount: decimal.Zero, BillableDefault: false}, nil
		}
		if p.PerMatterAmount == nil {
			return Resolution{}, domain.ErrMissingRateConfig
		}
		return Resolution{Amount: *p.PerMatterAmount, BillableDefault: true}, nil

	case entity.ModelExito:
		if in.Kind != KindExito {
			return Resolution{Amount: decimal.Zero, BillableDefault: false}, nil
		}
		if p.SuccessFeePercent == nil {
			return Resolution{}, domain.ErrMissingRateConfig
		}
		amount := in.SettlementValue.Mul(*p.SuccessFeePercent).Div(cem)
		return Resolution{Amount: amount, BillableDefault: true}, nil

	case entity.ModelHibrido:
		ordered := make([]entity.SubRule, len(subRules))
		copy(ordered, subRules)
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })
		for _, sr := range ordered {
			if modelMatchesKind(sr.Model, in.Kind) {
				return resolve(sr.Model, sr.Params, nil, in, rates)
			}
		}
		// Nenhuma sub-regra casa com o insumo.
		return Resolution{Amount: decimal.Zero, BillableDefault: false}, nil

	default:
		return Resolution{}, domain.ErrUnsupportedBillingModel
	}
}

// modelMatchesKind indica se o modelo valora diretamente o tipo de insumo.
func modelMatchesKind(model, kind string) bool {
	switch model {
	case entity.ModelPorHora, entity.ModelPorCargo:
		return kind == KindHoras
	case entity.ModelFixo:
		return kind == KindMarcoFixo
	case entity.ModelPorAto:
		return kind == KindAto
	case entity.ModelMensalPorPasta:
		return kind == KindMensalidade
	case entity.ModelExito:
		return kind == KindExito
	default:
		return false
	}
}
