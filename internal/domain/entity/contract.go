package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modelos de cobrança de um contrato de honorários.
const (
	ModelFixo           = "fixo"
	ModelPorHora        = "por_hora"
	ModelPorCargo       = "por_cargo"        // tarifa horária por cargo, com override negociado
	ModelPorAto         = "por_ato"          // valor sugerido por ato processual, confirmação humana
	ModelMensalPorPasta = "mensal_por_pasta"
	ModelExito          = "exito"            // percentual sobre o valor da condenação/acordo
	ModelHibrido        = "hibrido"
)

// RuleParams parâmetros de um modelo de cobrança. Ponteiros nulos indicam
// parâmetro ausente (ErrMissingRateConfig quando o modelo o exige).
type RuleParams struct {
	FixedAmount       *decimal.Decimal
	HourlyRate        *decimal.Decimal
	SuccessFeePercent *decimal.Decimal
	PerMatterAmount   *decimal.Decimal
	RoleRates         map[string]decimal.Decimal // cargo -> tarifa horária negociada (override)
	ActValues         map[string]decimal.Decimal // código do ato -> valor sugerido
}

// SubRule regra componente de um contrato híbrido, aplicada por prioridade.
type SubRule struct {
	Priority int
	Model    string
	Params   RuleParams
}

// BillingContract contrato de honorários de um cliente.
// Imutável após existirem faturas, exceto aditivos (nova Version).
type BillingContract struct {
	ID                string
	OfficeID          string
	ClientID          string
	Model             string
	Params            RuleParams
	SubRules          []SubRule // apenas para ModelHibrido, ordenada por Priority
	BillingDayOfMonth int
	Version           int
	CreatedAt         time.Time
}
