package dto

import "github.com/shopspring/decimal"

// TaxPreviewRequest simulação de apuração sobre uma receita bruta.
type TaxPreviewRequest struct {
	GrossRevenue decimal.Decimal `json:"gross_revenue"`
}

// TaxPreviewResponse resultado da simulação.
type TaxPreviewResponse struct {
	Regime              string                `json:"regime"`
	EffectiveRate       decimal.Decimal       `json:"effective_rate"`
	BracketIndex        int                   `json:"bracket_index,omitempty"`
	OutOfRange          bool                  `json:"out_of_range,omitempty"`
	PayrollLevySeparate bool                  `json:"payroll_levy_separate,omitempty"`
	Withholdings        []WithholdingResponse `json:"withholdings"`
}

// TributoConfigDTO parametrização de um código do lucro presumido.
type TributoConfigDTO struct {
	Active           bool            `json:"active"`
	Rate             decimal.Decimal `json:"rate"`
	WithheldAtSource bool            `json:"withheld_at_source"`
}

// SimplesConfigDTO parametrização do Simples Nacional.
type SimplesConfigDTO struct {
	Anexo          string          `json:"anexo"`
	RBT12          decimal.Decimal `json:"rbt12"`
	FolhaForaDoDAS bool            `json:"folha_fora_do_das"`
}

// TaxConfigRequest upsert da configuração tributária (formulário administrativo).
type TaxConfigRequest struct {
	Regime    string                      `json:"regime"`
	Presumido map[string]TributoConfigDTO `json:"presumido,omitempty"`
	Simples   *SimplesConfigDTO           `json:"simples,omitempty"`
}

// TaxConfigResponse configuração tributária vigente.
type TaxConfigResponse struct {
	OfficeID  string                      `json:"office_id"`
	Regime    string                      `json:"regime"`
	Presumido map[string]TributoConfigDTO `json:"presumido,omitempty"`
	Simples   *SimplesConfigDTO           `json:"simples,omitempty"`
}
