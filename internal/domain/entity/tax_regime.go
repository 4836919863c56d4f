package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Regimes tributários suportados.
const (
	RegimeLucroPresumido  = "lucro_presumido"
	RegimeSimplesNacional = "simples_nacional"
	RegimeLucroReal       = "lucro_real"
	RegimeMEI             = "mei"
)

// Códigos de tributo do lucro presumido.
const (
	TributoIRRF   = "irrf"   // imposto de renda retido na fonte
	TributoPIS    = "pis"
	TributoCOFINS = "cofins"
	TributoCSLL   = "csll"
	TributoISS    = "iss"
	TributoINSS   = "inss"
)

// TributoCodes ordem canônica dos códigos do lucro presumido.
// Mantém a listagem de retenções determinística (mapas não têm ordem).
var TributoCodes = []string{TributoIRRF, TributoPIS, TributoCOFINS, TributoCSLL, TributoISS, TributoINSS}

// Anexos do Simples Nacional aplicáveis a serviços.
const (
	AnexoIII = "III"
	AnexoIV  = "IV" // serviços advocatícios; CPP recolhida fora do DAS
	AnexoV   = "V"
)

// TributoConfig parametrização de um código de tributo no lucro presumido.
type TributoConfig struct {
	Active           bool
	Rate             decimal.Decimal // percentual, ex.: 1.5
	WithheldAtSource bool            // retido na fonte pelo tomador
}

// SimplesConfig parametrização do Simples Nacional.
// BracketIndex e EffectiveRate são campos de exibição, recalculados a cada apuração.
type SimplesConfig struct {
	Anexo          string
	RBT12          decimal.Decimal // receita bruta dos últimos 12 meses
	BracketIndex   int
	EffectiveRate  decimal.Decimal // percentual efetivo da última apuração
	FolhaForaDoDAS bool            // anexo IV: CPP paga à parte
}

// TaxRegimeConfig configuração tributária de um escritório.
// Exatamente um dos sub-objetos é significativo, selecionado por Regime.
// Editada apenas pelo formulário administrativo; somente leitura para o cálculo.
type TaxRegimeConfig struct {
	OfficeID  string
	Regime    string
	Presumido map[string]TributoConfig
	Simples   *SimplesConfig
	UpdatedAt time.Time
}
