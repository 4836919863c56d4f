package dto

import "github.com/shopspring/decimal"

// RuleParamsDTO parâmetros de um modelo de cobrança.
type RuleParamsDTO struct {
	FixedAmount       *decimal.Decimal           `json:"fixed_amount,omitempty"`
	HourlyRate        *decimal.Decimal           `json:"hourly_rate,omitempty"`
	SuccessFeePercent *decimal.Decimal           `json:"success_fee_percent,omitempty"`
	PerMatterAmount   *decimal.Decimal           `json:"per_matter_amount,omitempty"`
	RoleRates         map[string]decimal.Decimal `json:"role_rates,omitempty"`
	ActValues         map[string]decimal.Decimal `json:"act_values,omitempty"`
}

// SubRuleDTO sub-regra de contrato híbrido.
type SubRuleDTO struct {
	Priority int           `json:"priority"`
	Model    string        `json:"model"`
	Params   RuleParamsDTO `json:"params"`
}

// CreateContractRequest criação de contrato de honorários no onboarding do cliente.
type CreateContractRequest struct {
	ClientID          string        `json:"client_id"`
	Model             string        `json:"model"`
	Params            RuleParamsDTO `json:"params"`
	SubRules          []SubRuleDTO  `json:"sub_rules,omitempty"`
	BillingDayOfMonth int           `json:"billing_day_of_month"`
}

// ContractResponse contrato de honorários.
type ContractResponse struct {
	ID                string        `json:"id"`
	ClientID          string        `json:"client_id"`
	Model             string        `json:"model"`
	Params            RuleParamsDTO `json:"params"`
	SubRules          []SubRuleDTO  `json:"sub_rules,omitempty"`
	BillingDayOfMonth int           `json:"billing_day_of_month"`
	Version           int           `json:"version"`
}
