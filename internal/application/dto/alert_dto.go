package dto

import "github.com/shopspring/decimal"

// RegisterActRequest ocorrência de ato processual detectada em contrato por_ato.
type RegisterActRequest struct {
	MatterID    string `json:"matter_id"`
	ActCode     string `json:"act_code"`
	Description string `json:"description"`
}

// BillingAlertResponse alerta de cobrança pendente de confirmação humana.
type BillingAlertResponse struct {
	ID              string          `json:"id"`
	ContractID      string          `json:"contract_id"`
	MatterID        string          `json:"matter_id"`
	ActCode         string          `json:"act_code"`
	Description     string          `json:"description"`
	SuggestedAmount decimal.Decimal `json:"suggested_amount"`
	SuggestedBRL    string          `json:"suggested_brl"`
	Status          string          `json:"status"`
}
