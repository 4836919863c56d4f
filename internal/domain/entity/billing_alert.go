package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de um alerta de cobrança por ato processual.
const (
	AlertPendente   = "pendente"
	AlertConfirmado = "confirmado"
	AlertDescartado = "descartado"
)

// BillingAlert ocorrência de ato processual detectada em contrato por_ato.
// Cada ocorrência exige confirmação humana antes de virar cobrança
// (gate deliberado, não automatismo).
type BillingAlert struct {
	ID              string
	OfficeID        string
	ContractID      string
	MatterID        string
	ActCode         string
	Description     string
	SuggestedAmount decimal.Decimal
	Status          string
	CreatedBy       string
	CreatedAt       time.Time
	ResolvedBy      string
	ResolvedAt      *time.Time
}
