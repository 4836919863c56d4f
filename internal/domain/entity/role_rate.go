package entity

import "github.com/shopspring/decimal"

// RoleRate tarifa horária padrão de um cargo no escritório.
// Contratos por_cargo podem sobrescrever com tarifa negociada.
type RoleRate struct {
	OfficeID           string
	RoleID             string
	Nome               string
	StandardHourlyRate decimal.Decimal
}
