package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de origem de uma linha de fatura.
const (
	SourceTimesheetAggregate = "horas_consolidadas" // soma única das horas aprovadas do período
	SourceFee                = "honorarios"
	SourceExpense            = "despesa"
	SourceProceduralAct      = "ato_processual"
)

// Invoice cabeçalho de uma fatura consolidada.
// Imutável após emissão; GrandTotal = SubtotalFees + SubtotalHours + SubtotalExpenses.
type Invoice struct {
	ID               string
	Number           string
	OfficeID         string
	ClientID         string
	IssueDate        time.Time
	DueDate          time.Time
	PeriodFrom       time.Time // ciclo de cobrança coberto pela fatura
	PeriodTo         time.Time
	Observations     string
	SubtotalFees     decimal.Decimal
	SubtotalHours    decimal.Decimal
	SubtotalExpenses decimal.Decimal
	GrandTotal       decimal.Decimal
	HoursTotal       decimal.Decimal
	CreatedAt        time.Time
}

// InvoiceLineItem linha de uma fatura.
// Uma fatura tem no máximo uma linha horas_consolidadas; o detalhe dos
// lançamentos fica no anexo de horas, nunca duplicado como linhas avulsas.
type InvoiceLineItem struct {
	ID          string
	InvoiceID   string
	SourceType  string
	ContractID  string // contrato que originou a linha automática (fixo/mensalidade)
	Description string
	Quantity    decimal.Decimal // horas ou quantidade
	UnitAmount  *decimal.Decimal
	TotalAmount decimal.Decimal
	MatterTitle string
}
