package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtraLineItem honorário ou despesa avulsa, inserida manualmente na fatura.
type ExtraLineItem struct {
	SourceType  string           `json:"source_type"` // honorarios | despesa | ato_processual
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitAmount  *decimal.Decimal `json:"unit_amount"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	MatterID    string           `json:"matter_id"`
}

// BuildInvoiceRequest consolidação da fatura de um cliente em um período.
type BuildInvoiceRequest struct {
	ClientID     string          `json:"client_id"`
	PeriodFrom   time.Time       `json:"period_from"`
	PeriodTo     time.Time       `json:"period_to"`
	DueDate      time.Time       `json:"due_date"`
	Observations string          `json:"observations"`
	ExtraItems   []ExtraLineItem `json:"extra_items"`
}

// InvoiceLineResponse linha da fatura.
type InvoiceLineResponse struct {
	ID          string           `json:"id"`
	SourceType  string           `json:"source_type"`
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitAmount  *decimal.Decimal `json:"unit_amount,omitempty"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	MatterTitle string           `json:"matter_title,omitempty"`
}

// WithholdingResponse retenção exibida na fatura (anotação, não altera totais).
type WithholdingResponse struct {
	Code             string          `json:"code"`
	Amount           decimal.Decimal `json:"amount"`
	Formatted        string          `json:"formatted"`
	WithheldAtSource bool            `json:"withheld_at_source"`
}

// InvoiceResponse fatura consolidada.
type InvoiceResponse struct {
	ID               string                `json:"id"`
	Number           string                `json:"number"`
	ClientID         string                `json:"client_id"`
	ClientName       string                `json:"client_name"`
	IssueDate        string                `json:"issue_date"`
	DueDate          string                `json:"due_date"`
	PeriodFrom       string                `json:"period_from"`
	PeriodTo         string                `json:"period_to"`
	Observations     string                `json:"observations,omitempty"`
	SubtotalFees     decimal.Decimal       `json:"subtotal_fees"`
	SubtotalHours    decimal.Decimal       `json:"subtotal_hours"`
	SubtotalExpenses decimal.Decimal       `json:"subtotal_expenses"`
	GrandTotal       decimal.Decimal       `json:"grand_total"`
	GrandTotalBRL    string                `json:"grand_total_brl"`
	HoursTotal       decimal.Decimal       `json:"hours_total"`
	EffectiveTaxRate decimal.Decimal       `json:"effective_tax_rate"`
	Withholdings     []WithholdingResponse `json:"withholdings,omitempty"`
	Lines            []InvoiceLineResponse `json:"lines"`
}

// AnnexRow linha do anexo de horas (detalhe por lançamento, ordenado por data).
type AnnexRow struct {
	EntryID      string          `json:"entry_id"`
	WorkDate     string          `json:"work_date"`
	AuthorUserID string          `json:"author_user_id"`
	Activity     string          `json:"activity"`
	Hours        decimal.Decimal `json:"hours"`
	HoursLabel   string          `json:"hours_label"`
}

// AnnexResponse anexo de horas de uma fatura, derivado na renderização
// (nunca persistido como linhas próprias).
type AnnexResponse struct {
	InvoiceID  string          `json:"invoice_id"`
	Number     string          `json:"number"`
	HoursTotal decimal.Decimal `json:"hours_total"`
	Rows       []AnnexRow      `json:"rows"`
}

// timeFmt helpers de formatação de datas dos DTOs.
func FormatDate(t time.Time) string { return t.Format("2006-01-02") }
