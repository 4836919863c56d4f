package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados do fluxo de aprovação de um lançamento de horas.
const (
	StatusPendente  = "pendente"
	StatusAprovado  = "aprovado"
	StatusReprovado = "reprovado" // terminal; correção gera um novo lançamento
)

// TimesheetEntry lançamento de horas de um profissional.
// No máximo um entre MatterID e ConsultationID é preenchido.
type TimesheetEntry struct {
	ID                     string
	OfficeID               string
	AuthorUserID           string
	RoleID                 string // cargo do autor na data do trabalho (tarifa por cargo)
	MatterID               string
	ConsultationID         string
	WorkDate               time.Time
	StartTime              *time.Time
	EndTime                *time.Time
	Hours                  decimal.Decimal
	Activity               string
	Billable               bool
	BillableManualOverride bool
	Status                 string
	Billed                 bool
	InvoiceID              string // fatura que consumiu o lançamento, quando Billed
	Edited                 bool
	RejectionReason        string
	ReviewedBy             string     // quem aprovou ou reprovou
	ReviewedAt             *time.Time // momento da revisão; zerado no estorno
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Faturavel indica se o lançamento pode compor uma fatura.
func (e *TimesheetEntry) Faturavel() bool {
	return e.Status == StatusAprovado && e.Billable && !e.Billed && e.Hours.GreaterThan(decimal.Zero)
}
