package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTimesheetRequest criação de lançamento de horas (ao vivo ou retroativo).
// Billable nulo = default do contrato; não nulo = override manual.
type CreateTimesheetRequest struct {
	MatterID       string          `json:"matter_id"`
	ConsultationID string          `json:"consultation_id"`
	WorkDate       time.Time       `json:"work_date"`
	StartTime      *time.Time      `json:"start_time"`
	EndTime        *time.Time      `json:"end_time"`
	Hours          decimal.Decimal `json:"hours"`
	Activity       string          `json:"activity"`
	Billable       *bool           `json:"billable"`
}

// EditTimesheetRequest edição inline de lançamento pendente.
type EditTimesheetRequest struct {
	Hours    decimal.Decimal `json:"hours"`
	Activity string          `json:"activity"`
	Billable *bool           `json:"billable"`
}

// ApproveRequest aprovação em lote.
type ApproveRequest struct {
	IDs []string `json:"ids"`
}

// RejectRequest reprovação em lote com justificativa obrigatória (>= 10 caracteres).
type RejectRequest struct {
	IDs    []string `json:"ids"`
	Reason string   `json:"reason"`
}

// TimesheetEntryResponse representação de um lançamento.
type TimesheetEntryResponse struct {
	ID              string          `json:"id"`
	AuthorUserID    string          `json:"author_user_id"`
	MatterID        string          `json:"matter_id,omitempty"`
	ConsultationID  string          `json:"consultation_id,omitempty"`
	WorkDate        string          `json:"work_date"`
	Hours           decimal.Decimal `json:"hours"`
	Activity        string          `json:"activity"`
	Billable        bool            `json:"billable"`
	ManualOverride  bool            `json:"billable_is_manual_override"`
	Status          string          `json:"status"`
	Billed          bool            `json:"billed"`
	Edited          bool            `json:"edited"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	ReviewedBy      string          `json:"reviewed_by,omitempty"`
}
