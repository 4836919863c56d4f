package repository

import (
	"time"

	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
)

// TimesheetFilter filtros de listagem de lançamentos.
type TimesheetFilter struct {
	Status       string
	AuthorUserID string
	MatterID     string
	From         *time.Time
	To           *time.Time
}

// TimesheetRepository porta de persistência dos lançamentos de horas.
type TimesheetRepository interface {
	Create(e *entity.TimesheetEntry) error
	GetByID(id string) (*entity.TimesheetEntry, error)
	// Update persiste status, horas, atividade, billable e metadados de aprovação.
	Update(e *entity.TimesheetEntry) error
	List(officeID string, f TimesheetFilter) ([]*entity.TimesheetEntry, error)
	// SelectBillable seleciona lançamentos aprovados, faturáveis e não faturados
	// do cliente no período, bloqueando as linhas (FOR UPDATE) quando executado
	// dentro de uma transação.
	SelectBillable(officeID, clientID string, from, to time.Time) ([]*entity.TimesheetEntry, error)
	// MarkBilled marca os lançamentos como faturados. Deve rodar na mesma
	// transação da criação da fatura.
	MarkBilled(ids []string, invoiceID string) error
}
