package repository

import (
	"time"

	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
)

// BillingPeriod intervalo de cobrança já coberto por uma fatura emitida.
type BillingPeriod struct {
	From time.Time
	To   time.Time
}

// Covers indica se a data cai dentro do intervalo (inclusivo).
func (p BillingPeriod) Covers(d time.Time) bool {
	return !d.Before(p.From) && !d.After(p.To)
}

// Overlaps indica se o intervalo cruza [from, to].
func (p BillingPeriod) Overlaps(from, to time.Time) bool {
	return !p.From.After(to) && !p.To.Before(from)
}

// InvoiceRepository porta de persistência de faturas e linhas.
type InvoiceRepository interface {
	Create(inv *entity.Invoice) error
	CreateLine(line *entity.InvoiceLineItem) error
	GetByID(id string) (*entity.Invoice, error)
	GetLines(invoiceID string) ([]*entity.InvoiceLineItem, error)
	// ListBilledEntries devolve os lançamentos consumidos pela fatura,
	// ordenados por data de trabalho e id (anexo de horas).
	ListBilledEntries(invoiceID string) ([]*entity.TimesheetEntry, error)
	// ListFeePeriods devolve os períodos das faturas que já contêm linha
	// automática de honorários do contrato (guarda de "uma vez por ciclo").
	ListFeePeriods(contractID string) ([]BillingPeriod, error)
}
