package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementação de InvoiceRepository (usável com pool ou tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste o cabeçalho da fatura.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, number, office_id, client_id, issue_date, due_date, period_from, period_to, observations,
		                      subtotal_fees, subtotal_hours, subtotal_expenses, grand_total, hours_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.Number, inv.OfficeID, inv.ClientID, inv.IssueDate, inv.DueDate,
		inv.PeriodFrom, inv.PeriodTo,
		nullIfEmpty(inv.Observations),
		inv.SubtotalFees, inv.SubtotalHours, inv.SubtotalExpenses, inv.GrandTotal, inv.HoursTotal,
		inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de fatura já existe: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLine persiste uma linha da fatura.
func (r *InvoiceRepo) CreateLine(line *entity.InvoiceLineItem) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_line_items (id, invoice_id, source_type, contract_id, description, quantity, unit_amount, total_amount, matter_title)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.InvoiceID, line.SourceType, nullIfEmpty(line.ContractID), line.Description,
		line.Quantity, line.UnitAmount, line.TotalAmount, nullIfEmpty(line.MatterTitle),
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// GetByID busca uma fatura por id. Retorna nil, nil quando não existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `
		SELECT id, number, office_id, client_id, issue_date, due_date, period_from, period_to, COALESCE(observations, ''),
		       subtotal_fees, subtotal_hours, subtotal_expenses, grand_total, hours_total, created_at
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.Number, &inv.OfficeID, &inv.ClientID, &inv.IssueDate, &inv.DueDate,
		&inv.PeriodFrom, &inv.PeriodTo, &inv.Observations,
		&inv.SubtotalFees, &inv.SubtotalHours, &inv.SubtotalExpenses, &inv.GrandTotal, &inv.HoursTotal,
		&inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// GetLines busca todas as linhas de uma fatura.
func (r *InvoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLineItem, error) {
	query := `
		SELECT id, invoice_id, source_type, COALESCE(contract_id, ''), description, quantity, unit_amount, total_amount, COALESCE(matter_title, '')
		FROM invoice_line_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLineItem
	for rows.Next() {
		var ln entity.InvoiceLineItem
		if err := rows.Scan(&ln.ID, &ln.InvoiceID, &ln.SourceType, &ln.ContractID, &ln.Description,
			&ln.Quantity, &ln.UnitAmount, &ln.TotalAmount, &ln.MatterTitle); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		list = append(list, &ln)
	}
	return list, rows.Err()
}

// ListFeePeriods devolve os períodos das faturas que já têm linha automática
// de honorários do contrato. Base da guarda de cobrança única por ciclo.
func (r *InvoiceRepo) ListFeePeriods(contractID string) ([]repository.BillingPeriod, error) {
	query := `
		SELECT DISTINCT i.period_from, i.period_to
		FROM invoices i
		JOIN invoice_line_items l ON l.invoice_id = i.id
		WHERE l.contract_id = $1`
	rows, err := r.q.Query(context.Background(), query, contractID)
	if err != nil {
		return nil, fmt.Errorf("list fee periods: %w", err)
	}
	defer rows.Close()
	var periods []repository.BillingPeriod
	for rows.Next() {
		var p repository.BillingPeriod
		if err := rows.Scan(&p.From, &p.To); err != nil {
			return nil, fmt.Errorf("scan fee period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// ListBilledEntries devolve os lançamentos consumidos pela fatura na ordem do
// anexo de horas (data de trabalho, id).
func (r *InvoiceRepo) ListBilledEntries(invoiceID string) ([]*entity.TimesheetEntry, error) {
	query := `SELECT ` + timesheetColumns + `
		FROM timesheet_entries WHERE invoice_id = $1 ORDER BY work_date, id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list billed entries: %w", err)
	}
	defer rows.Close()
	return collectTimesheetEntries(rows)
}
