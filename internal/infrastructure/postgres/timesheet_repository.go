package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
)

var _ repository.TimesheetRepository = (*TimesheetRepo)(nil)

// TimesheetRepo implementação de TimesheetRepository sobre PostgreSQL (usável com pool ou tx).
type TimesheetRepo struct {
	q Querier
}

// NewTimesheetRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewTimesheetRepository(q Querier) *TimesheetRepo {
	return &TimesheetRepo{q: q}
}

const timesheetColumns = `
	id, office_id, author_user_id, role_id, matter_id, consultation_id,
	work_date, start_time, end_time, hours, activity,
	billable, billable_manual_override, status, billed, invoice_id, edited,
	rejection_reason, reviewed_by, reviewed_at, created_at, updated_at`

// Create persiste um lançamento de horas.
func (r *TimesheetRepo) Create(e *entity.TimesheetEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO timesheet_entries (` + timesheetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.OfficeID, e.AuthorUserID, e.RoleID,
		nullIfEmpty(e.MatterID), nullIfEmpty(e.ConsultationID),
		e.WorkDate, e.StartTime, e.EndTime, e.Hours, e.Activity,
		e.Billable, e.BillableManualOverride, e.Status, e.Billed,
		nullIfEmpty(e.InvoiceID), e.Edited,
		nullIfEmpty(e.RejectionReason), nullIfEmpty(e.ReviewedBy), e.ReviewedAt,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert timesheet entry: %w", err)
	}
	return nil
}

// GetByID busca um lançamento por id. Retorna nil, nil quando não existe.
func (r *TimesheetRepo) GetByID(id string) (*entity.TimesheetEntry, error) {
	query := `SELECT ` + timesheetColumns + ` FROM timesheet_entries WHERE id = $1`
	e, err := scanTimesheetEntry(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get timesheet entry: %w", err)
	}
	return e, nil
}

// Update persiste status, horas, atividade, billable e metadados de aprovação.
func (r *TimesheetRepo) Update(e *entity.TimesheetEntry) error {
	query := `
		UPDATE timesheet_entries
		SET hours = $2, activity = $3,
		    billable = $4, billable_manual_override = $5,
		    status = $6, billed = $7, invoice_id = $8, edited = $9,
		    rejection_reason = $10, reviewed_by = $11, reviewed_at = $12,
		    updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.Hours, e.Activity,
		e.Billable, e.BillableManualOverride,
		e.Status, e.Billed, nullIfEmpty(e.InvoiceID), e.Edited,
		nullIfEmpty(e.RejectionReason), nullIfEmpty(e.ReviewedBy), e.ReviewedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update timesheet entry: %w", err)
	}
	return nil
}

// List lista lançamentos do escritório com filtros opcionais.
func (r *TimesheetRepo) List(officeID string, f repository.TimesheetFilter) ([]*entity.TimesheetEntry, error) {
	query := `SELECT ` + timesheetColumns + ` FROM timesheet_entries WHERE office_id = $1`
	args := []any{officeID}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.AuthorUserID != "" {
		args = append(args, f.AuthorUserID)
		query += fmt.Sprintf(" AND author_user_id = $%d", len(args))
	}
	if f.MatterID != "" {
		args = append(args, f.MatterID)
		query += fmt.Sprintf(" AND matter_id = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		query += fmt.Sprintf(" AND work_date >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		query += fmt.Sprintf(" AND work_date <= $%d", len(args))
	}
	query += " ORDER BY work_date DESC, id"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list timesheet entries: %w", err)
	}
	defer rows.Close()
	return collectTimesheetEntries(rows)
}

// SelectBillable seleciona lançamentos aprovados, faturáveis e não faturados do
// cliente no período, via pasta ou consulta, bloqueando as linhas para a
// consolidação. Só tem efeito de lock dentro de uma transação.
func (r *TimesheetRepo) SelectBillable(officeID, clientID string, from, to time.Time) ([]*entity.TimesheetEntry, error) {
	query := `
		SELECT e.id, e.office_id, e.author_user_id, e.role_id, e.matter_id, e.consultation_id,
		       e.work_date, e.start_time, e.end_time, e.hours, e.activity,
		       e.billable, e.billable_manual_override, e.status, e.billed, e.invoice_id, e.edited,
		       e.rejection_reason, e.reviewed_by, e.reviewed_at, e.created_at, e.updated_at
		FROM timesheet_entries e
		LEFT JOIN matters m ON m.id = e.matter_id
		LEFT JOIN consultations c ON c.id = e.consultation_id
		WHERE e.office_id = $1
		  AND COALESCE(m.client_id, c.client_id) = $2
		  AND e.status = 'aprovado'
		  AND e.billable
		  AND NOT e.billed
		  AND e.hours > 0
		  AND e.work_date BETWEEN $3 AND $4
		ORDER BY e.work_date, e.id
		FOR UPDATE OF e`
	rows, err := r.q.Query(context.Background(), query, officeID, clientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("select billable entries: %w", err)
	}
	defer rows.Close()
	return collectTimesheetEntries(rows)
}

// MarkBilled marca os lançamentos como consumidos pela fatura.
// Deve rodar na mesma transação da criação da fatura.
func (r *TimesheetRepo) MarkBilled(ids []string, invoiceID string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE timesheet_entries
		SET billed = true, invoice_id = $2, updated_at = now()
		WHERE id = ANY($1)`
	_, err := r.q.Exec(context.Background(), query, ids, invoiceID)
	if err != nil {
		return fmt.Errorf("mark entries billed: %w", err)
	}
	return nil
}

func scanTimesheetEntry(row pgx.Row) (*entity.TimesheetEntry, error) {
	var e entity.TimesheetEntry
	var matterID, consultationID, invoiceID, rejectionReason, reviewedBy *string
	err := row.Scan(
		&e.ID, &e.OfficeID, &e.AuthorUserID, &e.RoleID, &matterID, &consultationID,
		&e.WorkDate, &e.StartTime, &e.EndTime, &e.Hours, &e.Activity,
		&e.Billable, &e.BillableManualOverride, &e.Status, &e.Billed, &invoiceID, &e.Edited,
		&rejectionReason, &reviewedBy, &e.ReviewedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.MatterID = derefStr(matterID)
	e.ConsultationID = derefStr(consultationID)
	e.InvoiceID = derefStr(invoiceID)
	e.RejectionReason = derefStr(rejectionReason)
	e.ReviewedBy = derefStr(reviewedBy)
	return &e, nil
}

func collectTimesheetEntries(rows pgx.Rows) ([]*entity.TimesheetEntry, error) {
	var list []*entity.TimesheetEntry
	for rows.Next() {
		e, err := scanTimesheetEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan timesheet entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
