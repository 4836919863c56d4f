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

var _ repository.BillingAlertRepository = (*BillingAlertRepo)(nil)

// BillingAlertRepo implementação de BillingAlertRepository sobre PostgreSQL.
type BillingAlertRepo struct {
	q Querier
}

// NewBillingAlertRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewBillingAlertRepository(q Querier) *BillingAlertRepo {
	return &BillingAlertRepo{q: q}
}

// Create persiste um alerta de cobrança.
func (r *BillingAlertRepo) Create(a *entity.BillingAlert) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO billing_alerts (id, office_id, contract_id, matter_id, act_code, description,
		                            suggested_amount, status, created_by, created_at, resolved_by, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.OfficeID, a.ContractID, a.MatterID, a.ActCode, nullIfEmpty(a.Description),
		a.SuggestedAmount, a.Status, a.CreatedBy, a.CreatedAt, nullIfEmpty(a.ResolvedBy), a.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert billing alert: %w", err)
	}
	return nil
}

// GetByID busca um alerta por id. Retorna nil, nil quando não existe.
func (r *BillingAlertRepo) GetByID(id string) (*entity.BillingAlert, error) {
	query := `
		SELECT id, office_id, contract_id, matter_id, act_code, COALESCE(description, ''),
		       suggested_amount, status, created_by, created_at, COALESCE(resolved_by, ''), resolved_at
		FROM billing_alerts WHERE id = $1`
	a, err := scanAlert(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get billing alert: %w", err)
	}
	return a, nil
}

// Update persiste status e metadados de resolução.
func (r *BillingAlertRepo) Update(a *entity.BillingAlert) error {
	query := `
		UPDATE billing_alerts
		SET status = $2, resolved_by = $3, resolved_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, a.ID, a.Status, nullIfEmpty(a.ResolvedBy), a.ResolvedAt)
	if err != nil {
		return fmt.Errorf("update billing alert: %w", err)
	}
	return nil
}

// ListByOffice lista alertas do escritório, opcionalmente por status.
func (r *BillingAlertRepo) ListByOffice(officeID, status string) ([]*entity.BillingAlert, error) {
	query := `
		SELECT id, office_id, contract_id, matter_id, act_code, COALESCE(description, ''),
		       suggested_amount, status, created_by, created_at, COALESCE(resolved_by, ''), resolved_at
		FROM billing_alerts WHERE office_id = $1`
	args := []any{officeID}
	if status != "" {
		args = append(args, status)
		query += " AND status = $2"
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list billing alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillingAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan billing alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAlert(row pgx.Row) (*entity.BillingAlert, error) {
	var a entity.BillingAlert
	err := row.Scan(
		&a.ID, &a.OfficeID, &a.ContractID, &a.MatterID, &a.ActCode, &a.Description,
		&a.SuggestedAmount, &a.Status, &a.CreatedBy, &a.CreatedAt, &a.ResolvedBy, &a.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
