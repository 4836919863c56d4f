package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
)

var _ repository.RoleRateRepository = (*RoleRateRepo)(nil)

// RoleRateRepo implementação de RoleRateRepository sobre PostgreSQL.
// Chave primária composta (office_id, role_id).
type RoleRateRepo struct {
	q Querier
}

// NewRoleRateRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewRoleRateRepository(q Querier) *RoleRateRepo {
	return &RoleRateRepo{q: q}
}

// TableByOffice devolve a tabela cargo -> tarifa horária padrão do escritório.
func (r *RoleRateRepo) TableByOffice(officeID string) (map[string]decimal.Decimal, error) {
	query := `SELECT role_id, standard_hourly_rate FROM role_rates WHERE office_id = $1`
	rows, err := r.q.Query(context.Background(), query, officeID)
	if err != nil {
		return nil, fmt.Errorf("load role rate table: %w", err)
	}
	defer rows.Close()
	table := map[string]decimal.Decimal{}
	for rows.Next() {
		var roleID string
		var rate decimal.Decimal
		if err := rows.Scan(&roleID, &rate); err != nil {
			return nil, fmt.Errorf("scan role rate: %w", err)
		}
		table[roleID] = rate
	}
	return table, rows.Err()
}

// List lista as tarifas por cargo do escritório.
func (r *RoleRateRepo) List(officeID string) ([]*entity.RoleRate, error) {
	query := `
		SELECT office_id, role_id, nome, standard_hourly_rate
		FROM role_rates WHERE office_id = $1 ORDER BY role_id`
	rows, err := r.q.Query(context.Background(), query, officeID)
	if err != nil {
		return nil, fmt.Errorf("list role rates: %w", err)
	}
	defer rows.Close()
	var list []*entity.RoleRate
	for rows.Next() {
		var rr entity.RoleRate
		if err := rows.Scan(&rr.OfficeID, &rr.RoleID, &rr.Nome, &rr.StandardHourlyRate); err != nil {
			return nil, fmt.Errorf("scan role rate: %w", err)
		}
		list = append(list, &rr)
	}
	return list, rows.Err()
}

// Upsert insere ou atualiza a tarifa padrão de um cargo.
func (r *RoleRateRepo) Upsert(rr *entity.RoleRate) error {
	query := `
		INSERT INTO role_rates (office_id, role_id, nome, standard_hourly_rate)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (office_id, role_id)
		DO UPDATE SET nome = EXCLUDED.nome, standard_hourly_rate = EXCLUDED.standard_hourly_rate`
	_, err := r.q.Exec(context.Background(), query, rr.OfficeID, rr.RoleID, rr.Nome, rr.StandardHourlyRate)
	if err != nil {
		return fmt.Errorf("upsert role rate: %w", err)
	}
	return nil
}
