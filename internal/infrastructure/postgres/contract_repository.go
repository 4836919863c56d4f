package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
)

var _ repository.ContractRepository = (*ContractRepo)(nil)

// ContractRepo implementação de ContractRepository sobre PostgreSQL.
// Params e sub-regras são armazenados como JSONB: a estrutura varia por modelo
// de cobrança e é lida sempre inteira.
type ContractRepo struct {
	q Querier
}

// NewContractRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewContractRepository(q Querier) *ContractRepo {
	return &ContractRepo{q: q}
}

// Create persiste um contrato de honorários.
func (r *ContractRepo) Create(c *entity.BillingContract) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	params, err := json.Marshal(c.Params)
	if err != nil {
		return fmt.Errorf("marshal contract params: %w", err)
	}
	subRules, err := json.Marshal(c.SubRules)
	if err != nil {
		return fmt.Errorf("marshal contract sub rules: %w", err)
	}
	query := `
		INSERT INTO billing_contracts (id, office_id, client_id, model, params, sub_rules, billing_day_of_month, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(context.Background(), query,
		c.ID, c.OfficeID, c.ClientID, c.Model, params, subRules,
		c.BillingDayOfMonth, c.Version, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert billing contract: %w", err)
	}
	return nil
}

// GetByID busca um contrato por id. Retorna nil, nil quando não existe.
func (r *ContractRepo) GetByID(id string) (*entity.BillingContract, error) {
	query := `
		SELECT id, office_id, client_id, model, params, sub_rules, billing_day_of_month, version, created_at
		FROM billing_contracts WHERE id = $1`
	c, err := scanContract(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get billing contract: %w", err)
	}
	return c, nil
}

// ListByClient lista os contratos de um cliente do escritório.
func (r *ContractRepo) ListByClient(officeID, clientID string) ([]*entity.BillingContract, error) {
	query := `
		SELECT id, office_id, client_id, model, params, sub_rules, billing_day_of_month, version, created_at
		FROM billing_contracts WHERE office_id = $1 AND client_id = $2 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, officeID, clientID)
	if err != nil {
		return nil, fmt.Errorf("list billing contracts: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillingContract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan billing contract: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanContract(row pgx.Row) (*entity.BillingContract, error) {
	var c entity.BillingContract
	var params, subRules []byte
	err := row.Scan(&c.ID, &c.OfficeID, &c.ClientID, &c.Model, &params, &subRules,
		&c.BillingDayOfMonth, &c.Version, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &c.Params); err != nil {
			return nil, fmt.Errorf("unmarshal contract params: %w", err)
		}
	}
	if len(subRules) > 0 {
		if err := json.Unmarshal(subRules, &c.SubRules); err != nil {
			return nil, fmt.Errorf("unmarshal contract sub rules: %w", err)
		}
	}
	return &c, nil
}
