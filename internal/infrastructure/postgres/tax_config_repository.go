package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
)

var _ repository.TaxConfigRepository = (*TaxConfigRepo)(nil)

// TaxConfigRepo implementação de TaxConfigRepository sobre PostgreSQL.
// Uma linha por escritório; os sub-objetos de regime vão em JSONB.
type TaxConfigRepo struct {
	q Querier
}

// NewTaxConfigRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewTaxConfigRepository(q Querier) *TaxConfigRepo {
	return &TaxConfigRepo{q: q}
}

// GetByOffice busca a configuração vigente. Retorna nil, nil quando não existe.
func (r *TaxConfigRepo) GetByOffice(officeID string) (*entity.TaxRegimeConfig, error) {
	query := `
		SELECT office_id, regime, presumido, simples, updated_at
		FROM tax_regime_configs WHERE office_id = $1`
	var cfg entity.TaxRegimeConfig
	var presumido, simples []byte
	err := r.q.QueryRow(context.Background(), query, officeID).Scan(
		&cfg.OfficeID, &cfg.Regime, &presumido, &simples, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tax config: %w", err)
	}
	if len(presumido) > 0 {
		if err := json.Unmarshal(presumido, &cfg.Presumido); err != nil {
			return nil, fmt.Errorf("unmarshal presumido: %w", err)
		}
	}
	if len(simples) > 0 {
		if err := json.Unmarshal(simples, &cfg.Simples); err != nil {
			return nil, fmt.Errorf("unmarshal simples: %w", err)
		}
	}
	return &cfg, nil
}

// Upsert grava a configuração do escritório (insert ou substituição integral).
func (r *TaxConfigRepo) Upsert(cfg *entity.TaxRegimeConfig) error {
	var presumido, simples []byte
	var err error
	if cfg.Presumido != nil {
		if presumido, err = json.Marshal(cfg.Presumido); err != nil {
			return fmt.Errorf("marshal presumido: %w", err)
		}
	}
	if cfg.Simples != nil {
		if simples, err = json.Marshal(cfg.Simples); err != nil {
			return fmt.Errorf("marshal simples: %w", err)
		}
	}
	query := `
		INSERT INTO tax_regime_configs (office_id, regime, presumido, simples, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (office_id)
		DO UPDATE SET regime = EXCLUDED.regime, presumido = EXCLUDED.presumido,
		              simples = EXCLUDED.simples, updated_at = EXCLUDED.updated_at`
	_, err = r.q.Exec(context.Background(), query, cfg.OfficeID, cfg.Regime, presumido, simples, cfg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert tax config: %w", err)
	}
	return nil
}
