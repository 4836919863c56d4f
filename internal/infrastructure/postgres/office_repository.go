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

var _ repository.OfficeRepository = (*OfficeRepo)(nil)

// OfficeRepo implementação de OfficeRepository sobre PostgreSQL.
type OfficeRepo struct {
	q Querier
}

// NewOfficeRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewOfficeRepository(q Querier) *OfficeRepo {
	return &OfficeRepo{q: q}
}

// Create persiste um escritório.
func (r *OfficeRepo) Create(o *entity.Office) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	query := `
		INSERT INTO offices (id, name, cnpj, inscricao_municipal, codigo_municipio, require_distinct_approver, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.Name, nullIfEmpty(o.CNPJ), nullIfEmpty(o.InscricaoMunicipal),
		nullIfEmpty(o.CodigoMunicipio), o.RequireDistinctApprover, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert office: %w", err)
	}
	return nil
}

// GetByID busca um escritório por id. Retorna nil, nil quando não existe.
func (r *OfficeRepo) GetByID(id string) (*entity.Office, error) {
	query := `
		SELECT id, name, COALESCE(cnpj, ''), COALESCE(inscricao_municipal, ''),
		       COALESCE(codigo_municipio, ''), require_distinct_approver, created_at
		FROM offices WHERE id = $1`
	var o entity.Office
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.Name, &o.CNPJ, &o.InscricaoMunicipal,
		&o.CodigoMunicipio, &o.RequireDistinctApprover, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get office: %w", err)
	}
	return &o, nil
}
