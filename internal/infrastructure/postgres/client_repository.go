package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo leitura dos metadados de exibição do CRM (clientes, pastas, consultas).
type ClientRepo struct {
	q Querier
}

// NewClientRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// GetByID busca um cliente. Retorna nil, nil quando não existe.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	query := `
		SELECT id, office_id, name, COALESCE(document, ''), COALESCE(email, ''), created_at
		FROM clients WHERE id = $1`
	var c entity.Client
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.OfficeID, &c.Name, &c.Document, &c.Email, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// GetMatter busca uma pasta. Retorna nil, nil quando não existe.
func (r *ClientRepo) GetMatter(id string) (*entity.Matter, error) {
	query := `
		SELECT id, office_id, client_id, COALESCE(contract_id, ''), pasta, COALESCE(title, '')
		FROM matters WHERE id = $1`
	var m entity.Matter
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.OfficeID, &m.ClientID, &m.ContractID, &m.Pasta, &m.Title,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get matter: %w", err)
	}
	return &m, nil
}

// GetConsultation busca uma consulta avulsa. Retorna nil, nil quando não existe.
func (r *ClientRepo) GetConsultation(id string) (*entity.Consultation, error) {
	query := `
		SELECT id, office_id, client_id, COALESCE(contract_id, ''), COALESCE(title, '')
		FROM consultations WHERE id = $1`
	var c entity.Consultation
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.OfficeID, &c.ClientID, &c.ContractID, &c.Title,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	return &c, nil
}

// ListMattersByClient lista as pastas de um cliente do escritório.
func (r *ClientRepo) ListMattersByClient(officeID, clientID string) ([]*entity.Matter, error) {
	query := `
		SELECT id, office_id, client_id, COALESCE(contract_id, ''), pasta, COALESCE(title, '')
		FROM matters WHERE office_id = $1 AND client_id = $2 ORDER BY pasta`
	rows, err := r.q.Query(context.Background(), query, officeID, clientID)
	if err != nil {
		return nil, fmt.Errorf("list matters: %w", err)
	}
	defer rows.Close()
	var list []*entity.Matter
	for rows.Next() {
		var m entity.Matter
		if err := rows.Scan(&m.ID, &m.OfficeID, &m.ClientID, &m.ContractID, &m.Pasta, &m.Title); err != nil {
			return nil, fmt.Errorf("scan matter: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
