package repository

import "github.com/victorbarbieri91/zyra-billing/internal/domain/entity"

// TaxConfigRepository porta de leitura/edição da configuração tributária do escritório.
// Edição apenas pelo formulário administrativo; o cálculo é somente leitura.
type TaxConfigRepository interface {
	GetByOffice(officeID string) (*entity.TaxRegimeConfig, error)
	Upsert(cfg *entity.TaxRegimeConfig) error
}
