package repository

import (
	"github.com/shopspring/decimal"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
)

// RoleRateRepository porta da tabela de tarifas padrão por cargo.
type RoleRateRepository interface {
	TableByOffice(officeID string) (map[string]decimal.Decimal, error)
	List(officeID string) ([]*entity.RoleRate, error)
	Upsert(r *entity.RoleRate) error
}
