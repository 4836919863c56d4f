package repository

import "github.com/victorbarbieri91/zyra-billing/internal/domain/entity"

// OfficeRepository porta de persistência de escritórios.
type OfficeRepository interface {
	Create(o *entity.Office) error
	GetByID(id string) (*entity.Office, error)
}
