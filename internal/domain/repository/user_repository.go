package repository

import "github.com/victorbarbieri91/zyra-billing/internal/domain/entity"

// UserRepository porta de persistência de membros do escritório.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmailAndOffice(email, officeID string) (*entity.User, error)
}
