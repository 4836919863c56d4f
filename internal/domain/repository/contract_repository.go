package repository

import "github.com/victorbarbieri91/zyra-billing/internal/domain/entity"

// ContractRepository porta de persistência dos contratos de honorários.
// Leituras sempre frescas: aditivos de tarifa valem na próxima apuração.
type ContractRepository interface {
	Create(c *entity.BillingContract) error
	GetByID(id string) (*entity.BillingContract, error)
	ListByClient(officeID, clientID string) ([]*entity.BillingContract, error)
}
