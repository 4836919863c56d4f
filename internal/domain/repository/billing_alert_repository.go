package repository

import "github.com/victorbarbieri91/zyra-billing/internal/domain/entity"

// BillingAlertRepository porta de persistência dos alertas de cobrança por ato.
type BillingAlertRepository interface {
	Create(a *entity.BillingAlert) error
	GetByID(id string) (*entity.BillingAlert, error)
	Update(a *entity.BillingAlert) error
	ListByOffice(officeID, status string) ([]*entity.BillingAlert, error)
}
