package repository

import "github.com/victorbarbieri91/zyra-billing/internal/domain/entity"

// ClientRepository porta de leitura dos metadados de exibição do CRM
// (nome do cliente, número da pasta, título do caso).
type ClientRepository interface {
	GetByID(id string) (*entity.Client, error)
	GetMatter(id string) (*entity.Matter, error)
	GetConsultation(id string) (*entity.Consultation, error)
	ListMattersByClient(officeID, clientID string) ([]*entity.Matter, error)
}
