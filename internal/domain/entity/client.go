package entity

import "time"

// Client cliente do escritório (metadados de exibição; cadastro completo é do CRM).
type Client struct {
	ID        string
	OfficeID  string
	Name      string
	Document  string // CPF/CNPJ
	Email     string
	CreatedAt time.Time
}

// Matter processo/pasta vinculado a um cliente e a um contrato de honorários.
type Matter struct {
	ID         string
	OfficeID   string
	ClientID   string
	ContractID string
	Pasta      string // número da pasta
	Title      string
}

// Consultation consulta avulsa vinculada a um cliente e a um contrato.
type Consultation struct {
	ID         string
	OfficeID   string
	ClientID   string
	ContractID string
	Title      string
}
