package entity

import "time"

// Office escritório de advocacia (tenant).
type Office struct {
	ID                 string
	Name               string
	CNPJ               string
	InscricaoMunicipal string
	CodigoMunicipio    string // código IBGE, usado no RPS/NFS-e
	// RequireDistinctApprover exige que o aprovador do timesheet seja
	// diferente do autor. Política configurável por escritório.
	RequireDistinctApprover bool
	CreatedAt               time.Time
}
