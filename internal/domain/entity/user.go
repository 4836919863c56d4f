package entity

import "time"

// Cargos (roles) de um membro do escritório.
const (
	RoleSocio          = "socio"
	RoleAdvogado       = "advogado"
	RoleEstagiario     = "estagiario"
	RoleAdministrativo = "administrativo"
)

// User membro de um escritório.
type User struct {
	ID           string
	OfficeID     string
	Name         string
	Email        string
	PasswordHash string
	Role         string // cargo; também indexa a tabela de tarifas padrão
	Active       bool
	CreatedAt    time.Time
}
