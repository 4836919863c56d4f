package dto

// RegisterOfficeRequest cria o escritório e o primeiro usuário (sócio).
type RegisterOfficeRequest struct {
	OfficeName              string `json:"office_name"`
	CNPJ                    string `json:"cnpj"`
	CodigoMunicipio         string `json:"codigo_municipio"`
	RequireDistinctApprover bool   `json:"require_distinct_approver"`
	Name                    string `json:"name"`
	Email                   string `json:"email"`
	Password                string `json:"password"`
}

// RegisterUserRequest cria um membro no escritório do token.
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest autenticação por e-mail e senha.
type LoginRequest struct {
	OfficeID string `json:"office_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse usuário sem campos sensíveis.
type UserResponse struct {
	ID       string `json:"id"`
	OfficeID string `json:"office_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoginResponse token JWT e dados básicos do usuário.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
