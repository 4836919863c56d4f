// Package auth registro de escritórios/membros e autenticação por e-mail e senha.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/victorbarbieri91/zyra-billing/internal/application/dto"
	"github.com/victorbarbieri91/zyra-billing/internal/domain"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
	"github.com/victorbarbieri91/zyra-billing/pkg/config"
	"github.com/victorbarbieri91/zyra-billing/pkg/jwt"
	"github.com/victorbarbieri91/zyra-billing/pkg/logger"
)

// UseCase caso de uso de autenticação e cadastro.
type UseCase struct {
	users   repository.UserRepository
	offices repository.OfficeRepository
	jwtCfg  config.JWTConfig
	log     *logger.Logger
}

// NewUseCase constrói o caso de uso.
func NewUseCase(users repository.UserRepository, offices repository.OfficeRepository, jwtCfg config.JWTConfig, log *logger.Logger) *UseCase {
	return &UseCase{users: users, offices: offices, jwtCfg: jwtCfg, log: log.Modulo("auth")}
}

// RegisterOffice cria o escritório e o primeiro usuário, sempre sócio.
func (u *UseCase) RegisterOffice(ctx context.Context, in dto.RegisterOfficeRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(in.OfficeName) == "" || !validEmail(in.Email) || len(in.Password) < 8 {
		return nil, domain.ErrValidation
	}

	office := &entity.Office{
		ID:                      uuid.New().String(),
		Name:                    strings.TrimSpace(in.OfficeName),
		CNPJ:                    in.CNPJ,
		CodigoMunicipio:         in.CodigoMunicipio,
		RequireDistinctApprover: in.RequireDistinctApprover,
		CreatedAt:               time.Now(),
	}
	if err := u.offices.Create(office); err != nil {
		return nil, err
	}

	user, err := u.createUser(office.ID, in.Name, in.Email, in.Password, entity.RoleSocio)
	if err != nil {
		return nil, err
	}

	u.log.Info().Str("office_id", office.ID).Str("user_id", user.ID).Msg("escritório registrado")
	return u.issueToken(user)
}

// RegisterUser cria um membro no escritório do token. Restrito a sócios no handler.
func (u *UseCase) RegisterUser(ctx context.Context, officeID string, in dto.RegisterUserRequest) (*dto.UserResponse, error) {
	if !validEmail(in.Email) || len(in.Password) < 8 || !validRole(in.Role) {
		return nil, domain.ErrValidation
	}
	if existing, err := u.users.GetByEmailAndOffice(strings.ToLower(in.Email), officeID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	user, err := u.createUser(officeID, in.Name, in.Email, in.Password, in.Role)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// Login autentica por e-mail e senha dentro de um escritório.
// Credencial inválida e usuário inexistente retornam o mesmo erro.
func (u *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := u.users.GetByEmailAndOffice(strings.ToLower(in.Email), in.OfficeID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	return u.issueToken(user)
}

func (u *UseCase) createUser(officeID, name, email, password, role string) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		OfficeID:     officeID,
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := u.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UseCase) issueToken(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(u.jwtCfg.Secret, user.ID, user.OfficeID, user.Role, u.jwtCfg.Issuer, u.jwtCfg.Expiration)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: toUserResponse(user)}, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, OfficeID: u.OfficeID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at:], ".")
}

func validRole(role string) bool {
	switch role {
	case entity.RoleSocio, entity.RoleAdvogado, entity.RoleEstagiario, entity.RoleAdministrativo:
		return true
	}
	return false
}
