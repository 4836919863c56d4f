package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/victorbarbieri91/zyra-billing/internal/application/auth"
	"github.com/victorbarbieri91/zyra-billing/internal/application/dto"
)

// AuthHandler trata registro e autenticação.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler constrói o handler.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// RegisterOffice cria o escritório e o primeiro sócio.
// POST /api/auth/register-office
func (h *AuthHandler) RegisterOffice(c *fiber.Ctx) error {
	var in dto.RegisterOfficeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.uc.RegisterOffice(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login autentica por e-mail e senha.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// RegisterUser cria um membro no escritório do token (restrito a sócios).
// POST /api/users
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	officeID := GetOfficeID(c)
	if officeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.uc.RegisterUser(c.Context(), officeID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
