package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/victorbarbieri91/zyra-billing/internal/application/billing"
	"github.com/victorbarbieri91/zyra-billing/internal/application/dto"
)

// ContractHandler trata contratos de honorários (protegido).
type ContractHandler struct {
	uc *billing.ContractUseCase
}

// NewContractHandler constrói o handler.
func NewContractHandler(uc *billing.ContractUseCase) *ContractHandler {
	return &ContractHandler{uc: uc}
}

// Create registra um contrato para um cliente do escritório.
// POST /api/contracts
func (h *ContractHandler) Create(c *fiber.Ctx) error {
	officeID := GetOfficeID(c)
	if officeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateContractRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.uc.Create(c.Context(), officeID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Get devolve um contrato por id.
// GET /api/contracts/:id
func (h *ContractHandler) Get(c *fiber.Ctx) error {
	officeID := GetOfficeID(c)
	if officeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.Get(c.Context(), officeID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// ListByClient lista os contratos de um cliente.
// GET /api/clients/:id/contracts
func (h *ContractHandler) ListByClient(c *fiber.Ctx) error {
	officeID := GetOfficeID(c)
	if officeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.ListByClient(c.Context(), officeID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}
