package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/victorbarbieri91/zyra-billing/internal/application/billing"
	"github.com/victorbarbieri91/zyra-billing/internal/application/dto"
)

// TaxHandler trata configuração tributária e simulação de carga (protegido).
type TaxHandler struct {
	uc *billing.TaxUseCase
}

// NewTaxHandler constrói o handler.
func NewTaxHandler(uc *billing.TaxUseCase) *TaxHandler {
	return &TaxHandler{uc: uc}
}

// GetConfig devolve a configuração tributária vigente do escritório.
// GET /api/tax/config
func (h *TaxHandler) GetConfig(c *fiber.Ctx) error {
	officeID := GetOfficeID(c)
	if officeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.GetConfig(c.Context(), officeID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// UpsertConfig grava a configuração tributária (restrito a sócios).
// PUT /api/tax/config
func (h *TaxHandler) UpsertConfig(c *fiber.Ctx) error {
	officeID := GetOfficeID(c)
	if officeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TaxConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.uc.UpsertConfig(c.Context(), officeID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// Preview simula a carga tributária de um faturamento bruto.
// POST /api/tax/preview
func (h *TaxHandler) Preview(c *fiber.Ctx) error {
	officeID := GetOfficeID(c)
	if officeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TaxPreviewRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.uc.Preview(c.Context(), officeID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}
