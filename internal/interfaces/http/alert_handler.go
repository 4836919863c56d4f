package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/victorbarbieri91/zyra-billing/internal/application/billing"
	"github.com/victorbarbieri91/zyra-billing/internal/application/dto"
)

// AlertHandler trata alertas de cobrança por ato processual (protegido).
type AlertHandler struct {
	uc *billing.AlertUseCase
}

// NewAlertHandler constrói o handler.
func NewAlertHandler(uc *billing.AlertUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// RegisterAct registra um ato processual e gera o alerta de cobrança.
// POST /api/alerts/acts
func (h *AlertHandler) RegisterAct(c *fiber.Ctx) error {
	officeID, userID := GetOfficeID(c), GetUserID(c)
	if officeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterActRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.uc.RegisterAct(c.Context(), officeID, userID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Confirm confirma o alerta para cobrança.
// POST /api/alerts/:id/confirm
func (h *AlertHandler) Confirm(c *fiber.Ctx) error {
	officeID, userID := GetOfficeID(c), GetUserID(c)
	if officeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.Confirm(c.Context(), officeID, userID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// Dismiss descarta o alerta sem cobrança.
// POST /api/alerts/:id/dismiss
func (h *AlertHandler) Dismiss(c *fiber.Ctx) error {
	officeID, userID := GetOfficeID(c), GetUserID(c)
	if officeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.Dismiss(c.Context(), officeID, userID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// List lista alertas do escritório, com filtro opcional de status.
// GET /api/alerts
func (h *AlertHandler) List(c *fiber.Ctx) error {
	officeID := GetOfficeID(c)
	if officeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.List(c.Context(), officeID, c.Query("status"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}
