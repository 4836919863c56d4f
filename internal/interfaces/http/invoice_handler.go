package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/victorbarbieri91/zyra-billing/internal/application/billing"
	"github.com/victorbarbieri91/zyra-billing/internal/application/dto"
)

// InvoiceHandler trata consolidação, consulta, anexo e exportação de RPS (protegido).
type InvoiceHandler struct {
	consolidator *billing.Consolidator
	rps          *billing.RPSUseCase
}

// NewInvoiceHandler constrói o handler.
func NewInvoiceHandler(consolidator *billing.Consolidator, rps *billing.RPSUseCase) *InvoiceHandler {
	return &InvoiceHandler{consolidator: consolidator, rps: rps}
}

// Build consolida uma fatura para o cliente no período informado.
// POST /api/invoices
func (h *InvoiceHandler) Build(c *fiber.Ctx) error {
	officeID, userID := GetOfficeID(c), GetUserID(c)
	if officeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.BuildInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.consolidator.BuildInvoice(c.Context(), officeID, userID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Get devolve uma fatura com linhas e anotação tributária.
// GET /api/invoices/:id
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	officeID := GetOfficeID(c)
	if officeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.consolidator.GetInvoice(c.Context(), officeID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// Annex devolve o anexo detalhado de horas da fatura.
// GET /api/invoices/:id/annex
func (h *InvoiceHandler) Annex(c *fiber.Ctx) error {
	officeID := GetOfficeID(c)
	if officeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.consolidator.Annex(c.Context(), officeID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// ExportRPS gera o XML do RPS (padrão ABRASF) da fatura.
// GET /api/invoices/:id/rps
func (h *InvoiceHandler) ExportRPS(c *fiber.Ctx) error {
	officeID := GetOfficeID(c)
	if officeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	xml, err := h.rps.Export(c.Context(), officeID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.Send(xml)
}
