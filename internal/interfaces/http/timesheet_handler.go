package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/victorbarbieri91/zyra-billing/internal/application/dto"
	"github.com/victorbarbieri91/zyra-billing/internal/application/timesheet"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
)

// TimesheetHandler trata o ciclo de vida dos lançamentos de horas (protegido).
type TimesheetHandler struct {
	ledger *timesheet.Ledger
}

// NewTimesheetHandler constrói o handler.
func NewTimesheetHandler(ledger *timesheet.Ledger) *TimesheetHandler {
	return &TimesheetHandler{ledger: ledger}
}

// Create registra um lançamento de horas.
// POST /api/timesheet
func (h *TimesheetHandler) Create(c *fiber.Ctx) error {
	officeID, userID := GetOfficeID(c), GetUserID(c)
	if officeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTimesheetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.ledger.Create(c.Context(), officeID, userID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Edit edição inline de um lançamento pendente.
// PUT /api/timesheet/:id
func (h *TimesheetHandler) Edit(c *fiber.Ctx) error {
	officeID, userID := GetOfficeID(c), GetUserID(c)
	if officeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.EditTimesheetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	resp, err := h.ledger.Edit(c.Context(), officeID, userID, c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// Approve aprovação em lote.
// POST /api/timesheet/approve
func (h *TimesheetHandler) Approve(c *fiber.Ctx) error {
	officeID, userID := GetOfficeID(c), GetUserID(c)
	if officeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ApproveRequest
	if err := c.BodyParser(&in); err != nil || len(in.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "lista de ids obrigatória"})
	}
	res := h.ledger.Approve(c.Context(), officeID, userID, in.IDs)
	return c.JSON(timesheet.ToBulkResponse(res))
}

// Reject reprovação em lote com justificativa.
// POST /api/timesheet/reject
func (h *TimesheetHandler) Reject(c *fiber.Ctx) error {
	officeID, userID := GetOfficeID(c), GetUserID(c)
	if officeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RejectRequest
	if err := c.BodyParser(&in); err != nil || len(in.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "lista de ids obrigatória"})
	}
	res, err := h.ledger.Reject(c.Context(), officeID, userID, in.IDs, in.Reason)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(timesheet.ToBulkResponse(res))
}

// ReverseApproval estorna a aprovação de um lançamento não faturado.
// POST /api/timesheet/:id/reverse-approval
func (h *TimesheetHandler) ReverseApproval(c *fiber.Ctx) error {
	officeID, userID := GetOfficeID(c), GetUserID(c)
	if officeID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.ledger.ReverseApproval(c.Context(), officeID, userID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// List lista lançamentos com filtros (status, autor, pasta, período).
// GET /api/timesheet
func (h *TimesheetHandler) List(c *fiber.Ctx) error {
	officeID := GetOfficeID(c)
	if officeID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	f := repository.TimesheetFilter{
		Status:       c.Query("status"),
		AuthorUserID: c.Query("author"),
		MatterID:     c.Query("matter"),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			f.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			f.To = &t
		}
	}
	resp, err := h.ledger.List(c.Context(), officeID, f)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}
