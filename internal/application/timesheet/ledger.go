// Package timesheet implementa o fluxo de aprovação dos lançamentos de horas.
// Todas as invariantes (horas > 0, justificativa mínima, lançamento faturado
// imutável, aprovação idempotente) são verificadas aqui, na fronteira
// autoritativa; checagens de cliente são apenas conveniência de UX.
package timesheet

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/victorbarbieri91/zyra-billing/internal/application/dto"
	"github.com/victorbarbieri91/zyra-billing/internal/domain"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/billing"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
	"github.com/victorbarbieri91/zyra-billing/pkg/logger"
)

const minActivityLen = 3
const minReasonLen = 10

// BulkFailure falha de um id em operação em lote.
type BulkFailure struct {
	ID  string
	Err error
}

// BulkResult resultado por id de uma operação em lote. Melhor esforço: ids já
// aplicados permanecem aplicados mesmo quando outros falham; repetir a chamada
// com os mesmos ids é seguro.
type BulkResult struct {
	Succeeded []string
	Failed    []BulkFailure
}

// Ledger caso de uso do ciclo de vida dos lançamentos de horas.
type Ledger struct {
	entries   repository.TimesheetRepository
	contracts repository.ContractRepository
	clients   repository.ClientRepository
	rates     repository.RoleRateRepository
	offices   repository.OfficeRepository
	users     repository.UserRepository
	log       *logger.Logger
}

// NewLedger constrói o caso de uso.
func NewLedger(
	entries repository.TimesheetRepository,
	contracts repository.ContractRepository,
	clients repository.ClientRepository,
	rates repository.RoleRateRepository,
	offices repository.OfficeRepository,
	users repository.UserRepository,
	log *logger.Logger,
) *Ledger {
	return &Ledger{
		entries:   entries,
		contracts: contracts,
		clients:   clients,
		rates:     rates,
		offices:   offices,
		users:     users,
		log:       log.Modulo("timesheet"),
	}
}

// Create registra um lançamento (ao vivo ou retroativo) em estado pendente.
// O default de Billable vem do contrato vinculado, salvo override manual do caller.
func (l *Ledger) Create(ctx context.Context, officeID, actorID string, in dto.CreateTimesheetRequest) (*dto.TimesheetEntryResponse, error) {
	if err := validateHoursActivity(in.Hours, in.Activity); err != nil {
		return nil, err
	}
	if in.MatterID != "" && in.ConsultationID != "" {
		return nil, domain.ErrValidation // no máximo um vínculo
	}

	author, err := l.users.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if author == nil || author.OfficeID != officeID {
		return nil, domain.ErrForbidden
	}

	billableDefault, err := l.resolveBillableDefault(officeID, in.MatterID, in.ConsultationID, author.Role, in.Hours)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	e := &entity.TimesheetEntry{
		ID:             uuid.New().String(),
		OfficeID:       officeID,
		AuthorUserID:   actorID,
		RoleID:         author.Role,
		MatterID:       in.MatterID,
		ConsultationID: in.ConsultationID,
		WorkDate:       in.WorkDate,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Hours:          in.Hours,
		Activity:       strings.TrimSpace(in.Activity),
		Billable:       billableDefault,
		Status:         entity.StatusPendente,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.Billable != nil {
		e.Billable = *in.Billable
		e.BillableManualOverride = true
	}

	if err := l.entries.Create(e); err != nil {
		return nil, err
	}
	l.log.Info().Str("entry_id", e.ID).Str("autor", actorID).Msg("lançamento criado")
	return toEntryResponse(e), nil
}

// Edit edição inline, permitida apenas enquanto pendente. Marca Edited e
// revalida as mesmas restrições da criação.
func (l *Ledger) Edit(ctx context.Context, officeID, actorID, id string, in dto.EditTimesheetRequest) (*dto.TimesheetEntryResponse, error) {
	e, err := l.getOwned(officeID, id)
	if err != nil {
		return nil, err
	}
	if e.Status != entity.StatusPendente {
		return nil, domain.ErrConflict
	}
	if err := validateHoursActivity(in.Hours, in.Activity); err != nil {
		return nil, err
	}

	e.Hours = in.Hours
	e.Activity = strings.TrimSpace(in.Activity)
	if in.Billable != nil {
		e.Billable = *in.Billable
		e.BillableManualOverride = true
	}
	e.Edited = true
	e.UpdatedAt = time.Now()

	if err := l.entries.Update(e); err != nil {
		return nil, err
	}
	return toEntryResponse(e), nil
}

// Approve transição pendente -> aprovado em lote. Reaprovar um id já aprovado
// é no-op, não erro. Com a política de aprovador distinto ativa, o autor não
// pode aprovar o próprio lançamento.
func (l *Ledger) Approve(ctx context.Context, officeID, approverID string, ids []string) BulkResult {
	office, err := l.offices.GetByID(officeID)
	if err != nil || office == nil {
		return failAll(ids, domain.ErrNotFound)
	}

	var res BulkResult
	now := time.Now()
	for _, id := range ids {
		e, err := l.getOwned(officeID, id)
		if err != nil {
			res.Failed = append(res.Failed, BulkFailure{ID: id, Err: err})
			continue
		}
		switch e.Status {
		case entity.StatusAprovado:
			// Idempotente: aprovação concorrente ou retry observa o estado final.
			res.Succeeded = append(res.Succeeded, id)
			continue
		case entity.StatusReprovado:
			res.Failed = append(res.Failed, BulkFailure{ID: id, Err: domain.ErrConflict})
			continue
		}
		if office.RequireDistinctApprover && e.AuthorUserID == approverID {
			res.Failed = append(res.Failed, BulkFailure{ID: id, Err: domain.ErrForbidden})
			continue
		}

		e.Status = entity.StatusAprovado
		e.ReviewedBy = approverID
		at := now
		e.ReviewedAt = &at
		e.UpdatedAt = now
		if err := l.entries.Update(e); err != nil {
			res.Failed = append(res.Failed, BulkFailure{ID: id, Err: err})
			continue
		}
		res.Succeeded = append(res.Succeeded, id)
	}
	l.log.Info().Int("ok", len(res.Succeeded)).Int("falhas", len(res.Failed)).Msg("aprovação em lote")
	return res
}

// Reject transição pendente -> reprovado em lote, com justificativa obrigatória.
// Justificativa curta invalida a operação inteira antes de tocar qualquer id.
func (l *Ledger) Reject(ctx context.Context, officeID, approverID string, ids []string, reason string) (BulkResult, error) {
	if len(strings.TrimSpace(reason)) < minReasonLen {
		return BulkResult{}, domain.ErrValidation
	}

	var res BulkResult
	now := time.Now()
	for _, id := range ids {
		e, err := l.getOwned(officeID, id)
		if err != nil {
			res.Failed = append(res.Failed, BulkFailure{ID: id, Err: err})
			continue
		}
		switch e.Status {
		case entity.StatusReprovado:
			// retry de reprovação já aplicada
			res.Succeeded = append(res.Succeeded, id)
			continue
		case entity.StatusAprovado:
			res.Failed = append(res.Failed, BulkFailure{ID: id, Err: domain.ErrConflict})
			continue
		}

		e.Status = entity.StatusReprovado
		e.RejectionReason = strings.TrimSpace(reason)
		e.ReviewedBy = approverID
		at := now
		e.ReviewedAt = &at
		e.UpdatedAt = now
		if err := l.entries.Update(e); err != nil {
			res.Failed = append(res.Failed, BulkFailure{ID: id, Err: err})
			continue
		}
		res.Succeeded = append(res.Succeeded, id)
	}
	return res, nil
}

// ReverseApproval transição aprovado -> pendente, permitida apenas enquanto o
// lançamento não foi consumido por uma fatura.
func (l *Ledger) ReverseApproval(ctx context.Context, officeID, actorID, id string) (*dto.TimesheetEntryResponse, error) {
	e, err := l.getOwned(officeID, id)
	if err != nil {
		return nil, err
	}
	if e.Billed {
		return nil, domain.ErrAlreadyBilled
	}
	switch e.Status {
	case entity.StatusPendente:
		return toEntryResponse(e), nil // retry de estorno já aplicado
	case entity.StatusReprovado:
		return nil, domain.ErrConflict
	}

	e.Status = entity.StatusPendente
	e.ReviewedBy = ""
	e.ReviewedAt = nil
	e.UpdatedAt = time.Now()
	if err := l.entries.Update(e); err != nil {
		return nil, err
	}
	l.log.Info().Str("entry_id", id).Str("ator", actorID).Msg("aprovação estornada")
	return toEntryResponse(e), nil
}

// List lista lançamentos do escritório com filtros.
func (l *Ledger) List(ctx context.Context, officeID string, f repository.TimesheetFilter) ([]*dto.TimesheetEntryResponse, error) {
	entries, err := l.entries.List(officeID, f)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TimesheetEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out, nil
}

// resolveBillableDefault consulta o contrato vinculado à pasta/consulta e
// resolve o default de faturabilidade das horas. Sem vínculo ou sem contrato,
// o default é não faturável.
func (l *Ledger) resolveBillableDefault(officeID, matterID, consultationID, roleID string, hours decimal.Decimal) (bool, error) {
	contractID := ""
	switch {
	case matterID != "":
		m, err := l.clients.GetMatter(matterID)
		if err != nil {
			return false, err
		}
		if m == nil || m.OfficeID != officeID {
			return false, domain.ErrNotFound
		}
		contractID = m.ContractID
	case consultationID != "":
		c, err := l.clients.GetConsultation(consultationID)
		if err != nil {
			return false, err
		}
		if c == nil || c.OfficeID != officeID {
			return false, domain.ErrNotFound
		}
		contractID = c.ContractID
	}
	if contractID == "" {
		return false, nil
	}

	contract, err := l.contracts.GetByID(contractID)
	if err != nil {
		return false, err
	}
	if contract == nil {
		return false, domain.ErrNotFound
	}
	rates, err := l.rates.TableByOffice(officeID)
	if err != nil {
		return false, err
	}
	res, err := billing.Resolve(*contract, billing.BillableInput{
		Kind:   billing.KindHoras,
		Hours:  hours,
		RoleID: roleID,
	}, rates)
	if err != nil {
		return false, err
	}
	return res.BillableDefault, nil
}

func (l *Ledger) getOwned(officeID, id string) (*entity.TimesheetEntry, error) {
	e, err := l.entries.GetByID(id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if e.OfficeID != officeID {
		return nil, domain.ErrForbidden
	}
	return e, nil
}

func validateHoursActivity(hours decimal.Decimal, activity string) error {
	if !hours.GreaterThan(decimal.Zero) {
		return domain.ErrValidation
	}
	if len(strings.TrimSpace(activity)) < minActivityLen {
		return domain.ErrValidation
	}
	return nil
}

func failAll(ids []string, err error) BulkResult {
	var res BulkResult
	for _, id := range ids {
		res.Failed = append(res.Failed, BulkFailure{ID: id, Err: err})
	}
	return res
}

func toEntryResponse(e *entity.TimesheetEntry) *dto.TimesheetEntryResponse {
	return &dto.TimesheetEntryResponse{
		ID:              e.ID,
		AuthorUserID:    e.AuthorUserID,
		MatterID:        e.MatterID,
		ConsultationID:  e.ConsultationID,
		WorkDate:        dto.FormatDate(e.WorkDate),
		Hours:           e.Hours,
		Activity:        e.Activity,
		Billable:        e.Billable,
		ManualOverride:  e.BillableManualOverride,
		Status:          e.Status,
		Billed:          e.Billed,
		Edited:          e.Edited,
		RejectionReason: e.RejectionReason,
		ReviewedBy:      e.ReviewedBy,
	}
}

// ToBulkResponse converte o resultado em DTO da API.
func ToBulkResponse(r BulkResult) dto.BulkResultResponse {
	out := dto.BulkResultResponse{Succeeded: r.Succeeded}
	for _, f := range r.Failed {
		out.Failed = append(out.Failed, dto.BulkFailure{ID: f.ID, Error: f.Err.Error()})
	}
	if out.Succeeded == nil {
		out.Succeeded = []string{}
	}
	return out
}
