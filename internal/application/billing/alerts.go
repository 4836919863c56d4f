package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/victorbarbieri91/zyra-billing/internal/application/dto"
	"github.com/victorbarbieri91/zyra-billing/internal/domain"
	domainbilling "github.com/victorbarbieri91/zyra-billing/internal/domain/billing"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
	"github.com/victorbarbieri91/zyra-billing/pkg/logger"
	"github.com/victorbarbieri91/zyra-billing/pkg/moeda"
)

// AlertUseCase alertas de cobrança por ato processual.
// Um ato detectado nunca vira cobrança sozinho: gera alerta pendente e
// aguarda confirmação ou descarte de um operador.
type AlertUseCase struct {
	alerts    repository.BillingAlertRepository
	clients   repository.ClientRepository
	contracts repository.ContractRepository
	log       *logger.Logger
}

// NewAlertUseCase constrói o caso de uso.
func NewAlertUseCase(
	alerts repository.BillingAlertRepository,
	clients repository.ClientRepository,
	contracts repository.ContractRepository,
	log *logger.Logger,
) *AlertUseCase {
	return &AlertUseCase{alerts: alerts, clients: clients, contracts: contracts, log: log.Modulo("alertas")}
}

// RegisterAct registra a ocorrência de um ato processual em uma pasta.
// O valor sugerido vem da tabela de atos do contrato; código desconhecido
// na tabela é erro de configuração, não alerta de valor zero.
func (u *AlertUseCase) RegisterAct(ctx context.Context, officeID, actorID string, in dto.RegisterActRequest) (*dto.BillingAlertResponse, error) {
	if in.MatterID == "" || strings.TrimSpace(in.ActCode) == "" {
		return nil, domain.ErrValidation
	}
	matter, err := u.clients.GetMatter(in.MatterID)
	if err != nil {
		return nil, err
	}
	if matter == nil {
		return nil, domain.ErrNotFound
	}
	if matter.OfficeID != officeID {
		return nil, domain.ErrForbidden
	}
	if matter.ContractID == "" {
		return nil, domain.ErrInvalidConfig
	}
	contract, err := u.contracts.GetByID(matter.ContractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, domain.ErrInvalidConfig
	}

	res, err := domainbilling.Resolve(*contract, domainbilling.BillableInput{
		Kind:    domainbilling.KindAto,
		ActCode: in.ActCode,
	}, nil)
	if err != nil {
		return nil, err
	}

	alert := &entity.BillingAlert{
		ID:              uuid.New().String(),
		OfficeID:        officeID,
		ContractID:      contract.ID,
		MatterID:        matter.ID,
		ActCode:         in.ActCode,
		Description:     strings.TrimSpace(in.Description),
		SuggestedAmount: res.Amount,
		Status:          entity.AlertPendente,
		CreatedBy:       actorID,
		CreatedAt:       time.Now(),
	}
	if err := u.alerts.Create(alert); err != nil {
		return nil, err
	}

	u.log.Info().
		Str("alert_id", alert.ID).
		Str("ato", alert.ActCode).
		Str("valor_sugerido", alert.SuggestedAmount.StringFixed(2)).
		Msg("alerta de cobrança registrado")

	return toAlertResponse(alert), nil
}

// Confirm confirma um alerta pendente. Confirmar de novo é no-op;
// confirmar um alerta descartado é conflito.
func (u *AlertUseCase) Confirm(ctx context.Context, officeID, actorID, id string) (*dto.BillingAlertResponse, error) {
	return u.resolveAlert(officeID, actorID, id, entity.AlertConfirmado)
}

// Dismiss descarta um alerta pendente. Simétrico a Confirm.
func (u *AlertUseCase) Dismiss(ctx context.Context, officeID, actorID, id string) (*dto.BillingAlertResponse, error) {
	return u.resolveAlert(officeID, actorID, id, entity.AlertDescartado)
}

// List lista alertas do escritório, opcionalmente por status.
func (u *AlertUseCase) List(ctx context.Context, officeID, status string) ([]dto.BillingAlertResponse, error) {
	if status != "" && status != entity.AlertPendente && status != entity.AlertConfirmado && status != entity.AlertDescartado {
		return nil, domain.ErrValidation
	}
	alerts, err := u.alerts.ListByOffice(officeID, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BillingAlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, *toAlertResponse(a))
	}
	return out, nil
}

func (u *AlertUseCase) resolveAlert(officeID, actorID, id, target string) (*dto.BillingAlertResponse, error) {
	alert, err := u.alerts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	if alert.OfficeID != officeID {
		return nil, domain.ErrForbidden
	}
	switch alert.Status {
	case target:
		return toAlertResponse(alert), nil // repetição idempotente
	case entity.AlertPendente:
	default:
		return nil, domain.ErrConflict
	}

	now := time.Now()
	alert.Status = target
	alert.ResolvedBy = actorID
	alert.ResolvedAt = &now
	if err := u.alerts.Update(alert); err != nil {
		return nil, err
	}
	return toAlertResponse(alert), nil
}

func toAlertResponse(a *entity.BillingAlert) *dto.BillingAlertResponse {
	return &dto.BillingAlertResponse{
		ID:              a.ID,
		ContractID:      a.ContractID,
		MatterID:        a.MatterID,
		ActCode:         a.ActCode,
		Description:     a.Description,
		SuggestedAmount: a.SuggestedAmount,
		SuggestedBRL:    moeda.FormatBRL(a.SuggestedAmount),
		Status:          a.Status,
	}
}
