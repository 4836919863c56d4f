package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/victorbarbieri91/zyra-billing/internal/application/dto"
	"github.com/victorbarbieri91/zyra-billing/internal/domain"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
)

// ContractUseCase cadastro e consulta de contratos de honorários.
type ContractUseCase struct {
	contracts repository.ContractRepository
	clients   repository.ClientRepository
}

// NewContractUseCase constrói o caso de uso.
func NewContractUseCase(contracts repository.ContractRepository, clients repository.ClientRepository) *ContractUseCase {
	return &ContractUseCase{contracts: contracts, clients: clients}
}

// Create cadastra um contrato, rejeitando na entrada a configuração que
// falharia na apuração (modelo desconhecido, parâmetro obrigatório ausente).
func (u *ContractUseCase) Create(ctx context.Context, officeID string, in dto.CreateContractRequest) (*dto.ContractResponse, error) {
	if in.ClientID == "" {
		return nil, domain.ErrValidation
	}
	if in.BillingDayOfMonth < 0 || in.BillingDayOfMonth > 31 {
		return nil, domain.ErrValidation
	}
	client, err := u.clients.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if client.OfficeID != officeID {
		return nil, domain.ErrForbidden
	}

	contract := &entity.BillingContract{
		ID:                uuid.New().String(),
		OfficeID:          officeID,
		ClientID:          in.ClientID,
		Model:             in.Model,
		Params:            toEntityParams(in.Params),
		BillingDayOfMonth: in.BillingDayOfMonth,
		Version:           1,
		CreatedAt:         time.Now(),
	}
	for _, sr := range in.SubRules {
		contract.SubRules = append(contract.SubRules, entity.SubRule{
			Priority: sr.Priority,
			Model:    sr.Model,
			Params:   toEntityParams(sr.Params),
		})
	}
	if err := validateContract(contract); err != nil {
		return nil, err
	}
	if err := u.contracts.Create(contract); err != nil {
		return nil, err
	}
	return toContractResponse(contract), nil
}

// Get devolve um contrato do escritório.
func (u *ContractUseCase) Get(ctx context.Context, officeID, id string) (*dto.ContractResponse, error) {
	contract, err := u.contracts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, domain.ErrNotFound
	}
	if contract.OfficeID != officeID {
		return nil, domain.ErrForbidden
	}
	return toContractResponse(contract), nil
}

// ListByClient lista os contratos de um cliente.
func (u *ContractUseCase) ListByClient(ctx context.Context, officeID, clientID string) ([]dto.ContractResponse, error) {
	contracts, err := u.contracts.ListByClient(officeID, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContractResponse, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, *toContractResponse(c))
	}
	return out, nil
}

// validateContract verifica na criação o que a apuração exigiria depois.
func validateContract(c *entity.BillingContract) error {
	if err := validateModelParams(c.Model, c.Params); err != nil {
		return err
	}
	if c.Model == entity.ModelHibrido {
		if len(c.SubRules) == 0 {
			return domain.ErrValidation
		}
		for _, sr := range c.SubRules {
			if sr.Model == entity.ModelHibrido {
				return domain.ErrValidation // híbrido não aninha
			}
			if err := validateModelParams(sr.Model, sr.Params); err != nil {
				return err
			}
		}
	} else if len(c.SubRules) > 0 {
		return domain.ErrValidation
	}
	return nil
}

func validateModelParams(model string, p entity.RuleParams) error {
	switch model {
	case entity.ModelFixo:
		if p.FixedAmount == nil || p.FixedAmount.IsNegative() {
			return domain.ErrValidation
		}
	case entity.ModelPorHora:
		if p.HourlyRate == nil || p.HourlyRate.IsNegative() {
			return domain.ErrValidation
		}
	case entity.ModelPorCargo:
		// Tarifas do contrato são opcionais; a tabela padrão do escritório cobre o resto.
	case entity.ModelPorAto:
		if len(p.ActValues) == 0 {
			return domain.ErrValidation
		}
	case entity.ModelMensalPorPasta:
		if p.PerMatterAmount == nil || p.PerMatterAmount.IsNegative() {
			return domain.ErrValidation
		}
	case entity.ModelExito:
		if p.SuccessFeePercent == nil || p.SuccessFeePercent.IsNegative() {
			return domain.ErrValidation
		}
	case entity.ModelHibrido:
	default:
		return domain.ErrUnsupportedBillingModel
	}
	return nil
}

func toEntityParams(p dto.RuleParamsDTO) entity.RuleParams {
	return entity.RuleParams{
		FixedAmount:       p.FixedAmount,
		HourlyRate:        p.HourlyRate,
		SuccessFeePercent: p.SuccessFeePercent,
		PerMatterAmount:   p.PerMatterAmount,
		RoleRates:         p.RoleRates,
		ActValues:         p.ActValues,
	}
}

func toParamsDTO(p entity.RuleParams) dto.RuleParamsDTO {
	return dto.RuleParamsDTO{
		FixedAmount:       p.FixedAmount,
		HourlyRate:        p.HourlyRate,
		SuccessFeePercent: p.SuccessFeePercent,
		PerMatterAmount:   p.PerMatterAmount,
		RoleRates:         p.RoleRates,
		ActValues:         p.ActValues,
	}
}

func toContractResponse(c *entity.BillingContract) *dto.ContractResponse {
	out := &dto.ContractResponse{
		ID:                c.ID,
		ClientID:          c.ClientID,
		Model:             c.Model,
		Params:            toParamsDTO(c.Params),
		BillingDayOfMonth: c.BillingDayOfMonth,
		Version:           c.Version,
	}
	for _, sr := range c.SubRules {
		out.SubRules = append(out.SubRules, dto.SubRuleDTO{
			Priority: sr.Priority,
			Model:    sr.Model,
			Params:   toParamsDTO(sr.Params),
		})
	}
	return out
}
