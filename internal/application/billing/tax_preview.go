package billing

import (
	"context"
	"time"

	"github.com/victorbarbieri91/zyra-billing/internal/application/dto"
	"github.com/victorbarbieri91/zyra-billing/internal/domain"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/tax"
	"github.com/victorbarbieri91/zyra-billing/pkg/moeda"
)

// TaxUseCase leitura/edição da configuração tributária e simulação de apuração.
// A configuração é lida fresca a cada chamada; nenhum resultado é cacheado.
type TaxUseCase struct {
	taxCfg repository.TaxConfigRepository
}

// NewTaxUseCase constrói o caso de uso.
func NewTaxUseCase(taxCfg repository.TaxConfigRepository) *TaxUseCase {
	return &TaxUseCase{taxCfg: taxCfg}
}

// Preview simula a apuração sobre uma receita bruta com a configuração vigente.
func (u *TaxUseCase) Preview(ctx context.Context, officeID string, in dto.TaxPreviewRequest) (*dto.TaxPreviewResponse, error) {
	if in.GrossRevenue.IsNegative() {
		return nil, domain.ErrValidation
	}
	cfg, err := u.taxCfg.GetByOffice(officeID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	res, err := tax.Compute(*cfg, in.GrossRevenue)
	if err != nil {
		return nil, err
	}
	out := &dto.TaxPreviewResponse{
		Regime:              cfg.Regime,
		EffectiveRate:       res.EffectiveRate,
		BracketIndex:        res.BracketIndex,
		OutOfRange:          res.OutOfRange,
		PayrollLevySeparate: res.PayrollLevySeparate,
		Withholdings:        make([]dto.WithholdingResponse, 0, len(res.Withholdings)),
	}
	for _, w := range res.Withholdings {
		out.Withholdings = append(out.Withholdings, dto.WithholdingResponse{
			Code:             w.Code,
			Amount:           w.Amount,
			Formatted:        moeda.FormatBRL(w.Amount),
			WithheldAtSource: w.WithheldAtSource,
		})
	}
	return out, nil
}

// GetConfig devolve a configuração tributária vigente do escritório.
func (u *TaxUseCase) GetConfig(ctx context.Context, officeID string) (*dto.TaxConfigResponse, error) {
	cfg, err := u.taxCfg.GetByOffice(officeID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	return toTaxConfigResponse(cfg), nil
}

// UpsertConfig grava a configuração tributária via formulário administrativo.
// Exige o sub-objeto correspondente ao regime; o sub-objeto do outro regime
// é ignorado se presente.
func (u *TaxUseCase) UpsertConfig(ctx context.Context, officeID string, in dto.TaxConfigRequest) (*dto.TaxConfigResponse, error) {
	cfg := &entity.TaxRegimeConfig{
		OfficeID:  officeID,
		Regime:    in.Regime,
		UpdatedAt: time.Now(),
	}
	switch in.Regime {
	case entity.RegimeLucroPresumido:
		if len(in.Presumido) == 0 {
			return nil, domain.ErrValidation
		}
		cfg.Presumido = make(map[string]entity.TributoConfig, len(in.Presumido))
		for code, tc := range in.Presumido {
			if !validTributo(code) || tc.Rate.IsNegative() {
				return nil, domain.ErrValidation
			}
			cfg.Presumido[code] = entity.TributoConfig{
				Active:           tc.Active,
				Rate:             tc.Rate,
				WithheldAtSource: tc.WithheldAtSource,
			}
		}
	case entity.RegimeSimplesNacional:
		if in.Simples == nil || in.Simples.RBT12.IsNegative() {
			return nil, domain.ErrValidation
		}
		if _, err := tax.TableForAnexo(in.Simples.Anexo); err != nil {
			return nil, domain.ErrValidation
		}
		cfg.Simples = &entity.SimplesConfig{
			Anexo:          in.Simples.Anexo,
			RBT12:          in.Simples.RBT12,
			FolhaForaDoDAS: in.Simples.FolhaForaDoDAS,
		}
	case entity.RegimeLucroReal, entity.RegimeMEI:
		// Sem parametrização própria; a apuração devolve resultado vazio.
	default:
		return nil, domain.ErrValidation
	}

	if err := u.taxCfg.Upsert(cfg); err != nil {
		return nil, err
	}
	return toTaxConfigResponse(cfg), nil
}

func validTributo(code string) bool {
	for _, c := range entity.TributoCodes {
		if c == code {
			return true
		}
	}
	return false
}

func toTaxConfigResponse(cfg *entity.TaxRegimeConfig) *dto.TaxConfigResponse {
	out := &dto.TaxConfigResponse{
		OfficeID: cfg.OfficeID,
		Regime:   cfg.Regime,
	}
	if len(cfg.Presumido) > 0 {
		out.Presumido = make(map[string]dto.TributoConfigDTO, len(cfg.Presumido))
		for code, tc := range cfg.Presumido {
			out.Presumido[code] = dto.TributoConfigDTO{
				Active:           tc.Active,
				Rate:             tc.Rate,
				WithheldAtSource: tc.WithheldAtSource,
			}
		}
	}
	if cfg.Simples != nil {
		out.Simples = &dto.SimplesConfigDTO{
			Anexo:          cfg.Simples.Anexo,
			RBT12:          cfg.Simples.RBT12,
			FolhaForaDoDAS: cfg.Simples.FolhaForaDoDAS,
		}
	}
	return out
}
