package billing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorbarbieri91/zyra-billing/internal/application/dto"
	"github.com/victorbarbieri91/zyra-billing/internal/domain"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
)

func TestPreview_LucroPresumido(t *testing.T) {
	taxCfg := &memTaxCfg{cfg: &entity.TaxRegimeConfig{
		OfficeID: officeID,
		Regime:   entity.RegimeLucroPresumido,
		Presumido: map[string]entity.TributoConfig{
			entity.TributoIRRF:   {Active: true, Rate: decimal.NewFromFloat(1.5), WithheldAtSource: true},
			entity.TributoPIS:    {Active: true, Rate: decimal.NewFromFloat(0.65), WithheldAtSource: true},
			entity.TributoCOFINS: {Active: true, Rate: decimal.NewFromInt(3), WithheldAtSource: true},
			entity.TributoCSLL:   {Active: true, Rate: decimal.NewFromInt(1), WithheldAtSource: true},
			entity.TributoISS:    {Active: false, Rate: decimal.NewFromInt(5)},
		},
	}}
	uc := NewTaxUseCase(taxCfg)

	resp, err := uc.Preview(context.Background(), officeID, dto.TaxPreviewRequest{
		GrossRevenue: decimal.NewFromInt(10000),
	})
	require.NoError(t, err)

	assert.Equal(t, "6.15", resp.EffectiveRate.String())
	require.Len(t, resp.Withholdings, 4, "tributo inativo não aparece na simulação")
	assert.Equal(t, entity.TributoIRRF, resp.Withholdings[0].Code)
	assert.Equal(t, "150", resp.Withholdings[0].Amount.String())
	assert.Equal(t, "R$ 150,00", resp.Withholdings[0].Formatted)
}

func TestPreview_SimplesAnexoIV(t *testing.T) {
	taxCfg := &memTaxCfg{cfg: &entity.TaxRegimeConfig{
		OfficeID: officeID,
		Regime:   entity.RegimeSimplesNacional,
		Simples: &entity.SimplesConfig{
			Anexo:          entity.AnexoIV,
			RBT12:          decimal.NewFromInt(360000),
			FolhaForaDoDAS: true,
		},
	}}
	uc := NewTaxUseCase(taxCfg)

	resp, err := uc.Preview(context.Background(), officeID, dto.TaxPreviewRequest{
		GrossRevenue: decimal.NewFromInt(10000),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.BracketIndex)
	assert.Equal(t, "6.75", resp.EffectiveRate.String())
	assert.True(t, resp.PayrollLevySeparate, "anexo IV com CPP fora do DAS")
	require.Len(t, resp.Withholdings, 1)
	assert.Equal(t, "675", resp.Withholdings[0].Amount.String())
}

func TestPreview_SemConfiguracao(t *testing.T) {
	uc := NewTaxUseCase(&memTaxCfg{})
	_, err := uc.Preview(context.Background(), officeID, dto.TaxPreviewRequest{GrossRevenue: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreview_ReceitaNegativa(t *testing.T) {
	uc := NewTaxUseCase(&memTaxCfg{})
	_, err := uc.Preview(context.Background(), officeID, dto.TaxPreviewRequest{GrossRevenue: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpsertConfig_Validacoes(t *testing.T) {
	uc := NewTaxUseCase(&memTaxCfg{})
	ctx := context.Background()

	t.Run("regime desconhecido", func(t *testing.T) {
		_, err := uc.UpsertConfig(ctx, officeID, dto.TaxConfigRequest{Regime: "arbitrado"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("presumido sem tributos", func(t *testing.T) {
		_, err := uc.UpsertConfig(ctx, officeID, dto.TaxConfigRequest{Regime: entity.RegimeLucroPresumido})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("simples com anexo inválido", func(t *testing.T) {
		_, err := uc.UpsertConfig(ctx, officeID, dto.TaxConfigRequest{
			Regime:  entity.RegimeSimplesNacional,
			Simples: &dto.SimplesConfigDTO{Anexo: "VII", RBT12: decimal.NewFromInt(100000)},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("código de tributo desconhecido", func(t *testing.T) {
		_, err := uc.UpsertConfig(ctx, officeID, dto.TaxConfigRequest{
			Regime: entity.RegimeLucroPresumido,
			Presumido: map[string]dto.TributoConfigDTO{
				"ipva": {Active: true, Rate: decimal.NewFromInt(1)},
			},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestUpsertConfig_SimplesValido(t *testing.T) {
	store := &memTaxCfg{}
	uc := NewTaxUseCase(store)

	resp, err := uc.UpsertConfig(context.Background(), officeID, dto.TaxConfigRequest{
		Regime:  entity.RegimeSimplesNacional,
		Simples: &dto.SimplesConfigDTO{Anexo: entity.AnexoIV, RBT12: decimal.NewFromInt(500000), FolhaForaDoDAS: true},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RegimeSimplesNacional, resp.Regime)
	require.NotNil(t, store.cfg)
	assert.Equal(t, entity.AnexoIV, store.cfg.Simples.Anexo)

	got, err := uc.GetConfig(context.Background(), officeID)
	require.NoError(t, err)
	assert.Equal(t, entity.AnexoIV, got.Simples.Anexo)
}
