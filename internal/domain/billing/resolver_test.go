package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victorbarbieri91/zyra-billing/internal/domain"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/billing"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func contract(model string, params entity.RuleParams) entity.BillingContract {
	return entity.BillingContract{ID: "ctr-1", OfficeID: "office-1", ClientID: "cli-1", Model: model, Params: params, Version: 1}
}

var tarifasPadrao = billing.RoleRateTable{
	entity.RoleAdvogado:   dec("400"),
	entity.RoleEstagiario: dec("120"),
}

func TestResolve_PorHora(t *testing.T) {
	c := contract(entity.ModelPorHora, entity.RuleParams{HourlyRate: decPtr("350")})
	res, err := billing.Resolve(c, billing.BillableInput{Kind: billing.KindHoras, Hours: dec("3.5")}, nil)
	require.NoError(t, err)

	assert.True(t, dec("1225").Equal(res.Amount), "3.5h * 350 = 1225, veio %s", res.Amount)
	assert.True(t, res.BillableDefault, "horas sob contrato por_hora nascem faturáveis")
}

func TestResolve_PorHoraSemTarifa(t *testing.T) {
	c := contract(entity.ModelPorHora, entity.RuleParams{})
	_, err := billing.Resolve(c, billing.BillableInput{Kind: billing.KindHoras, Hours: dec("1")}, nil)
	assert.ErrorIs(t, err, domain.ErrMissingRateConfig)
}

func TestResolve_FixoHorasInformativas(t *testing.T) {
	c := contract(entity.ModelFixo, entity.RuleParams{FixedAmount: decPtr("5000")})

	res, err := billing.Resolve(c, billing.BillableInput{Kind: billing.KindHoras, Hours: dec("42.5")}, nil)
	require.NoError(t, err)
	assert.True(t, res.Amount.IsZero())
	assert.False(t, res.BillableDefault, "horas sob contrato fixo são informativas")

	marco, err := billing.Resolve(c, billing.BillableInput{Kind: billing.KindMarcoFixo}, nil)
	require.NoError(t, err)
	assert.True(t, dec("5000").Equal(marco.Amount), "honorário fixo entra uma vez por ciclo")
	assert.True(t, marco.BillableDefault)
}

func TestResolve_FixoSemValor(t *testing.T) {
	c := contract(entity.ModelFixo, entity.RuleParams{})
	_, err := billing.Resolve(c, billing.BillableInput{Kind: billing.KindMarcoFixo}, nil)
	assert.ErrorIs(t, err, domain.ErrMissingRateConfig)
}

func TestResolve_PorCargoOverrideNegociado(t *testing.T) {
	c := contract(entity.ModelPorCargo, entity.RuleParams{
		RoleRates: map[string]decimal.Decimal{entity.RoleAdvogado: dec("500")},
	})
	res, err := billing.Resolve(c, billing.BillableInput{
		Kind: billing.KindHoras, Hours: dec("2"), RoleID: entity.RoleAdvogado,
	}, tarifasPadrao)
	require.NoError(t, err)

	assert.True(t, dec("1000").Equal(res.Amount), "tarifa negociada (500) prevalece sobre a padrão (400)")
	assert.True(t, res.BillableDefault)
}

func TestResolve_PorCargoTarifaPadrao(t *testing.T) {
	c := contract(entity.ModelPorCargo, entity.RuleParams{})
	res, err := billing.Resolve(c, billing.BillableInput{
		Kind: billing.KindHoras, Hours: dec("3"), RoleID: entity.RoleEstagiario,
	}, tarifasPadrao)
	require.NoError(t, err)

	assert.True(t, dec("360").Equal(res.Amount), "sem override usa a tarifa padrão do cargo")
}

func TestResolve_PorCargoSemTarifaConhecida(t *testing.T) {
	c := contract(entity.ModelPorCargo, entity.RuleParams{})
	_, err := billing.Resolve(c, billing.BillableInput{
		Kind: billing.KindHoras, Hours: dec("1"), RoleID: "paralegal",
	}, tarifasPadrao)
	assert.ErrorIs(t, err, domain.ErrMissingRateConfig)
}

func TestResolve_PorAtoExigeConfirmacao(t *testing.T) {
	c := contract(entity.ModelPorAto, entity.RuleParams{
		ActValues: map[string]decimal.Decimal{"audiencia": dec("800")},
	})
	res, err := billing.Resolve(c, billing.BillableInput{Kind: billing.KindAto, ActCode: "audiencia"}, nil)
	require.NoError(t, err)

	assert.True(t, dec("800").Equal(res.Amount), "valor sugerido da tabela de atos")
	assert.False(t, res.BillableDefault, "ato só vira cobrança após confirmação do alerta")
}

func TestResolve_PorAtoCodigoSemValor(t *testing.T) {
	c := contract(entity.ModelPorAto, entity.RuleParams{ActValues: map[string]decimal.Decimal{}})
	_, err := billing.Resolve(c, billing.BillableInput{Kind: billing.KindAto, ActCode: "sustentacao_oral"}, nil)
	assert.ErrorIs(t, err, domain.ErrMissingRateConfig)
}

func TestResolve_MensalPorPasta(t *testing.T) {
	c := contract(entity.ModelMensalPorPasta, entity.RuleParams{PerMatterAmount: decPtr("1500")})

	res, err := billing.Resolve(c, billing.BillableInput{Kind: billing.KindMensalidade}, nil)
	require.NoError(t, err)
	assert.True(t, dec("1500").Equal(res.Amount))

	horas, err := billing.Resolve(c, billing.BillableInput{Kind: billing.KindHoras, Hours: dec("10")}, nil)
	require.NoError(t, err)
	assert.False(t, horas.BillableDefault, "horas sob mensalidade são informativas")
}

func TestResolve_Exito(t *testing.T) {
	c := contract(entity.ModelExito, entity.RuleParams{SuccessFeePercent: decPtr("20")})

	res, err := billing.Resolve(c, billing.BillableInput{
		Kind: billing.KindExito, SettlementValue: dec("100000"),
	}, nil)
	require.NoError(t, err)
	assert.True(t, dec("20000").Equal(res.Amount), "20%% de 100.000")

	// Êxito só é cobrado em evento explícito; horas não geram valor.
	horas, err := billing.Resolve(c, billing.BillableInput{Kind: billing.KindHoras, Hours: dec("5")}, nil)
	require.NoError(t, err)
	assert.True(t, horas.Amount.IsZero())
	assert.False(t, horas.BillableDefault)
}

func TestResolve_HibridoPrimeiraRegraQueCasa(t *testing.T) {
	c := entity.BillingContract{
		ID: "ctr-h", Model: entity.ModelHibrido,
		SubRules: []entity.SubRule{
			{Priority: 2, Model: entity.ModelPorHora, Params: entity.RuleParams{HourlyRate: decPtr("300")}},
			{Priority: 1, Model: entity.ModelFixo, Params: entity.RuleParams{FixedAmount: decPtr("2000")}},
			{Priority: 3, Model: entity.ModelPorCargo, Params: entity.RuleParams{}},
		},
	}

	// Horas: a sub-regra de menor prioridade que casa é por_hora (fixo não valora horas).
	res, err := billing.Resolve(c, billing.BillableInput{Kind: billing.KindHoras, Hours: dec("2")}, tarifasPadrao)
	require.NoError(t, err)
	assert.True(t, dec("600").Equal(res.Amount), "por_hora (prioridade 2) vence por_cargo (prioridade 3)")

	// Marco fixo casa com a sub-regra fixo.
	marco, err := billing.Resolve(c, billing.BillableInput{Kind: billing.KindMarcoFixo}, nil)
	require.NoError(t, err)
	assert.True(t, dec("2000").Equal(marco.Amount))
}

func TestResolve_HibridoSemRegraCasando(t *testing.T) {
	c := entity.BillingContract{
		ID: "ctr-h", Model: entity.ModelHibrido,
		SubRules: []entity.SubRule{
			{Priority: 1, Model: entity.ModelPorHora, Params: entity.RuleParams{HourlyRate: decPtr("300")}},
		},
	}
	res, err := billing.Resolve(c, billing.BillableInput{Kind: billing.KindExito, SettlementValue: dec("50000")}, nil)
	require.NoError(t, err)

	assert.True(t, res.Amount.IsZero(), "nenhuma sub-regra casa: valor zero")
	assert.False(t, res.BillableDefault)
}

func TestResolve_ModeloDesconhecido(t *testing.T) {
	c := contract("permuta", entity.RuleParams{})
	_, err := billing.Resolve(c, billing.BillableInput{Kind: billing.KindHoras, Hours: dec("1")}, nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedBillingModel)
}
