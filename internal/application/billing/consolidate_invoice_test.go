package billing

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorbarbieri91/zyra-billing/internal/application/dto"
	"github.com/victorbarbieri91/zyra-billing/internal/domain"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/entity"
	"github.com/victorbarbieri91/zyra-billing/internal/domain/repository"
	"github.com/victorbarbieri91/zyra-billing/pkg/logger"
)

// ---- fakes em memória das portas de repositório ----

type memEntries struct {
	items map[string]*entity.TimesheetEntry
	// clientOf mapeia pasta/consulta ao cliente, papel que na DB é do join
	clientOf map[string]string
}

func (m *memEntries) Create(e *entity.TimesheetEntry) error { m.items[e.ID] = e; return nil }
func (m *memEntries) GetByID(id string) (*entity.TimesheetEntry, error) {
	return m.items[id], nil
}
func (m *memEntries) Update(e *entity.TimesheetEntry) error { m.items[e.ID] = e; return nil }
func (m *memEntries) List(officeID string, f repository.TimesheetFilter) ([]*entity.TimesheetEntry, error) {
	return nil, nil
}

func (m *memEntries) SelectBillable(officeID, clientID string, from, to time.Time) ([]*entity.TimesheetEntry, error) {
	var out []*entity.TimesheetEntry
	for _, e := range m.items {
		if e.OfficeID != officeID || !e.Faturavel() {
			continue
		}
		ref := e.MatterID
		if ref == "" {
			ref = e.ConsultationID
		}
		if m.clientOf[ref] != clientID {
			continue
		}
		if e.WorkDate.Before(from) || e.WorkDate.After(to) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memEntries) MarkBilled(ids []string, invoiceID string) error {
	for _, id := range ids {
		if e, ok := m.items[id]; ok {
			e.Billed = true
			e.InvoiceID = invoiceID
		}
	}
	return nil
}

type memInvoices struct {
	invoices map[string]*entity.Invoice
	lines    map[string][]*entity.InvoiceLineItem
	entries  *memEntries
}

func (m *memInvoices) Create(inv *entity.Invoice) error { m.invoices[inv.ID] = inv; return nil }
func (m *memInvoices) CreateLine(line *entity.InvoiceLineItem) error {
	m.lines[line.InvoiceID] = append(m.lines[line.InvoiceID], line)
	return nil
}
func (m *memInvoices) GetByID(id string) (*entity.Invoice, error) { return m.invoices[id], nil }
func (m *memInvoices) GetLines(invoiceID string) ([]*entity.InvoiceLineItem, error) {
	return m.lines[invoiceID], nil
}

func (m *memInvoices) ListFeePeriods(contractID string) ([]repository.BillingPeriod, error) {
	var out []repository.BillingPeriod
	for invID, lines := range m.lines {
		for _, ln := range lines {
			if ln.ContractID == contractID {
				inv := m.invoices[invID]
				out = append(out, repository.BillingPeriod{From: inv.PeriodFrom, To: inv.PeriodTo})
				break
			}
		}
	}
	return out, nil
}

func (m *memInvoices) ListBilledEntries(invoiceID string) ([]*entity.TimesheetEntry, error) {
	var out []*entity.TimesheetEntry
	for _, e := range m.entries.items {
		if e.InvoiceID == invoiceID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].WorkDate.Equal(out[j].WorkDate) {
			return out[i].WorkDate.Before(out[j].WorkDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type fakeTxRunner struct {
	entries  *memEntries
	invoices *memInvoices
}

func (r *fakeTxRunner) RunBilling(ctx context.Context, fn func(repository.TimesheetRepository, repository.InvoiceRepository) error) error {
	return fn(r.entries, r.invoices)
}

type memContracts struct {
	items map[string]*entity.BillingContract
}

func (m *memContracts) Create(c *entity.BillingContract) error { m.items[c.ID] = c; return nil }
func (m *memContracts) GetByID(id string) (*entity.BillingContract, error) {
	return m.items[id], nil
}
func (m *memContracts) ListByClient(officeID, clientID string) ([]*entity.BillingContract, error) {
	var out []*entity.BillingContract
	for _, c := range m.items {
		if c.OfficeID == officeID && c.ClientID == clientID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memClients struct {
	clients       map[string]*entity.Client
	matters       map[string]*entity.Matter
	consultations map[string]*entity.Consultation
}

func (m *memClients) GetByID(id string) (*entity.Client, error)   { return m.clients[id], nil }
func (m *memClients) GetMatter(id string) (*entity.Matter, error) { return m.matters[id], nil }
func (m *memClients) GetConsultation(id string) (*entity.Consultation, error) {
	return m.consultations[id], nil
}
func (m *memClients) ListMattersByClient(officeID, clientID string) ([]*entity.Matter, error) {
	var out []*entity.Matter
	for _, mt := range m.matters {
		if mt.OfficeID == officeID && mt.ClientID == clientID {
			out = append(out, mt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memRates struct {
	table map[string]decimal.Decimal
}

func (m *memRates) TableByOffice(officeID string) (map[string]decimal.Decimal, error) {
	return m.table, nil
}
func (m *memRates) List(officeID string) ([]*entity.RoleRate, error) { return nil, nil }
func (m *memRates) Upsert(r *entity.RoleRate) error                  { return nil }

type memTaxCfg struct {
	cfg *entity.TaxRegimeConfig
}

func (m *memTaxCfg) GetByOffice(officeID string) (*entity.TaxRegimeConfig, error) {
	return m.cfg, nil
}
func (m *memTaxCfg) Upsert(cfg *entity.TaxRegimeConfig) error { m.cfg = cfg; return nil }

type memAlerts struct {
	items map[string]*entity.BillingAlert
}

func (m *memAlerts) Create(a *entity.BillingAlert) error { m.items[a.ID] = a; return nil }
func (m *memAlerts) GetByID(id string) (*entity.BillingAlert, error) {
	return m.items[id], nil
}
func (m *memAlerts) Update(a *entity.BillingAlert) error { m.items[a.ID] = a; return nil }
func (m *memAlerts) ListByOffice(officeID, status string) ([]*entity.BillingAlert, error) {
	var out []*entity.BillingAlert
	for _, a := range m.items {
		if a.OfficeID != officeID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// ---- fixture ----

const (
	officeID     = "office-1"
	clientID     = "client-1"
	advogadoID   = "user-adv"
	matterHoraID = "matter-hora"
	matterFixoID = "matter-fixo"
)

type fixture struct {
	consolidator *Consolidator
	entries      *memEntries
	invoices     *memInvoices
	contracts    *memContracts
	clients      *memClients
	taxCfg       *memTaxCfg
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	entries := &memEntries{
		items: map[string]*entity.TimesheetEntry{},
		clientOf: map[string]string{
			matterHoraID: clientID,
			matterFixoID: clientID,
		},
	}
	invoices := &memInvoices{
		invoices: map[string]*entity.Invoice{},
		lines:    map[string][]*entity.InvoiceLineItem{},
		entries:  entries,
	}
	contracts := &memContracts{items: map[string]*entity.BillingContract{}}
	clients := &memClients{
		clients: map[string]*entity.Client{
			clientID: {ID: clientID, OfficeID: officeID, Name: "Construtora Horizonte"},
		},
		matters:       map[string]*entity.Matter{},
		consultations: map[string]*entity.Consultation{},
	}
	taxCfg := &memTaxCfg{}
	rates := &memRates{table: map[string]decimal.Decimal{entity.RoleAdvogado: decimal.NewFromInt(400)}}

	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return &fixture{
		consolidator: NewConsolidator(
			&fakeTxRunner{entries: entries, invoices: invoices},
			invoices, clients, contracts, rates, taxCfg, log,
		),
		entries:   entries,
		invoices:  invoices,
		contracts: contracts,
		clients:   clients,
		taxCfg:    taxCfg,
	}
}

func (f *fixture) addHourlyContract(t *testing.T, rate int64) string {
	t.Helper()
	r := decimal.NewFromInt(rate)
	ct := &entity.BillingContract{
		ID: "ct-hora", OfficeID: officeID, ClientID: clientID,
		Model:  entity.ModelPorHora,
		Params: entity.RuleParams{HourlyRate: &r},
	}
	f.contracts.items[ct.ID] = ct
	f.clients.matters[matterHoraID] = &entity.Matter{
		ID: matterHoraID, OfficeID: officeID, ClientID: clientID,
		ContractID: ct.ID, Pasta: "2024/001", Title: "Rescisão de empreitada",
	}
	return ct.ID
}

func (f *fixture) addFixedContract(t *testing.T, amount int64) string {
	t.Helper()
	v := decimal.NewFromInt(amount)
	ct := &entity.BillingContract{
		ID: "ct-fixo", OfficeID: officeID, ClientID: clientID,
		Model:  entity.ModelFixo,
		Params: entity.RuleParams{FixedAmount: &v},
	}
	f.contracts.items[ct.ID] = ct
	f.clients.matters[matterFixoID] = &entity.Matter{
		ID: matterFixoID, OfficeID: officeID, ClientID: clientID,
		ContractID: ct.ID, Pasta: "2024/002", Title: "Consultivo societário",
	}
	return ct.ID
}

func (f *fixture) addApprovedEntry(matterID string, workDate time.Time, hours float64) string {
	id := uuid.New().String()
	f.entries.items[id] = &entity.TimesheetEntry{
		ID:           id,
		OfficeID:     officeID,
		AuthorUserID: advogadoID,
		RoleID:       entity.RoleAdvogado,
		MatterID:     matterID,
		WorkDate:     workDate,
		Hours:        decimal.NewFromFloat(hours),
		Activity:     "Atuação no processo",
		Billable:     true,
		Status:       entity.StatusAprovado,
	}
	return id
}

func buildRequest() dto.BuildInvoiceRequest {
	return dto.BuildInvoiceRequest{
		ClientID:   clientID,
		PeriodFrom: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodTo:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
	}
}

// ---- consolidação ----

func TestBuildInvoice_HorasAgregadas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addHourlyContract(t, 350)
	id1 := f.addApprovedEntry(matterHoraID, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), 2.5)
	id2 := f.addApprovedEntry(matterHoraID, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), 4)

	resp, err := f.consolidator.BuildInvoice(ctx, officeID, advogadoID, buildRequest())
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1, "horas do período entram como uma única linha agregada")
	line := resp.Lines[0]
	assert.Equal(t, entity.SourceTimesheetAggregate, line.SourceType)
	assert.Equal(t, "6.5", line.Quantity.String())
	assert.Equal(t, "2275", line.TotalAmount.String(), "6,5h x R$ 350/h")

	assert.Equal(t, "2275", resp.SubtotalHours.String())
	assert.Equal(t, "2275", resp.GrandTotal.String())
	assert.Equal(t, "Construtora Horizonte", resp.ClientName)

	for _, id := range []string{id1, id2} {
		e := f.entries.items[id]
		assert.True(t, e.Billed, "lançamento consumido deve ficar marcado")
		assert.Equal(t, resp.ID, e.InvoiceID)
	}
}

func TestBuildInvoice_HonorarioFixoSemHoras(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addFixedContract(t, 5000)

	resp, err := f.consolidator.BuildInvoice(ctx, officeID, advogadoID, buildRequest())
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1)
	assert.Equal(t, entity.SourceFee, resp.Lines[0].SourceType)
	assert.Equal(t, "5000", resp.Lines[0].TotalAmount.String())
	assert.Equal(t, "5000", resp.SubtotalFees.String())
	assert.True(t, resp.SubtotalHours.IsZero())
	assert.Equal(t, "5000", resp.GrandTotal.String())
}

func TestBuildInvoice_MensalidadePorPasta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := decimal.NewFromInt(1200)
	ct := &entity.BillingContract{
		ID: "ct-mensal", OfficeID: officeID, ClientID: clientID,
		Model:             entity.ModelMensalPorPasta,
		Params:            entity.RuleParams{PerMatterAmount: &v},
		BillingDayOfMonth: 5,
	}
	f.contracts.items[ct.ID] = ct
	f.clients.matters["m1"] = &entity.Matter{ID: "m1", OfficeID: officeID, ClientID: clientID, ContractID: ct.ID, Pasta: "2024/010"}
	f.clients.matters["m2"] = &entity.Matter{ID: "m2", OfficeID: officeID, ClientID: clientID, ContractID: ct.ID, Pasta: "2024/011"}

	resp, err := f.consolidator.BuildInvoice(ctx, officeID, advogadoID, buildRequest())
	require.NoError(t, err)

	require.Len(t, resp.Lines, 2, "uma linha de mensalidade por pasta do contrato")
	assert.Equal(t, "2400", resp.SubtotalFees.String())
	assert.Equal(t, "2400", resp.GrandTotal.String())
}

func TestBuildInvoice_MensalidadeForaDoDiaDeCobranca(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := decimal.NewFromInt(1200)
	ct := &entity.BillingContract{
		ID: "ct-mensal", OfficeID: officeID, ClientID: clientID,
		Model:             entity.ModelMensalPorPasta,
		Params:            entity.RuleParams{PerMatterAmount: &v},
		BillingDayOfMonth: 5,
	}
	f.contracts.items[ct.ID] = ct
	f.clients.matters["m1"] = &entity.Matter{ID: "m1", OfficeID: officeID, ClientID: clientID, ContractID: ct.ID, Pasta: "2024/010"}

	req := buildRequest()
	req.PeriodFrom = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	req.PeriodTo = time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	_, err := f.consolidator.BuildInvoice(ctx, officeID, advogadoID, req)
	assert.ErrorIs(t, err, domain.ErrEmptyInvoice, "dia de cobrança fora do período não gera mensalidade")
}

func TestBuildInvoice_ItensAvulsosESubtotais(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addHourlyContract(t, 350)
	f.addApprovedEntry(matterHoraID, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), 2)

	req := buildRequest()
	req.ExtraItems = []dto.ExtraLineItem{
		{SourceType: entity.SourceExpense, Description: "Custas judiciais", Quantity: decimal.NewFromInt(1), TotalAmount: decimal.NewFromFloat(312.40)},
		{SourceType: entity.SourceProceduralAct, Description: "Sustentação oral", Quantity: decimal.NewFromInt(1), TotalAmount: decimal.NewFromInt(1500)},
	}

	resp, err := f.consolidator.BuildInvoice(ctx, officeID, advogadoID, req)
	require.NoError(t, err)

	assert.Equal(t, "700", resp.SubtotalHours.String())
	assert.Equal(t, "312.4", resp.SubtotalExpenses.String())
	assert.Equal(t, "1500", resp.SubtotalFees.String(), "ato processual compõe honorários")
	soma := resp.SubtotalFees.Add(resp.SubtotalHours).Add(resp.SubtotalExpenses)
	assert.True(t, resp.GrandTotal.Equal(soma), "total geral é a soma dos três subtotais")
}

func TestBuildInvoice_ItemAvulsoInvalido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := buildRequest()
	req.ExtraItems = []dto.ExtraLineItem{
		{SourceType: "tipo_desconhecido", Description: "x", TotalAmount: decimal.NewFromInt(10)},
	}
	_, err := f.consolidator.BuildInvoice(ctx, officeID, advogadoID, req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBuildInvoice_Vazia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addHourlyContract(t, 350)

	_, err := f.consolidator.BuildInvoice(ctx, officeID, advogadoID, buildRequest())
	assert.ErrorIs(t, err, domain.ErrEmptyInvoice)
	assert.Empty(t, f.invoices.invoices, "fatura vazia não persiste nada")
}

func TestBuildInvoice_NaoRefaturaConsumidos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addHourlyContract(t, 350)
	f.addApprovedEntry(matterHoraID, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), 2)

	_, err := f.consolidator.BuildInvoice(ctx, officeID, advogadoID, buildRequest())
	require.NoError(t, err)

	_, err = f.consolidator.BuildInvoice(ctx, officeID, advogadoID, buildRequest())
	assert.ErrorIs(t, err, domain.ErrEmptyInvoice, "lançamento consumido não entra em segunda fatura")
}

func TestBuildInvoice_HonorarioFixoUmaVezPorCiclo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addFixedContract(t, 5000)

	first, err := f.consolidator.BuildInvoice(ctx, officeID, advogadoID, buildRequest())
	require.NoError(t, err)
	assert.Equal(t, "5000", first.GrandTotal.String())

	_, err = f.consolidator.BuildInvoice(ctx, officeID, advogadoID, buildRequest())
	assert.ErrorIs(t, err, domain.ErrEmptyInvoice,
		"reconstruir a fatura do mesmo ciclo não cobra o honorário fixo de novo")
	assert.Len(t, f.invoices.invoices, 1, "a retentativa não persiste uma segunda fatura")
}

func TestBuildInvoice_MensalidadeNaoCobraCicloJaFaturado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := decimal.NewFromInt(1200)
	ct := &entity.BillingContract{
		ID: "ct-mensal", OfficeID: officeID, ClientID: clientID,
		Model:             entity.ModelMensalPorPasta,
		Params:            entity.RuleParams{PerMatterAmount: &v},
		BillingDayOfMonth: 5,
	}
	f.contracts.items[ct.ID] = ct
	f.clients.matters["m1"] = &entity.Matter{ID: "m1", OfficeID: officeID, ClientID: clientID, ContractID: ct.ID, Pasta: "2024/010"}

	// Março fatura a ocorrência do dia 5.
	resp, err := f.consolidator.BuildInvoice(ctx, officeID, advogadoID, buildRequest())
	require.NoError(t, err)
	assert.Equal(t, "1200", resp.GrandTotal.String())

	// Período sobreposto março+abril: só o dia 5 de abril ainda não foi cobrado.
	req := buildRequest()
	req.PeriodTo = time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	resp, err = f.consolidator.BuildInvoice(ctx, officeID, advogadoID, req)
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "1", resp.Lines[0].Quantity.String(), "dia de cobrança já faturado não conta de novo")
	assert.Equal(t, "1200", resp.GrandTotal.String())
}

func TestBuildInvoice_PeriodoInvalido(t *testing.T) {
	f := newFixture(t)
	req := buildRequest()
	req.PeriodFrom, req.PeriodTo = req.PeriodTo, req.PeriodFrom
	_, err := f.consolidator.BuildInvoice(context.Background(), officeID, advogadoID, req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBuildInvoice_ClienteDeOutroEscritorio(t *testing.T) {
	f := newFixture(t)
	_, err := f.consolidator.BuildInvoice(context.Background(), "office-2", advogadoID, buildRequest())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ---- anotação de retenções ----

func TestBuildInvoice_AnotacaoDeRetencoes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addFixedContract(t, 10000)
	f.taxCfg.cfg = &entity.TaxRegimeConfig{
		OfficeID: officeID,
		Regime:   entity.RegimeLucroPresumido,
		Presumido: map[string]entity.TributoConfig{
			entity.TributoIRRF: {Active: true, Rate: decimal.NewFromFloat(1.5), WithheldAtSource: true},
			entity.TributoISS:  {Active: true, Rate: decimal.NewFromInt(5), WithheldAtSource: false},
		},
	}

	resp, err := f.consolidator.BuildInvoice(ctx, officeID, advogadoID, buildRequest())
	require.NoError(t, err)

	assert.Equal(t, "10000", resp.GrandTotal.String(), "retenções anotam, nunca alteram o total")
	require.Len(t, resp.Withholdings, 2)
	assert.Equal(t, entity.TributoIRRF, resp.Withholdings[0].Code)
	assert.Equal(t, "150", resp.Withholdings[0].Amount.String())
	assert.True(t, resp.Withholdings[0].WithheldAtSource)
}

func TestBuildInvoice_SemConfigTributariaAindaEmite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addFixedContract(t, 5000)
	f.taxCfg.cfg = nil

	resp, err := f.consolidator.BuildInvoice(ctx, officeID, advogadoID, buildRequest())
	require.NoError(t, err, "anotação tributária é informativa; ausência de config não bloqueia a fatura")
	assert.Empty(t, resp.Withholdings)
}

// ---- anexo de horas ----

func TestAnnex_OrdenadoPorData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addHourlyContract(t, 350)
	f.addApprovedEntry(matterHoraID, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), 1)
	f.addApprovedEntry(matterHoraID, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), 2)
	f.addApprovedEntry(matterHoraID, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), 3)

	resp, err := f.consolidator.BuildInvoice(ctx, officeID, advogadoID, buildRequest())
	require.NoError(t, err)

	annex, err := f.consolidator.Annex(ctx, officeID, resp.ID)
	require.NoError(t, err)

	require.Len(t, annex.Rows, 3)
	assert.Equal(t, "2024-03-02", annex.Rows[0].WorkDate)
	assert.Equal(t, "2024-03-11", annex.Rows[1].WorkDate)
	assert.Equal(t, "2024-03-20", annex.Rows[2].WorkDate)
	assert.Equal(t, "6", annex.HoursTotal.String())
}

func TestGetInvoice_NaoEncontrada(t *testing.T) {
	f := newFixture(t)
	_, err := f.consolidator.GetInvoice(context.Background(), officeID, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
